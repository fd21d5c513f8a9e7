package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is the closed status domain of a transport request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusRejected  RequestStatus = "rejected"
)

// CanTransitionTo reports whether moving from s to next is a legal transition.
// Terminal states are completed and rejected.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return next == RequestStatusAccepted || next == RequestStatusRejected
	case RequestStatusAccepted:
		return next == RequestStatusCompleted
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible from s
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusRejected
}

// TransportRequest is a cooperative's posted freight job. TransporterID is nil
// while the request is pending or rejected and set exactly once on acceptance.
type TransportRequest struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CooperativeID uuid.UUID      `gorm:"type:uuid;not null;index" json:"cooperative_id"`
	Cooperative   *User          `gorm:"foreignKey:CooperativeID" json:"cooperative,omitempty"`
	TransporterID *uuid.UUID     `gorm:"type:uuid;index" json:"transporter_id"`
	Transporter   *User          `gorm:"foreignKey:TransporterID" json:"transporter,omitempty"`
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Origin        string         `gorm:"type:varchar(255);not null" json:"origin"`
	Destination   string         `gorm:"type:varchar(255);not null" json:"destination"`
	CargoType     string         `gorm:"type:varchar(100);not null" json:"cargo_type"`
	WeightKg      *float64       `gorm:"type:decimal(10,2)" json:"weight_kg"`
	PickupDate    time.Time      `gorm:"not null" json:"pickup_date"`
	Status        RequestStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *TransportRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
