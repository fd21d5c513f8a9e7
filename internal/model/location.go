package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationSample is one GPS fix reported by the assigned transporter while a
// transport is in progress. Append-only: never updated or deleted.
type LocationSample struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransportRequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"transport_request_id"`
	TransporterID      uuid.UUID `gorm:"type:uuid;not null;index" json:"transporter_id"`
	Latitude           float64   `gorm:"type:decimal(10,7);not null" json:"latitude"`
	Longitude          float64   `gorm:"type:decimal(10,7);not null" json:"longitude"`
	SpeedKmh           *float64  `gorm:"type:decimal(6,2)" json:"speed_kmh"`
	Heading            *float64  `gorm:"type:decimal(6,2)" json:"heading"`
	AccuracyM          *float64  `gorm:"type:decimal(8,2)" json:"accuracy_m"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
}

func (l *LocationSample) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
