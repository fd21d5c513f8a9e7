package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action constants for workflow-relevant operations
const (
	ActionCreateRequest   = "CREATE_REQUEST"
	ActionAcceptRequest   = "ACCEPT_REQUEST"
	ActionRejectRequest   = "REJECT_REQUEST"
	ActionCompleteRequest = "COMPLETE_REQUEST"
	ActionDeleteRequest   = "DELETE_REQUEST"
	ActionSubmitProposal  = "SUBMIT_PROPOSAL"
	ActionSubmitPayment   = "SUBMIT_PAYMENT"
	ActionConfirmPayment  = "CONFIRM_PAYMENT"
	ActionSignContract    = "SIGN_CONTRACT"
	ActionSubmitRating    = "SUBMIT_RATING"
)

// Audited entity types
const (
	EntityTransportRequest = "transport_request"
	EntityProposal         = "proposal"
	EntityContract         = "digital_contract"
	EntityRating           = "rating"
)

// AuditLog tracks Who, What, and When for workflow actions. Append-only and
// write-only from the workflow's point of view.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // Nullable gracefully if system-triggered
	Actor      *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityType string     `gorm:"type:varchar(50);not null;index" json:"entity_type"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	Details    string     `gorm:"type:jsonb" json:"details"` // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
