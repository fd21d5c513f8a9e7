package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workflow event kinds emitted through the notification dispatcher
const (
	EventRequestAccepted  = "request_accepted"
	EventProposalSent     = "proposal_sent"
	EventPaymentSubmitted = "payment_submitted"
	EventPaymentConfirmed = "payment_confirmed"
	EventContractSigned   = "contract_signed"
	EventRatingSubmitted  = "rating_submitted"
)

// Notification is one delivered message to a single recipient. The dispatcher
// resolves recipients per event kind and writes one row each; delivery beyond
// the store (email, push) is out of band.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Event       string    `gorm:"type:varchar(50);not null;index" json:"event"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Body        string    `gorm:"type:text" json:"body"`
	Payload     string    `gorm:"type:jsonb" json:"payload"` // Serialized event payload
	Read        bool      `gorm:"not null;default:false;index" json:"read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
