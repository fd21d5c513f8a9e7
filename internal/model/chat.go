package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is one message between the parties of a transport request.
// Append-only, ordered by created_at; no edit or delete.
type ChatMessage struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransportRequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"transport_request_id"`
	SenderID           uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender             *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Message            string    `gorm:"type:text;not null" json:"message"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
