package repository

import (
	"context"

	"agrofrete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRepository is the append-only store for request chat messages
type ChatRepository interface {
	Append(ctx context.Context, msg *model.ChatMessage) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository returns a new instance of ChatRepository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Append(ctx context.Context, msg *model.ChatMessage) error {
	return GetDB(ctx, r.db).Create(msg).Error
}

func (r *chatRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := GetDB(ctx, r.db).
		Preload("Sender").
		Where("transport_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
