package service

import (
	"context"

	"agrofrete/internal/model"
	"agrofrete/internal/repository"
	"agrofrete/internal/workflow"

	"github.com/google/uuid"
)

// NotificationService lets users read and acknowledge their notifications
type NotificationService interface {
	List(ctx context.Context, actor workflow.Actor, unreadOnly bool, page, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, actor workflow.Actor, id uuid.UUID) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService returns a new instance of NotificationService
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, actor workflow.Actor, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	return s.repo.ListByRecipient(ctx, actor.ID, unreadOnly, page, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
	rows, err := s.repo.MarkRead(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return workflow.Errorf(workflow.ErrNotFound, "notification %s", id)
	}
	return nil
}
