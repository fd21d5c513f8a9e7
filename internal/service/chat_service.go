package service

import (
	"context"
	"errors"

	"agrofrete/internal/model"
	"agrofrete/internal/repository"
	"agrofrete/internal/websocket"
	"agrofrete/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatService is the append-only message thread between the two parties of a
// transport request. Messages are never edited or deleted.
type ChatService interface {
	Send(ctx context.Context, actor workflow.Actor, requestID uuid.UUID, message string) (*model.ChatMessage, error)
	List(ctx context.Context, actor workflow.Actor, requestID uuid.UUID) ([]model.ChatMessage, error)
}

type chatService struct {
	chats    repository.ChatRepository
	requests repository.TransportRequestRepository
	hub      *websocket.Hub
}

// NewChatService returns a new instance of ChatService
func NewChatService(chats repository.ChatRepository, requests repository.TransportRequestRepository, hub *websocket.Hub) ChatService {
	return &chatService{chats: chats, requests: requests, hub: hub}
}

func (s *chatService) participant(actor workflow.Actor, req *model.TransportRequest) bool {
	if actor.ID == req.CooperativeID {
		return true
	}
	return req.TransporterID != nil && *req.TransporterID == actor.ID
}

func (s *chatService) Send(ctx context.Context, actor workflow.Actor, requestID uuid.UUID, message string) (*model.ChatMessage, error) {
	if message == "" {
		return nil, workflow.Errorf(workflow.ErrInvalidInput, "message is required")
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", requestID)
		}
		return nil, err
	}
	if !s.participant(actor, req) {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "not a party to this transport request")
	}

	msg := &model.ChatMessage{
		TransportRequestID: requestID,
		SenderID:           actor.ID,
		Message:            message,
	}
	if err := s.chats.Append(ctx, msg); err != nil {
		return nil, err
	}

	s.hub.Publish(websocket.ChangeEvent{
		Entity:   "chat_message",
		EntityID: msg.ID.String(),
		Action:   "sent",
	})

	return msg, nil
}

func (s *chatService) List(ctx context.Context, actor workflow.Actor, requestID uuid.UUID) ([]model.ChatMessage, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", requestID)
		}
		return nil, err
	}
	if !actor.IsAdmin() && !s.participant(actor, req) {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "not a party to this transport request")
	}

	return s.chats.ListByRequest(ctx, requestID)
}
