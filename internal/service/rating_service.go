package service

import (
	"context"
	"errors"

	"agrofrete/internal/model"
	"agrofrete/internal/notifier"
	"agrofrete/internal/repository"
	"agrofrete/internal/websocket"
	"agrofrete/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type SubmitRatingDTO struct {
	TransportRequestID uuid.UUID `json:"transport_request_id" binding:"required"`
	ReviewedID         uuid.UUID `json:"reviewed_id" binding:"required"`
	Score              int       `json:"score" binding:"required"`
	Comment            string    `json:"comment"`
}

// RatingService gates post-completion reviews: only the two parties of a
// completed transport may rate each other, once per direction.
type RatingService interface {
	Submit(ctx context.Context, actor workflow.Actor, dto SubmitRatingDTO) (*model.Rating, error)
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Rating, int64, error)
}

type ratingService struct {
	ratings  repository.RatingRepository
	requests repository.TransportRequestRepository
	audit    AuditService
	notify   notifier.Dispatcher
	hub      *websocket.Hub
}

// NewRatingService returns a new instance of RatingService
func NewRatingService(ratings repository.RatingRepository, requests repository.TransportRequestRepository, audit AuditService, notify notifier.Dispatcher, hub *websocket.Hub) RatingService {
	return &ratingService{ratings: ratings, requests: requests, audit: audit, notify: notify, hub: hub}
}

func (s *ratingService) Submit(ctx context.Context, actor workflow.Actor, dto SubmitRatingDTO) (*model.Rating, error) {
	if dto.Score < model.RatingMin || dto.Score > model.RatingMax {
		return nil, workflow.Errorf(workflow.ErrInvalidInput, "score must be between %d and %d", model.RatingMin, model.RatingMax)
	}

	req, err := s.requests.GetByID(ctx, dto.TransportRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", dto.TransportRequestID)
		}
		return nil, err
	}
	if req.Status != model.RequestStatusCompleted {
		return nil, workflow.Errorf(workflow.ErrRatingNotAllowed, "request is %s, ratings open once the transport is completed", req.Status)
	}
	if req.TransporterID == nil {
		return nil, workflow.Errorf(workflow.ErrRatingNotAllowed, "request has no assigned transporter")
	}

	// Reviewer and reviewed must be the two parties of this request, in
	// either direction.
	coop, trans := req.CooperativeID, *req.TransporterID
	validPair := (actor.ID == coop && dto.ReviewedID == trans) || (actor.ID == trans && dto.ReviewedID == coop)
	if !validPair {
		return nil, workflow.Errorf(workflow.ErrRatingNotAllowed, "reviewer and reviewed must be the parties of this transport")
	}

	exists, err := s.ratings.Exists(ctx, req.ID, actor.ID, dto.ReviewedID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, workflow.Errorf(workflow.ErrRatingNotAllowed, "you already rated this party for this transport")
	}

	rating := &model.Rating{
		TransportRequestID: req.ID,
		ReviewerID:         actor.ID,
		ReviewedID:         dto.ReviewedID,
		Score:              dto.Score,
		Comment:            dto.Comment,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, workflow.Errorf(workflow.ErrRatingNotAllowed, "you already rated this party for this transport")
		}
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, model.ActionSubmitRating, model.EntityRating, rating.ID.String(), map[string]interface{}{
		"transport_request_id": req.ID.String(),
		"reviewed_id":          dto.ReviewedID.String(),
		"score":                dto.Score,
	})
	s.notify.Notify(ctx, model.EventRatingSubmitted, notifier.Payload{
		RequestID:    req.ID,
		RequestTitle: req.Title,
		ReviewedID:   dto.ReviewedID,
		ActorID:      actor.ID,
	})
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityRating,
		EntityID: rating.ID.String(),
		Action:   "submitted",
	})

	return rating, nil
}

func (s *ratingService) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Rating, int64, error) {
	return s.ratings.ListForUser(ctx, userID, page, limit)
}
