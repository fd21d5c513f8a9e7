package service

import (
	"context"
	"errors"
	"time"

	"agrofrete/internal/model"
	"agrofrete/internal/notifier"
	"agrofrete/internal/repository"
	"agrofrete/internal/websocket"
	"agrofrete/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRequestDTO struct {
	Title       string    `json:"title" binding:"required"`
	Origin      string    `json:"origin" binding:"required"`
	Destination string    `json:"destination" binding:"required"`
	CargoType   string    `json:"cargo_type" binding:"required"`
	WeightKg    *float64  `json:"weight_kg"`
	PickupDate  time.Time `json:"pickup_date" binding:"required"`
}

type ListRequestsDTO struct {
	Status string
	Page   int
	Limit  int
}

// RequestService drives the transport request leg of the engagement workflow:
// creation by a cooperative, acceptance or rejection by a transporter,
// completion by an admin, deletion as admin governance. Acceptance is the one
// operation two actors can genuinely race on, so it rides on a single
// conditional update in the store.
type RequestService interface {
	Create(ctx context.Context, actor workflow.Actor, dto CreateRequestDTO) (*model.TransportRequest, error)
	Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.TransportRequest, error)
	List(ctx context.Context, actor workflow.Actor, dto ListRequestsDTO) ([]model.TransportRequest, int64, error)
	Accept(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.TransportRequest, error)
	Reject(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.TransportRequest, error)
	Complete(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.TransportRequest, error)
	Delete(ctx context.Context, actor workflow.Actor, id uuid.UUID) error
}

type requestService struct {
	requests repository.TransportRequestRepository
	audit    AuditService
	notify   notifier.Dispatcher
	hub      *websocket.Hub
}

// NewRequestService returns a new instance of RequestService
func NewRequestService(requests repository.TransportRequestRepository, audit AuditService, notify notifier.Dispatcher, hub *websocket.Hub) RequestService {
	return &requestService{requests: requests, audit: audit, notify: notify, hub: hub}
}

// --- Implementation ---

func (s *requestService) Create(ctx context.Context, actor workflow.Actor, dto CreateRequestDTO) (*model.TransportRequest, error) {
	if !actor.IsCooperative() {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "only cooperatives can post transport requests")
	}
	if dto.Title == "" || dto.Origin == "" || dto.Destination == "" || dto.CargoType == "" {
		return nil, workflow.Errorf(workflow.ErrInvalidInput, "title, origin, destination and cargo type are required")
	}
	if dto.WeightKg != nil && *dto.WeightKg <= 0 {
		return nil, workflow.Errorf(workflow.ErrInvalidInput, "weight must be positive")
	}

	req := &model.TransportRequest{
		CooperativeID: actor.ID,
		Title:         dto.Title,
		Origin:        dto.Origin,
		Destination:   dto.Destination,
		CargoType:     dto.CargoType,
		WeightKg:      dto.WeightKg,
		PickupDate:    dto.PickupDate,
		Status:        model.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, model.ActionCreateRequest, model.EntityTransportRequest, req.ID.String(), map[string]interface{}{
		"title":       req.Title,
		"origin":      req.Origin,
		"destination": req.Destination,
	})
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityTransportRequest,
		EntityID: req.ID.String(),
		Action:   "created",
		Status:   string(req.Status),
	})

	return req, nil
}

func (s *requestService) Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.TransportRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", id)
		}
		return nil, err
	}
	if !s.canView(actor, req) {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "not a party to this transport request")
	}
	return req, nil
}

// canView: admins see everything, the owning cooperative and the assigned
// transporter see their own, and any transporter may browse open requests.
func (s *requestService) canView(actor workflow.Actor, req *model.TransportRequest) bool {
	if actor.IsAdmin() || actor.ID == req.CooperativeID {
		return true
	}
	if req.TransporterID != nil && actor.ID == *req.TransporterID {
		return true
	}
	return actor.IsTransporter() && req.Status == model.RequestStatusPending
}

func (s *requestService) List(ctx context.Context, actor workflow.Actor, dto ListRequestsDTO) ([]model.TransportRequest, int64, error) {
	filter := repository.RequestFilter{
		Status: model.RequestStatus(dto.Status),
		Page:   dto.Page,
		Limit:  dto.Limit,
	}

	switch {
	case actor.IsCooperative():
		id := actor.ID
		filter.CooperativeID = &id
	case actor.IsTransporter():
		// Transporters browse the open board unless asking for their own jobs
		if dto.Status == "" || dto.Status == string(model.RequestStatusPending) {
			filter.Status = model.RequestStatusPending
		} else {
			id := actor.ID
			filter.TransporterID = &id
		}
	case actor.IsAdmin():
		// No row filter
	default:
		return nil, 0, workflow.Errorf(workflow.ErrUnauthorized, "unknown role %q", actor.Role)
	}

	return s.requests.List(ctx, filter)
}

// Accept claims the request for the calling transporter. First accept wins:
// the compare-and-swap in the store serializes concurrent accepts, and the
// loser gets ErrConflictLost rather than a silent overwrite.
func (s *requestService) Accept(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.TransportRequest, error) {
	if !actor.IsTransporter() {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "only transporters can accept transport requests")
	}

	rows, err := s.requests.Claim(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		req, getErr := s.requests.GetByID(ctx, id)
		if getErr != nil {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", id)
		}
		if req.Status == model.RequestStatusAccepted {
			return nil, workflow.Errorf(workflow.ErrConflictLost, "request was just accepted by another transporter")
		}
		return nil, workflow.Errorf(workflow.ErrInvalidState, "request is %s, not pending", req.Status)
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, model.ActionAcceptRequest, model.EntityTransportRequest, id.String(), map[string]interface{}{
		"transporter_id": actor.ID.String(),
	})
	s.notify.Notify(ctx, model.EventRequestAccepted, notifier.Payload{
		RequestID:     req.ID,
		RequestTitle:  req.Title,
		CooperativeID: req.CooperativeID,
		TransporterID: actor.ID,
		ActorID:       actor.ID,
	})
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityTransportRequest,
		EntityID: id.String(),
		Action:   "accepted",
		Status:   string(model.RequestStatusAccepted),
	})

	return req, nil
}

// Reject declines the request without claiming ownership; the transporter_id
// stays null, so no acceptance race applies.
func (s *requestService) Reject(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.TransportRequest, error) {
	if !actor.IsTransporter() {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "only transporters can reject transport requests")
	}

	rows, err := s.requests.UpdateStatus(ctx, id, model.RequestStatusPending, model.RequestStatusRejected)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		req, getErr := s.requests.GetByID(ctx, id)
		if getErr != nil {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", id)
		}
		return nil, workflow.Errorf(workflow.ErrInvalidState, "request is %s, not pending", req.Status)
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, model.ActionRejectRequest, model.EntityTransportRequest, id.String(), nil)
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityTransportRequest,
		EntityID: id.String(),
		Action:   "rejected",
		Status:   string(model.RequestStatusRejected),
	})

	return req, nil
}

// Complete closes an in-progress transport. Admin-only; the rating gate opens
// once the request reaches completed.
func (s *requestService) Complete(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.TransportRequest, error) {
	if !actor.IsAdmin() {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "only admins can complete transport requests")
	}

	rows, err := s.requests.UpdateStatus(ctx, id, model.RequestStatusAccepted, model.RequestStatusCompleted)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		req, getErr := s.requests.GetByID(ctx, id)
		if getErr != nil {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", id)
		}
		return nil, workflow.Errorf(workflow.ErrInvalidState, "request is %s, not accepted", req.Status)
	}

	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, model.ActionCompleteRequest, model.EntityTransportRequest, id.String(), nil)
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityTransportRequest,
		EntityID: id.String(),
		Action:   "completed",
		Status:   string(model.RequestStatusCompleted),
	})

	return req, nil
}

// Delete removes a request entirely. Admin governance only; requests never
// disappear implicitly.
func (s *requestService) Delete(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return workflow.Errorf(workflow.ErrUnauthorized, "only admins can delete transport requests")
	}

	if _, err := s.requests.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workflow.Errorf(workflow.ErrNotFound, "transport request %s", id)
		}
		return err
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, actor.ID, model.ActionDeleteRequest, model.EntityTransportRequest, id.String(), nil)
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityTransportRequest,
		EntityID: id.String(),
		Action:   "deleted",
	})

	return nil
}
