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

// --- DTOs ---

type ReportLocationDTO struct {
	TransportRequestID uuid.UUID `json:"transport_request_id" binding:"required"`
	Latitude           float64   `json:"latitude" binding:"required"`
	Longitude          float64   `json:"longitude" binding:"required"`
	SpeedKmh           *float64  `json:"speed_kmh"`
	Heading            *float64  `json:"heading"`
	AccuracyM          *float64  `json:"accuracy_m"`
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// LocationService is the GPS reporting gate: samples are accepted only while
// the transport is accepted (in progress) and only from the assigned
// transporter. Beyond the gate it is a pure time-series append.
type LocationService interface {
	Report(ctx context.Context, actor workflow.Actor, dto ReportLocationDTO) (*model.LocationSample, error)
	Recent(ctx context.Context, actor workflow.Actor, requestID uuid.UUID, limit int) ([]model.LocationSample, error)
}

type locationService struct {
	locations repository.LocationRepository
	requests  repository.TransportRequestRepository
	hub       *websocket.Hub
}

// NewLocationService returns a new instance of LocationService
func NewLocationService(locations repository.LocationRepository, requests repository.TransportRequestRepository, hub *websocket.Hub) LocationService {
	return &locationService{locations: locations, requests: requests, hub: hub}
}

func (s *locationService) Report(ctx context.Context, actor workflow.Actor, dto ReportLocationDTO) (*model.LocationSample, error) {
	if dto.Latitude < -90 || dto.Latitude > 90 || dto.Longitude < -180 || dto.Longitude > 180 {
		return nil, workflow.Errorf(workflow.ErrInvalidInput, "coordinates out of range")
	}

	req, err := s.requests.GetByID(ctx, dto.TransportRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", dto.TransportRequestID)
		}
		return nil, err
	}
	if req.Status != model.RequestStatusAccepted {
		return nil, workflow.Errorf(workflow.ErrTransportNotActive, "request is %s, not in progress", req.Status)
	}
	if req.TransporterID == nil || *req.TransporterID != actor.ID {
		return nil, workflow.Errorf(workflow.ErrTransportNotActive, "you are not the assigned transporter")
	}

	sample := &model.LocationSample{
		TransportRequestID: req.ID,
		TransporterID:      actor.ID,
		Latitude:           dto.Latitude,
		Longitude:          dto.Longitude,
		SpeedKmh:           dto.SpeedKmh,
		Heading:            dto.Heading,
		AccuracyM:          dto.AccuracyM,
	}
	if err := s.locations.Append(ctx, sample); err != nil {
		return nil, err
	}

	s.hub.Publish(websocket.ChangeEvent{
		Entity:   "location_sample",
		EntityID: sample.ID.String(),
		Action:   "reported",
	})

	return sample, nil
}

// Recent returns the latest samples for display; the engine itself never
// aggregates beyond the gating above.
func (s *locationService) Recent(ctx context.Context, actor workflow.Actor, requestID uuid.UUID, limit int) ([]model.LocationSample, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", requestID)
		}
		return nil, err
	}

	isParty := actor.ID == req.CooperativeID || (req.TransporterID != nil && *req.TransporterID == actor.ID)
	if !actor.IsAdmin() && !isParty {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "not a party to this transport request")
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	return s.locations.Recent(ctx, requestID, limit)
}
