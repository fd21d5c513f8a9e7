package repository

import (
	"context"

	"agrofrete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestFilter narrows transport request listings
type RequestFilter struct {
	Status        model.RequestStatus
	CooperativeID *uuid.UUID
	TransporterID *uuid.UUID
	Page          int
	Limit         int
}

// TransportRequestRepository exposes CRUD plus the conditional-update
// primitives the workflow engine needs. The conditional updates return the
// number of rows affected so callers can tell a lost race from a missing row.
type TransportRequestRepository interface {
	Create(ctx context.Context, req *model.TransportRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.TransportRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]model.TransportRequest, int64, error)
	Claim(ctx context.Context, id, transporterID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type transportRequestRepository struct {
	db *gorm.DB
}

// NewTransportRequestRepository returns a new instance of TransportRequestRepository
func NewTransportRequestRepository(db *gorm.DB) TransportRequestRepository {
	return &transportRequestRepository{db: db}
}

func (r *transportRequestRepository) Create(ctx context.Context, req *model.TransportRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *transportRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TransportRequest, error) {
	var req model.TransportRequest
	if err := GetDB(ctx, r.db).Preload("Cooperative").Preload("Transporter").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *transportRequestRepository) List(ctx context.Context, filter RequestFilter) ([]model.TransportRequest, int64, error) {
	var total int64
	query := GetDB(ctx, r.db).Model(&model.TransportRequest{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CooperativeID != nil {
		query = query.Where("cooperative_id = ?", *filter.CooperativeID)
	}
	if filter.TransporterID != nil {
		query = query.Where("transporter_id = ?", *filter.TransporterID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	var requests []model.TransportRequest
	if err := query.
		Preload("Cooperative").
		Preload("Transporter").
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// Claim is the acceptance compare-and-swap: it moves the request from pending
// to accepted and assigns the transporter in a single conditional UPDATE, so
// two transporters racing on the same request cannot both win.
func (r *transportRequestRepository) Claim(ctx context.Context, id, transporterID uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.TransportRequest{}).
		Where("id = ? AND status = ? AND transporter_id IS NULL", id, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":         model.RequestStatusAccepted,
			"transporter_id": transporterID,
		})
	return res.RowsAffected, res.Error
}

// UpdateStatus moves the request from one status to another conditionally.
// Zero rows affected means the request was not in the expected status.
func (r *transportRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.TransportRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *transportRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TransportRequest{}).Error
}
