package repository

import (
	"context"

	"agrofrete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationRepository is the append-only writer and bounded reader for GPS
// samples. Samples are never updated or deleted.
type LocationRepository interface {
	Append(ctx context.Context, sample *model.LocationSample) error
	Recent(ctx context.Context, requestID uuid.UUID, limit int) ([]model.LocationSample, error)
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository returns a new instance of LocationRepository
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Append(ctx context.Context, sample *model.LocationSample) error {
	return GetDB(ctx, r.db).Create(sample).Error
}

// Recent returns the latest samples first, capped at limit.
func (r *locationRepository) Recent(ctx context.Context, requestID uuid.UUID, limit int) ([]model.LocationSample, error) {
	var samples []model.LocationSample
	err := GetDB(ctx, r.db).
		Where("transport_request_id = ?", requestID).
		Order("created_at DESC").
		Limit(limit).
		Find(&samples).Error
	return samples, err
}
