package repository

import (
	"context"

	"agrofrete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingRepository stores post-completion ratings
type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	Exists(ctx context.Context, requestID, reviewerID, reviewedID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, reviewedID uuid.UUID, page, limit int) ([]model.Rating, int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository returns a new instance of RatingRepository
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return GetDB(ctx, r.db).Create(rating).Error
}

func (r *ratingRepository) Exists(ctx context.Context, requestID, reviewerID, reviewedID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Rating{}).
		Where("transport_request_id = ? AND reviewer_id = ? AND reviewed_id = ?", requestID, reviewerID, reviewedID).
		Count(&count).Error
	return count > 0, err
}

func (r *ratingRepository) ListForUser(ctx context.Context, reviewedID uuid.UUID, page, limit int) ([]model.Rating, int64, error) {
	var total int64
	query := GetDB(ctx, r.db).Model(&model.Rating{}).Where("reviewed_id = ?", reviewedID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var ratings []model.Rating
	if err := GetDB(ctx, r.db).
		Preload("Reviewer").
		Where("reviewed_id = ?", reviewedID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&ratings).Error; err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}
