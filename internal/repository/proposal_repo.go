package repository

import (
	"context"
	"time"

	"agrofrete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProposalRepository exposes proposal CRUD plus the conditional status moves
// of the payment sub-flow. Status only ever moves forward; each move is a
// single conditional UPDATE keyed on the expected current status.
type ProposalRepository interface {
	Create(ctx context.Context, p *model.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Proposal, error)
	ExistsForPair(ctx context.Context, requestID, transporterID uuid.UUID) (bool, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.Proposal, error)
	MarkPaid(ctx context.Context, id uuid.UUID, code, proofRef *string, at time.Time) (int64, error)
	Confirm(ctx context.Context, id, adminID uuid.UUID, at time.Time) (int64, error)
	RejectSiblings(ctx context.Context, requestID, confirmedID uuid.UUID) (int64, error)
}

type proposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository returns a new instance of ProposalRepository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &proposalRepository{db: db}
}

func (r *proposalRepository) Create(ctx context.Context, p *model.Proposal) error {
	return GetDB(ctx, r.db).Create(p).Error
}

func (r *proposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Proposal, error) {
	var p model.Proposal
	if err := GetDB(ctx, r.db).
		Preload("Transporter").
		Preload("TransportRequest").
		First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepository) ExistsForPair(ctx context.Context, requestID, transporterID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Proposal{}).
		Where("transport_request_id = ? AND transporter_id = ?", requestID, transporterID).
		Count(&count).Error
	return count > 0, err
}

func (r *proposalRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.Proposal, error) {
	var proposals []model.Proposal
	err := GetDB(ctx, r.db).
		Preload("Transporter").
		Where("transport_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&proposals).Error
	return proposals, err
}

// MarkPaid moves pending -> paid, recording the payment evidence.
func (r *proposalRepository) MarkPaid(ctx context.Context, id uuid.UUID, code, proofRef *string, at time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Proposal{}).
		Where("id = ? AND status = ?", id, model.ProposalStatusPending).
		Updates(map[string]interface{}{
			"status":            model.ProposalStatusPaid,
			"payment_code":      code,
			"payment_proof_ref": proofRef,
			"paid_at":           at,
		})
	return res.RowsAffected, res.Error
}

// Confirm moves paid -> confirmed, stamping the confirming admin.
func (r *proposalRepository) Confirm(ctx context.Context, id, adminID uuid.UUID, at time.Time) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Proposal{}).
		Where("id = ? AND status = ?", id, model.ProposalStatusPaid).
		Updates(map[string]interface{}{
			"status":             model.ProposalStatusConfirmed,
			"admin_confirmed_by": adminID,
			"admin_confirmed_at": at,
		})
	return res.RowsAffected, res.Error
}

// RejectSiblings terminates every other non-terminal proposal on the request
// once one of them has been confirmed.
func (r *proposalRepository) RejectSiblings(ctx context.Context, requestID, confirmedID uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.Proposal{}).
		Where("transport_request_id = ? AND id <> ? AND status IN ?",
			requestID, confirmedID, []model.ProposalStatus{model.ProposalStatusPending, model.ProposalStatusPaid}).
		Update("status", model.ProposalStatusRejected)
	return res.RowsAffected, res.Error
}
