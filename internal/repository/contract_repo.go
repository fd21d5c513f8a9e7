package repository

import (
	"context"
	"fmt"
	"time"

	"agrofrete/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractParty selects which signature column a conditional signing targets
type ContractParty string

const (
	PartyCooperative ContractParty = "cooperative"
	PartyTransporter ContractParty = "transporter"
)

// ContractRepository exposes digital contract access plus the signature
// compare-and-swap. Whichever party signs second flips the status to signed
// inside the same UPDATE, so two concurrent signers cannot miss the flip.
type ContractRepository interface {
	Create(ctx context.Context, c *model.DigitalContract) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DigitalContract, error)
	GetByProposal(ctx context.Context, proposalID uuid.UUID) (*model.DigitalContract, error)
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.DigitalContract, int64, error)
	ApplySignature(ctx context.Context, id uuid.UUID, party ContractParty, name string, at time.Time) (int64, error)
	NextContractNumber(ctx context.Context) (string, error)
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository returns a new instance of ContractRepository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, c *model.DigitalContract) error {
	return GetDB(ctx, r.db).Create(c).Error
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DigitalContract, error) {
	var c model.DigitalContract
	if err := GetDB(ctx, r.db).
		Preload("Cooperative").
		Preload("Transporter").
		First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contractRepository) GetByProposal(ctx context.Context, proposalID uuid.UUID) (*model.DigitalContract, error) {
	var c model.DigitalContract
	if err := GetDB(ctx, r.db).First(&c, "proposal_id = ?", proposalID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contractRepository) ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.DigitalContract, int64, error) {
	var total int64
	query := GetDB(ctx, r.db).Model(&model.DigitalContract{}).
		Where("cooperative_id = ? OR transporter_id = ?", userID, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var contracts []model.DigitalContract
	if err := GetDB(ctx, r.db).
		Preload("Cooperative").
		Preload("Transporter").
		Where("cooperative_id = ? OR transporter_id = ?", userID, userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contracts).Error; err != nil {
		return nil, 0, err
	}

	return contracts, total, nil
}

// ApplySignature records the party's signature iff that party has not signed
// yet, and flips status to signed in the same statement when the counterpart
// signature is already present.
func (r *contractRepository) ApplySignature(ctx context.Context, id uuid.UUID, party ContractParty, name string, at time.Time) (int64, error) {
	var sigCol, atCol, otherCol string
	switch party {
	case PartyCooperative:
		sigCol, atCol, otherCol = "cooperative_signature", "cooperative_signed_at", "transporter_signature"
	case PartyTransporter:
		sigCol, atCol, otherCol = "transporter_signature", "transporter_signed_at", "cooperative_signature"
	default:
		return 0, fmt.Errorf("unknown contract party: %s", party)
	}

	res := GetDB(ctx, r.db).Model(&model.DigitalContract{}).
		Where("id = ? AND "+sigCol+" IS NULL AND status = ?", id, model.ContractStatusPending).
		Updates(map[string]interface{}{
			sigCol: name,
			atCol:  at,
			"status": gorm.Expr(
				"CASE WHEN "+otherCol+" IS NOT NULL THEN ? ELSE status END",
				model.ContractStatusSigned,
			),
		})
	return res.RowsAffected, res.Error
}

// NextContractNumber generates a unique human-readable contract code in the
// form CT-YYYYMMDD-NNNNN. On postgres an advisory lock serializes concurrent
// generation for the same day prefix.
func (r *contractRepository) NextContractNumber(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	today := time.Now().Format("20060102")
	prefix := "CT-" + today + "-"

	if db.Dialector.Name() == "postgres" {
		db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)
	}

	var count int64
	if err := db.Model(&model.DigitalContract{}).
		Where("contract_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}
