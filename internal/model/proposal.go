package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProposalStatus is the closed status domain of a proposal. The forward path
// is pending -> paid -> confirmed; rejected is the terminal branch applied to
// sibling proposals when a competing one is confirmed.
type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusPaid      ProposalStatus = "paid"
	ProposalStatusConfirmed ProposalStatus = "confirmed"
	ProposalStatusRejected  ProposalStatus = "rejected"
)

// CanTransitionTo reports whether moving from s to next is legal. No backward
// transitions exist; confirmed and rejected are terminal.
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	switch s {
	case ProposalStatusPending:
		return next == ProposalStatusPaid || next == ProposalStatusRejected
	case ProposalStatusPaid:
		return next == ProposalStatusConfirmed || next == ProposalStatusRejected
	default:
		return false
	}
}

// Proposal is a transporter's priced offer on a transport request. A
// transporter may hold at most one proposal per request (unique index).
type Proposal struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransportRequestID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_request_transporter" json:"transport_request_id"`
	TransportRequest   *TransportRequest `gorm:"foreignKey:TransportRequestID" json:"transport_request,omitempty"`
	TransporterID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_request_transporter" json:"transporter_id"`
	Transporter        *User           `gorm:"foreignKey:TransporterID" json:"transporter,omitempty"`
	Description        string          `gorm:"type:text;not null" json:"description"`
	Price              decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	MovaAccount        string          `gorm:"type:varchar(50);not null" json:"mova_account"` // Payment destination snapshot
	Status             ProposalStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentCode        *string         `gorm:"type:varchar(100)" json:"payment_code"`
	PaymentProofRef    *string         `gorm:"type:varchar(255)" json:"payment_proof_ref"`
	PaidAt             *time.Time      `json:"paid_at"`
	AdminConfirmedBy   *uuid.UUID      `gorm:"type:uuid" json:"admin_confirmed_by"`
	AdminConfirmedAt   *time.Time      `json:"admin_confirmed_at"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
