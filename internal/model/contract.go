package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContractStatus is the closed status domain of a digital contract
type ContractStatus string

const (
	ContractStatusPending ContractStatus = "pending"
	ContractStatusSigned  ContractStatus = "signed"
)

// DigitalContract is the bilateral record generated when a proposal is
// financially confirmed. Status flips to signed exactly once, at the moment
// the second party's signature lands. Invariant: status == signed iff both
// signature fields are non-nil.
type DigitalContract struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContractNumber       string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"contract_number"`
	TransportRequestID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"transport_request_id"`
	ProposalID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"proposal_id"`
	CooperativeID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"cooperative_id"`
	Cooperative          *User           `gorm:"foreignKey:CooperativeID" json:"cooperative,omitempty"`
	TransporterID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"transporter_id"`
	Transporter          *User           `gorm:"foreignKey:TransporterID" json:"transporter,omitempty"`
	Terms                string          `gorm:"type:text" json:"terms"`
	Price                decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	PickupDate           time.Time       `gorm:"not null" json:"pickup_date"`
	Origin               string          `gorm:"type:varchar(255);not null" json:"origin"`
	Destination          string          `gorm:"type:varchar(255);not null" json:"destination"`
	CargoType            string          `gorm:"type:varchar(100)" json:"cargo_type"`
	WeightKg             *float64        `gorm:"type:decimal(10,2)" json:"weight_kg"`
	CooperativeSignature *string         `gorm:"type:varchar(255)" json:"cooperative_signature"`
	CooperativeSignedAt  *time.Time      `json:"cooperative_signed_at"`
	TransporterSignature *string         `gorm:"type:varchar(255)" json:"transporter_signature"`
	TransporterSignedAt  *time.Time      `json:"transporter_signed_at"`
	Status               ContractStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

func (c *DigitalContract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// SignedBy reports whether the given party already signed the contract
func (c *DigitalContract) SignedBy(userID uuid.UUID) bool {
	if userID == c.CooperativeID {
		return c.CooperativeSignature != nil
	}
	if userID == c.TransporterID {
		return c.TransporterSignature != nil
	}
	return false
}

// Party reports whether userID is one of the two contract parties
func (c *DigitalContract) Party(userID uuid.UUID) bool {
	return userID == c.CooperativeID || userID == c.TransporterID
}
