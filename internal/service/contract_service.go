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

// ContractService handles the bilateral signing of digital contracts. Each
// party signs at most once; whichever party signs second flips the contract
// to signed, inside the same conditional update that records the signature.
type ContractService interface {
	Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.DigitalContract, error)
	ListMine(ctx context.Context, actor workflow.Actor, page, limit int) ([]model.DigitalContract, int64, error)
	Sign(ctx context.Context, actor workflow.Actor, id uuid.UUID, signatureName string) (*model.DigitalContract, error)
}

type contractService struct {
	contracts repository.ContractRepository
	audit     AuditService
	notify    notifier.Dispatcher
	hub       *websocket.Hub
}

// NewContractService returns a new instance of ContractService
func NewContractService(contracts repository.ContractRepository, audit AuditService, notify notifier.Dispatcher, hub *websocket.Hub) ContractService {
	return &contractService{contracts: contracts, audit: audit, notify: notify, hub: hub}
}

func (s *contractService) Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.DigitalContract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "contract %s", id)
		}
		return nil, err
	}
	if !actor.IsAdmin() && !contract.Party(actor.ID) {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "not a party to this contract")
	}
	return contract, nil
}

func (s *contractService) ListMine(ctx context.Context, actor workflow.Actor, page, limit int) ([]model.DigitalContract, int64, error) {
	return s.contracts.ListForUser(ctx, actor.ID, page, limit)
}

// Sign records the caller's signature. Re-signing fails with ErrAlreadySigned
// rather than silently overwriting, preserving signature integrity.
func (s *contractService) Sign(ctx context.Context, actor workflow.Actor, id uuid.UUID, signatureName string) (*model.DigitalContract, error) {
	if signatureName == "" {
		return nil, workflow.Errorf(workflow.ErrInvalidInput, "signature name is required")
	}

	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "contract %s", id)
		}
		return nil, err
	}
	if !contract.Party(actor.ID) {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "not a party to this contract")
	}

	party := repository.PartyCooperative
	if actor.ID == contract.TransporterID {
		party = repository.PartyTransporter
	}

	rows, err := s.contracts.ApplySignature(ctx, id, party, signatureName, time.Now())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Either this party already signed, or the contract left pending in
		// between; re-read to tell the two apart.
		contract, getErr := s.contracts.GetByID(ctx, id)
		if getErr != nil {
			return nil, workflow.Errorf(workflow.ErrNotFound, "contract %s", id)
		}
		if contract.SignedBy(actor.ID) {
			return nil, workflow.Errorf(workflow.ErrAlreadySigned, "you have already signed this contract")
		}
		return nil, workflow.Errorf(workflow.ErrInvalidState, "contract is %s", contract.Status)
	}

	contract, err = s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := "The other party signed the contract. Your signature is still required."
	if contract.Status == model.ContractStatusSigned {
		detail = "The contract is now fully signed by both parties."
	}

	s.audit.Record(ctx, actor.ID, model.ActionSignContract, model.EntityContract, id.String(), map[string]interface{}{
		"contract_number": contract.ContractNumber,
		"status":          string(contract.Status),
	})
	s.notify.Notify(ctx, model.EventContractSigned, notifier.Payload{
		RequestID:     contract.TransportRequestID,
		ContractID:    contract.ID,
		CooperativeID: contract.CooperativeID,
		TransporterID: contract.TransporterID,
		ActorID:       actor.ID,
		Detail:        detail,
	})
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityContract,
		EntityID: id.String(),
		Action:   "signed",
		Status:   string(contract.Status),
	})

	return contract, nil
}
