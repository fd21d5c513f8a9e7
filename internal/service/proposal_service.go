package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agrofrete/internal/model"
	"agrofrete/internal/notifier"
	"agrofrete/internal/repository"
	"agrofrete/internal/websocket"
	"agrofrete/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type SubmitProposalDTO struct {
	TransportRequestID uuid.UUID `json:"transport_request_id" binding:"required"`
	Description        string    `json:"description" binding:"required"`
	Price              string    `json:"price" binding:"required"`
}

type SubmitPaymentDTO struct {
	PaymentCode     string `json:"payment_code"`
	PaymentProofRef string `json:"payment_proof_ref"`
}

// ProposalService drives the proposal and payment sub-flow: submission by a
// transporter, payment evidence from the cooperative, manual confirmation by
// an admin. Confirmation is the commercial point of no return: it terminates
// sibling proposals and generates the digital contract in one transaction.
type ProposalService interface {
	Submit(ctx context.Context, actor workflow.Actor, dto SubmitProposalDTO) (*model.Proposal, error)
	Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.Proposal, error)
	ListByRequest(ctx context.Context, actor workflow.Actor, requestID uuid.UUID) ([]model.Proposal, error)
	SubmitPayment(ctx context.Context, actor workflow.Actor, id uuid.UUID, dto SubmitPaymentDTO) (*model.Proposal, error)
	ConfirmPayment(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.Proposal, *model.DigitalContract, error)
}

type proposalService struct {
	txm         repository.TransactionManager
	proposals   repository.ProposalRepository
	requests    repository.TransportRequestRepository
	contracts   repository.ContractRepository
	audit       AuditService
	notify      notifier.Dispatcher
	hub         *websocket.Hub
	movaAccount string // Platform payment destination snapshotted onto every proposal
}

// NewProposalService returns a new instance of ProposalService
func NewProposalService(
	txm repository.TransactionManager,
	proposals repository.ProposalRepository,
	requests repository.TransportRequestRepository,
	contracts repository.ContractRepository,
	audit AuditService,
	notify notifier.Dispatcher,
	hub *websocket.Hub,
	movaAccount string,
) ProposalService {
	return &proposalService{
		txm:         txm,
		proposals:   proposals,
		requests:    requests,
		contracts:   contracts,
		audit:       audit,
		notify:      notify,
		hub:         hub,
		movaAccount: movaAccount,
	}
}

// --- Implementation ---

func (s *proposalService) Submit(ctx context.Context, actor workflow.Actor, dto SubmitProposalDTO) (*model.Proposal, error) {
	if !actor.IsTransporter() {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "only transporters can submit proposals")
	}
	if dto.Description == "" {
		return nil, workflow.Errorf(workflow.ErrInvalidInput, "description is required")
	}

	price, err := decimal.NewFromString(dto.Price)
	if err != nil {
		return nil, workflow.Errorf(workflow.ErrInvalidInput, "invalid price %q", dto.Price)
	}
	if !price.IsPositive() {
		return nil, workflow.Errorf(workflow.ErrInvalidInput, "price must be positive")
	}

	req, err := s.requests.GetByID(ctx, dto.TransportRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", dto.TransportRequestID)
		}
		return nil, err
	}
	// A proposal may target an open request or one the caller already holds
	switch req.Status {
	case model.RequestStatusPending:
	case model.RequestStatusAccepted:
		if req.TransporterID == nil || *req.TransporterID != actor.ID {
			return nil, workflow.Errorf(workflow.ErrUnauthorized, "request is held by another transporter")
		}
	default:
		return nil, workflow.Errorf(workflow.ErrInvalidState, "request is %s and no longer open for proposals", req.Status)
	}

	exists, err := s.proposals.ExistsForPair(ctx, req.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, workflow.Errorf(workflow.ErrDuplicateProposal, "you already submitted a proposal on this request")
	}

	proposal := &model.Proposal{
		TransportRequestID: req.ID,
		TransporterID:      actor.ID,
		Description:        dto.Description,
		Price:              price,
		MovaAccount:        s.movaAccount,
		Status:             model.ProposalStatusPending,
	}
	if err := s.proposals.Create(ctx, proposal); err != nil {
		// Unique index backstop for two simultaneous submits of the same pair
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, workflow.Errorf(workflow.ErrDuplicateProposal, "you already submitted a proposal on this request")
		}
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, model.ActionSubmitProposal, model.EntityProposal, proposal.ID.String(), map[string]interface{}{
		"transport_request_id": req.ID.String(),
		"price":                price.StringFixed(2),
	})
	s.notify.Notify(ctx, model.EventProposalSent, notifier.Payload{
		RequestID:     req.ID,
		RequestTitle:  req.Title,
		ProposalID:    proposal.ID,
		CooperativeID: req.CooperativeID,
		TransporterID: actor.ID,
		ActorID:       actor.ID,
		Price:         price.StringFixed(2),
	})
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityProposal,
		EntityID: proposal.ID.String(),
		Action:   "submitted",
		Status:   string(proposal.Status),
	})

	return proposal, nil
}

func (s *proposalService) Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "proposal %s", id)
		}
		return nil, err
	}
	if !s.canView(actor, proposal) {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "not a party to this proposal")
	}
	return proposal, nil
}

func (s *proposalService) canView(actor workflow.Actor, p *model.Proposal) bool {
	if actor.IsAdmin() || actor.ID == p.TransporterID {
		return true
	}
	return p.TransportRequest != nil && actor.ID == p.TransportRequest.CooperativeID
}

func (s *proposalService) ListByRequest(ctx context.Context, actor workflow.Actor, requestID uuid.UUID) ([]model.Proposal, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "transport request %s", requestID)
		}
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != req.CooperativeID {
		// Transporters only ever see their own proposal through Get
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "only the owning cooperative can list proposals")
	}
	return s.proposals.ListByRequest(ctx, requestID)
}

// SubmitPayment records the cooperative's manual payment evidence and moves
// the proposal pending -> paid.
func (s *proposalService) SubmitPayment(ctx context.Context, actor workflow.Actor, id uuid.UUID, dto SubmitPaymentDTO) (*model.Proposal, error) {
	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Errorf(workflow.ErrNotFound, "proposal %s", id)
		}
		return nil, err
	}
	if proposal.TransportRequest == nil || !actor.IsCooperative() || actor.ID != proposal.TransportRequest.CooperativeID {
		return nil, workflow.Errorf(workflow.ErrUnauthorized, "only the cooperative owning the request can submit payment")
	}
	if dto.PaymentCode == "" && dto.PaymentProofRef == "" {
		return nil, workflow.Errorf(workflow.ErrMissingPaymentEvidence, "provide a payment code or a proof reference")
	}

	var code, proofRef *string
	if dto.PaymentCode != "" {
		code = &dto.PaymentCode
	}
	if dto.PaymentProofRef != "" {
		proofRef = &dto.PaymentProofRef
	}

	rows, err := s.proposals.MarkPaid(ctx, id, code, proofRef, time.Now())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, workflow.Errorf(workflow.ErrInvalidState, "proposal is %s, not pending", proposal.Status)
	}

	proposal, err = s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor.ID, model.ActionSubmitPayment, model.EntityProposal, id.String(), map[string]interface{}{
		"has_code":  code != nil,
		"has_proof": proofRef != nil,
	})
	s.notify.Notify(ctx, model.EventPaymentSubmitted, notifier.Payload{
		RequestID:     proposal.TransportRequestID,
		RequestTitle:  proposal.TransportRequest.Title,
		ProposalID:    proposal.ID,
		CooperativeID: actor.ID,
		TransporterID: proposal.TransporterID,
		ActorID:       actor.ID,
	})
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityProposal,
		EntityID: id.String(),
		Action:   "payment_submitted",
		Status:   string(model.ProposalStatusPaid),
	})

	return proposal, nil
}

// ConfirmPayment is the admin gate: paid -> confirmed. In the same transaction
// the sibling proposals are terminated (exactly one confirmed proposal per
// request) and the digital contract is generated. There is no reversal path;
// a confirmed proposal is final.
func (s *proposalService) ConfirmPayment(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.Proposal, *model.DigitalContract, error) {
	if !actor.IsAdmin() {
		return nil, nil, workflow.Errorf(workflow.ErrUnauthorized, "only admins can confirm payments")
	}

	var contract *model.DigitalContract
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		rows, err := s.proposals.Confirm(txCtx, id, actor.ID, time.Now())
		if err != nil {
			return err
		}
		if rows == 0 {
			proposal, getErr := s.proposals.GetByID(txCtx, id)
			if getErr != nil {
				return workflow.Errorf(workflow.ErrNotFound, "proposal %s", id)
			}
			return workflow.Errorf(workflow.ErrInvalidState, "proposal is %s, not paid", proposal.Status)
		}

		proposal, err := s.proposals.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		req := proposal.TransportRequest
		if req == nil {
			return fmt.Errorf("proposal %s has no transport request loaded", id)
		}

		if _, err := s.proposals.RejectSiblings(txCtx, proposal.TransportRequestID, proposal.ID); err != nil {
			return fmt.Errorf("failed to reject sibling proposals: %w", err)
		}

		number, err := s.contracts.NextContractNumber(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate contract number: %w", err)
		}

		contract = &model.DigitalContract{
			ContractNumber:     number,
			TransportRequestID: req.ID,
			ProposalID:         proposal.ID,
			CooperativeID:      req.CooperativeID,
			TransporterID:      proposal.TransporterID,
			Terms: fmt.Sprintf(
				"Transport of %s from %s to %s, pickup on %s, for %s MZN as proposed.",
				req.CargoType, req.Origin, req.Destination,
				req.PickupDate.Format("2006-01-02"), proposal.Price.StringFixed(2),
			),
			Price:       proposal.Price,
			PickupDate:  req.PickupDate,
			Origin:      req.Origin,
			Destination: req.Destination,
			CargoType:   req.CargoType,
			WeightKg:    req.WeightKg,
			Status:      model.ContractStatusPending,
		}
		if err := s.contracts.Create(txCtx, contract); err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	proposal, err := s.proposals.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.audit.Record(ctx, actor.ID, model.ActionConfirmPayment, model.EntityProposal, id.String(), map[string]interface{}{
		"contract_id":     contract.ID.String(),
		"contract_number": contract.ContractNumber,
	})
	s.notify.Notify(ctx, model.EventPaymentConfirmed, notifier.Payload{
		RequestID:     proposal.TransportRequestID,
		RequestTitle:  proposal.TransportRequest.Title,
		ProposalID:    proposal.ID,
		ContractID:    contract.ID,
		CooperativeID: contract.CooperativeID,
		TransporterID: contract.TransporterID,
		ActorID:       actor.ID,
	})
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityProposal,
		EntityID: id.String(),
		Action:   "payment_confirmed",
		Status:   string(model.ProposalStatusConfirmed),
	})
	s.hub.Publish(websocket.ChangeEvent{
		Entity:   model.EntityContract,
		EntityID: contract.ID.String(),
		Action:   "created",
		Status:   string(contract.Status),
	})

	return proposal, contract, nil
}
