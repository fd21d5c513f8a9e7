package service_test

import (
	"context"
	"testing"

	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/internal/testutil"
	"agrofrete/internal/workflow"

	"github.com/stretchr/testify/require"
)

func TestSubmitProposal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)

	proposal, err := e.proposals.Submit(ctx, e.asTransporter(), service.SubmitProposalDTO{
		TransportRequestID: req.ID,
		Description:        "Covered 10t truck, departure at dawn",
		Price:              "15000.00",
	})
	require.NoError(t, err)
	require.Equal(t, model.ProposalStatusPending, proposal.Status)
	require.Equal(t, "15000.00", proposal.Price.StringFixed(2))
	require.Equal(t, "842000001", proposal.MovaAccount)

	// The cooperative hears about the offer
	notifs, total, err := e.notifications.List(ctx, e.asCooperative(), true, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, model.EventProposalSent, notifs[0].Event)
}

func TestSubmitProposalValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)

	_, err := e.proposals.Submit(ctx, e.asCooperative(), service.SubmitProposalDTO{
		TransportRequestID: req.ID, Description: "x", Price: "100",
	})
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	_, err = e.proposals.Submit(ctx, e.asTransporter(), service.SubmitProposalDTO{
		TransportRequestID: req.ID, Description: "x", Price: "not-a-number",
	})
	require.ErrorIs(t, err, workflow.ErrInvalidInput)

	_, err = e.proposals.Submit(ctx, e.asTransporter(), service.SubmitProposalDTO{
		TransportRequestID: req.ID, Description: "x", Price: "-50",
	})
	require.ErrorIs(t, err, workflow.ErrInvalidInput)
}

func TestSubmitProposalDuplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	dto := service.SubmitProposalDTO{TransportRequestID: req.ID, Description: "offer", Price: "9000"}

	_, err := e.proposals.Submit(ctx, e.asTransporter(), dto)
	require.NoError(t, err)

	_, err = e.proposals.Submit(ctx, e.asTransporter(), dto)
	require.ErrorIs(t, err, workflow.ErrDuplicateProposal)
}

func TestSubmitProposalOnHeldRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rival := testutil.CreateUser(t, e.db, "Carlos Mutema", model.RoleTransporter)
	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)

	// The holder may still propose
	_, err := e.proposals.Submit(ctx, e.asTransporter(), service.SubmitProposalDTO{
		TransportRequestID: req.ID, Description: "offer", Price: "9000",
	})
	require.NoError(t, err)

	// A different transporter may not
	_, err = e.proposals.Submit(ctx, actorFor(rival), service.SubmitProposalDTO{
		TransportRequestID: req.ID, Description: "offer", Price: "8500",
	})
	require.ErrorIs(t, err, workflow.ErrUnauthorized)
}

func submitProposal(t *testing.T, e *env, transporter workflow.Actor, req *model.TransportRequest, price string) *model.Proposal {
	t.Helper()
	p, err := e.proposals.Submit(context.Background(), transporter, service.SubmitProposalDTO{
		TransportRequestID: req.ID,
		Description:        "Covered truck available",
		Price:              price,
	})
	require.NoError(t, err)
	return p
}

func TestSubmitPayment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	p := submitProposal(t, e, e.asTransporter(), req, "12000")

	// No evidence, no transition
	_, err := e.proposals.SubmitPayment(ctx, e.asCooperative(), p.ID, service.SubmitPaymentDTO{})
	require.ErrorIs(t, err, workflow.ErrMissingPaymentEvidence)

	// Only the owning cooperative can pay
	_, err = e.proposals.SubmitPayment(ctx, e.asTransporter(), p.ID, service.SubmitPaymentDTO{PaymentCode: "MOVA123"})
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	paid, err := e.proposals.SubmitPayment(ctx, e.asCooperative(), p.ID, service.SubmitPaymentDTO{PaymentCode: "MOVA123"})
	require.NoError(t, err)
	require.Equal(t, model.ProposalStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentCode)
	require.NotNil(t, paid.PaidAt)

	// Paying twice fails: the proposal already left pending
	_, err = e.proposals.SubmitPayment(ctx, e.asCooperative(), p.ID, service.SubmitPaymentDTO{PaymentCode: "MOVA124"})
	require.ErrorIs(t, err, workflow.ErrInvalidState)
}

func TestConfirmPayment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	p := submitProposal(t, e, e.asTransporter(), req, "12000")

	// Confirmation requires payment evidence first
	_, _, err := e.proposals.ConfirmPayment(ctx, e.asAdmin(), p.ID)
	require.ErrorIs(t, err, workflow.ErrInvalidState)

	_, err = e.proposals.SubmitPayment(ctx, e.asCooperative(), p.ID, service.SubmitPaymentDTO{PaymentCode: "MOVA123"})
	require.NoError(t, err)

	_, _, err = e.proposals.ConfirmPayment(ctx, e.asCooperative(), p.ID)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	confirmed, contract, err := e.proposals.ConfirmPayment(ctx, e.asAdmin(), p.ID)
	require.NoError(t, err)
	require.Equal(t, model.ProposalStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.AdminConfirmedBy)
	require.Equal(t, e.admin.ID, *confirmed.AdminConfirmedBy)

	// The contract is generated in the same transaction
	require.NotNil(t, contract)
	require.Equal(t, model.ContractStatusPending, contract.Status)
	require.Equal(t, p.ID, contract.ProposalID)
	require.Equal(t, e.cooperative.ID, contract.CooperativeID)
	require.Equal(t, e.transporter.ID, contract.TransporterID)
	require.Equal(t, "12000.00", contract.Price.StringFixed(2))
	require.Regexp(t, `^CT-\d{8}-\d{5}$`, contract.ContractNumber)

	// Confirming again fails: confirmed is terminal
	_, _, err = e.proposals.ConfirmPayment(ctx, e.asAdmin(), p.ID)
	require.ErrorIs(t, err, workflow.ErrInvalidState)
}

func TestConfirmPaymentRejectsSiblings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rival := testutil.CreateUser(t, e.db, "Carlos Mutema", model.RoleTransporter)
	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)

	winner := submitProposal(t, e, e.asTransporter(), req, "12000")
	loser := submitProposal(t, e, actorFor(rival), req, "11000")

	_, err := e.proposals.SubmitPayment(ctx, e.asCooperative(), winner.ID, service.SubmitPaymentDTO{PaymentCode: "MOVA123"})
	require.NoError(t, err)

	_, _, err = e.proposals.ConfirmPayment(ctx, e.asAdmin(), winner.ID)
	require.NoError(t, err)

	got, err := e.proposals.Get(ctx, e.asAdmin(), loser.ID)
	require.NoError(t, err)
	require.Equal(t, model.ProposalStatusRejected, got.Status)

	// A rejected sibling can no longer take payment
	_, err = e.proposals.SubmitPayment(ctx, e.asCooperative(), loser.ID, service.SubmitPaymentDTO{PaymentCode: "MOVA999"})
	require.ErrorIs(t, err, workflow.ErrInvalidState)
}

func TestListProposalsByRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	submitProposal(t, e, e.asTransporter(), req, "9000")

	rows, err := e.proposals.ListByRequest(ctx, e.asCooperative(), req.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Transporters do not see the competing offers
	_, err = e.proposals.ListByRequest(ctx, e.asTransporter(), req.ID)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)
}
