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

// confirmedContract walks a request through proposal, payment and admin
// confirmation, returning the generated contract.
func confirmedContract(t *testing.T, e *env) *model.DigitalContract {
	t.Helper()
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)
	p := submitProposal(t, e, e.asTransporter(), req, "14000")

	_, err := e.proposals.SubmitPayment(ctx, e.asCooperative(), p.ID, service.SubmitPaymentDTO{PaymentCode: "MOVA777"})
	require.NoError(t, err)

	_, contract, err := e.proposals.ConfirmPayment(ctx, e.asAdmin(), p.ID)
	require.NoError(t, err)
	return contract
}

func TestSignContract(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	contract := confirmedContract(t, e)

	// First signature leaves the contract pending
	half, err := e.contracts.Sign(ctx, e.asCooperative(), contract.ID, "Cooperativa de Manica")
	require.NoError(t, err)
	require.Equal(t, model.ContractStatusPending, half.Status)
	require.NotNil(t, half.CooperativeSignature)
	require.Nil(t, half.TransporterSignature)

	// Second signature flips it to signed
	full, err := e.contracts.Sign(ctx, e.asTransporter(), contract.ID, "Joao Tomas")
	require.NoError(t, err)
	require.Equal(t, model.ContractStatusSigned, full.Status)
	require.NotNil(t, full.CooperativeSignature)
	require.NotNil(t, full.TransporterSignature)
}

func TestSignContractTwice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	contract := confirmedContract(t, e)

	_, err := e.contracts.Sign(ctx, e.asCooperative(), contract.ID, "Cooperativa de Manica")
	require.NoError(t, err)

	_, err = e.contracts.Sign(ctx, e.asCooperative(), contract.ID, "Cooperativa de Manica")
	require.ErrorIs(t, err, workflow.ErrAlreadySigned)

	// The first signature is untouched
	got, err := e.contracts.Get(ctx, e.asCooperative(), contract.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CooperativeSignature)
	require.Equal(t, model.ContractStatusPending, got.Status)
}

func TestSignContractOutsider(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	contract := confirmedContract(t, e)
	outsider := testutil.CreateUser(t, e.db, "Carlos Mutema", model.RoleTransporter)

	_, err := e.contracts.Sign(ctx, actorFor(outsider), contract.ID, "Carlos Mutema")
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	_, err = e.contracts.Sign(ctx, e.asCooperative(), contract.ID, "")
	require.ErrorIs(t, err, workflow.ErrInvalidInput)
}

func TestContractVisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	contract := confirmedContract(t, e)
	outsider := testutil.CreateUser(t, e.db, "Cooperativa de Tete", model.RoleCooperative)

	_, err := e.contracts.Get(ctx, actorFor(outsider), contract.ID)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	_, err = e.contracts.Get(ctx, e.asAdmin(), contract.ID)
	require.NoError(t, err)

	mine, total, err := e.contracts.ListMine(ctx, e.asTransporter(), 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, contract.ID, mine[0].ID)

	none, total, err := e.contracts.ListMine(ctx, actorFor(outsider), 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
	require.Empty(t, none)
}

func TestContractNumbersAreSequential(t *testing.T) {
	e := newEnv(t)

	first := confirmedContract(t, e)
	second := confirmedContract(t, e)

	require.NotEqual(t, first.ContractNumber, second.ContractNumber)
	require.Regexp(t, `^CT-\d{8}-\d{5}$`, second.ContractNumber)
}
