package service_test

import (
	"context"
	"testing"
	"time"

	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/internal/testutil"
	"agrofrete/internal/workflow"

	"github.com/stretchr/testify/require"
)

func createRequestDTO() service.CreateRequestDTO {
	weight := 2000.0
	return service.CreateRequestDTO{
		Title:       "Maize to Beira",
		Origin:      "Chimoio",
		Destination: "Beira",
		CargoType:   "maize",
		WeightKg:    &weight,
		PickupDate:  time.Now().Add(72 * time.Hour),
	}
}

func TestCreateRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req, err := e.requests.Create(ctx, e.asCooperative(), createRequestDTO())
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusPending, req.Status)
	require.Equal(t, e.cooperative.ID, req.CooperativeID)
	require.Nil(t, req.TransporterID)
}

func TestCreateRequestRoleGate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.requests.Create(ctx, e.asTransporter(), createRequestDTO())
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	_, err = e.requests.Create(ctx, e.asAdmin(), createRequestDTO())
	require.ErrorIs(t, err, workflow.ErrUnauthorized)
}

func TestCreateRequestValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	dto := createRequestDTO()
	dto.Origin = ""
	_, err := e.requests.Create(ctx, e.asCooperative(), dto)
	require.ErrorIs(t, err, workflow.ErrInvalidInput)

	dto = createRequestDTO()
	negative := -5.0
	dto.WeightKg = &negative
	_, err = e.requests.Create(ctx, e.asCooperative(), dto)
	require.ErrorIs(t, err, workflow.ErrInvalidInput)
}

func TestAcceptRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)

	accepted, err := e.requests.Accept(ctx, e.asTransporter(), req.ID)
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.TransporterID)
	require.Equal(t, e.transporter.ID, *accepted.TransporterID)

	// The cooperative is told its request was picked up
	notifs, total, err := e.notifications.List(ctx, e.asCooperative(), true, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, model.EventRequestAccepted, notifs[0].Event)
}

func TestAcceptRequestFirstWins(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rival := testutil.CreateUser(t, e.db, "Carlos Mutema", model.RoleTransporter)
	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)

	_, err := e.requests.Accept(ctx, e.asTransporter(), req.ID)
	require.NoError(t, err)

	_, err = e.requests.Accept(ctx, actorFor(rival), req.ID)
	require.ErrorIs(t, err, workflow.ErrConflictLost)

	// The winner's assignment is untouched
	got, err := e.requests.Get(ctx, e.asAdmin(), req.ID)
	require.NoError(t, err)
	require.Equal(t, e.transporter.ID, *got.TransporterID)
}

func TestRejectRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)

	rejected, err := e.requests.Reject(ctx, e.asTransporter(), req.ID)
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusRejected, rejected.Status)
	require.Nil(t, rejected.TransporterID)

	// Terminal: no further accept
	_, err = e.requests.Accept(ctx, e.asTransporter(), req.ID)
	require.ErrorIs(t, err, workflow.ErrInvalidState)
}

func TestCompleteRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)

	// Completion requires an in-progress transport
	_, err := e.requests.Complete(ctx, e.asAdmin(), req.ID)
	require.ErrorIs(t, err, workflow.ErrInvalidState)

	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)

	_, err = e.requests.Complete(ctx, e.asTransporter(), req.ID)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	done, err := e.requests.Complete(ctx, e.asAdmin(), req.ID)
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusCompleted, done.Status)

	// Terminal: completing twice fails
	_, err = e.requests.Complete(ctx, e.asAdmin(), req.ID)
	require.ErrorIs(t, err, workflow.ErrInvalidState)
}

func TestListRequestsByRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	other := testutil.CreateUser(t, e.db, "Cooperativa de Sofala", model.RoleCooperative)
	mine := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	theirs := testutil.CreateRequest(t, e.db, other.ID)
	testutil.AcceptRequest(t, e.db, theirs, e.transporter.ID)

	// Cooperatives only see their own
	rows, total, err := e.requests.List(ctx, e.asCooperative(), service.ListRequestsDTO{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, mine.ID, rows[0].ID)

	// Transporters browse the open board by default
	rows, total, err = e.requests.List(ctx, e.asTransporter(), service.ListRequestsDTO{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, mine.ID, rows[0].ID)

	// And their own jobs when filtering by an assigned status
	rows, total, err = e.requests.List(ctx, e.asTransporter(), service.ListRequestsDTO{Status: "accepted", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, theirs.ID, rows[0].ID)

	// Admins see everything
	_, total, err = e.requests.List(ctx, e.asAdmin(), service.ListRequestsDTO{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestGetRequestVisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)

	outsider := testutil.CreateUser(t, e.db, "Cooperativa de Tete", model.RoleCooperative)
	_, err := e.requests.Get(ctx, actorFor(outsider), req.ID)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	_, err = e.requests.Get(ctx, e.asTransporter(), req.ID)
	require.NoError(t, err)
}

func TestDeleteRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)

	err := e.requests.Delete(ctx, e.asCooperative(), req.ID)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	require.NoError(t, e.requests.Delete(ctx, e.asAdmin(), req.ID))

	_, err = e.requests.Get(ctx, e.asAdmin(), req.ID)
	require.ErrorIs(t, err, workflow.ErrNotFound)
}
