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

// completedTransport seeds a request already driven to completed with the
// default transporter assigned.
func completedTransport(t *testing.T, e *env) *model.TransportRequest {
	t.Helper()
	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)
	done, err := e.requests.Complete(context.Background(), e.asAdmin(), req.ID)
	require.NoError(t, err)
	return done
}

func TestSubmitRating(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := completedTransport(t, e)

	rating, err := e.ratings.Submit(ctx, e.asCooperative(), service.SubmitRatingDTO{
		TransportRequestID: req.ID,
		ReviewedID:         e.transporter.ID,
		Score:              5,
		Comment:            "Arrived early, cargo intact.",
	})
	require.NoError(t, err)
	require.Equal(t, 5, rating.Score)

	// The other direction is independent
	_, err = e.ratings.Submit(ctx, e.asTransporter(), service.SubmitRatingDTO{
		TransportRequestID: req.ID,
		ReviewedID:         e.cooperative.ID,
		Score:              4,
	})
	require.NoError(t, err)

	received, total, err := e.ratings.ListForUser(ctx, e.transporter.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, e.cooperative.ID, received[0].ReviewerID)
}

func TestSubmitRatingOncePerDirection(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := completedTransport(t, e)
	dto := service.SubmitRatingDTO{
		TransportRequestID: req.ID,
		ReviewedID:         e.transporter.ID,
		Score:              3,
	}

	_, err := e.ratings.Submit(ctx, e.asCooperative(), dto)
	require.NoError(t, err)

	_, err = e.ratings.Submit(ctx, e.asCooperative(), dto)
	require.ErrorIs(t, err, workflow.ErrRatingNotAllowed)
}

func TestSubmitRatingGates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)

	// Transport still in progress
	_, err := e.ratings.Submit(ctx, e.asCooperative(), service.SubmitRatingDTO{
		TransportRequestID: req.ID,
		ReviewedID:         e.transporter.ID,
		Score:              5,
	})
	require.ErrorIs(t, err, workflow.ErrRatingNotAllowed)

	done := completedTransport(t, e)

	// Score out of range
	_, err = e.ratings.Submit(ctx, e.asCooperative(), service.SubmitRatingDTO{
		TransportRequestID: done.ID,
		ReviewedID:         e.transporter.ID,
		Score:              6,
	})
	require.ErrorIs(t, err, workflow.ErrInvalidInput)

	// Reviewer must be a party, reviewed must be the counterpart
	outsider := testutil.CreateUser(t, e.db, "Carlos Mutema", model.RoleTransporter)
	_, err = e.ratings.Submit(ctx, actorFor(outsider), service.SubmitRatingDTO{
		TransportRequestID: done.ID,
		ReviewedID:         e.cooperative.ID,
		Score:              2,
	})
	require.ErrorIs(t, err, workflow.ErrRatingNotAllowed)

	_, err = e.ratings.Submit(ctx, e.asCooperative(), service.SubmitRatingDTO{
		TransportRequestID: done.ID,
		ReviewedID:         outsider.ID,
		Score:              2,
	})
	require.ErrorIs(t, err, workflow.ErrRatingNotAllowed)
}
