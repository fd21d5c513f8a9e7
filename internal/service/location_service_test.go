package service_test

import (
	"context"
	"fmt"
	"testing"

	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/internal/testutil"
	"agrofrete/internal/workflow"

	"github.com/stretchr/testify/require"
)

func reportDTO(req *model.TransportRequest, lat, lon float64) service.ReportLocationDTO {
	return service.ReportLocationDTO{
		TransportRequestID: req.ID,
		Latitude:           lat,
		Longitude:          lon,
	}
}

func TestReportLocation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)

	sample, err := e.locations.Report(ctx, e.asTransporter(), reportDTO(req, -19.1164, 33.4833))
	require.NoError(t, err)
	require.Equal(t, req.ID, sample.TransportRequestID)
	require.Equal(t, e.transporter.ID, sample.TransporterID)
}

func TestReportLocationGating(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)

	// Pending transport: no tracking yet
	_, err := e.locations.Report(ctx, e.asTransporter(), reportDTO(req, -19.0, 33.0))
	require.ErrorIs(t, err, workflow.ErrTransportNotActive)

	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)

	// Only the assigned transporter reports
	rival := testutil.CreateUser(t, e.db, "Carlos Mutema", model.RoleTransporter)
	_, err = e.locations.Report(ctx, actorFor(rival), reportDTO(req, -19.0, 33.0))
	require.ErrorIs(t, err, workflow.ErrTransportNotActive)

	// Completed transport: tracking closed again
	_, err = e.requests.Complete(ctx, e.asAdmin(), req.ID)
	require.NoError(t, err)
	_, err = e.locations.Report(ctx, e.asTransporter(), reportDTO(req, -19.0, 33.0))
	require.ErrorIs(t, err, workflow.ErrTransportNotActive)
}

func TestReportLocationBounds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)

	_, err := e.locations.Report(ctx, e.asTransporter(), reportDTO(req, -91, 33.0))
	require.ErrorIs(t, err, workflow.ErrInvalidInput)

	_, err = e.locations.Report(ctx, e.asTransporter(), reportDTO(req, -19.0, 181))
	require.ErrorIs(t, err, workflow.ErrInvalidInput)
}

func TestRecentLocations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	testutil.AcceptRequest(t, e.db, req, e.transporter.ID)

	for i := 0; i < 25; i++ {
		_, err := e.locations.Report(ctx, e.asTransporter(), reportDTO(req, -19.0-float64(i)*0.01, 33.0))
		require.NoError(t, err)
	}

	// Default window
	samples, err := e.locations.Recent(ctx, e.asCooperative(), req.ID, 0)
	require.NoError(t, err)
	require.Len(t, samples, 20)

	// Newest first
	require.InDelta(t, -19.24, samples[0].Latitude, 0.001, fmt.Sprintf("got %f", samples[0].Latitude))

	// Outsiders see nothing
	outsider := testutil.CreateUser(t, e.db, "Cooperativa de Tete", model.RoleCooperative)
	_, err = e.locations.Recent(ctx, actorFor(outsider), req.ID, 0)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)
}
