package service_test

import (
	"context"
	"testing"

	"agrofrete/internal/testutil"
	"agrofrete/internal/workflow"

	"github.com/stretchr/testify/require"
)

func TestNotificationsMarkRead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := testutil.CreateRequest(t, e.db, e.cooperative.ID)
	_, err := e.requests.Accept(ctx, e.asTransporter(), req.ID)
	require.NoError(t, err)

	notifs, total, err := e.notifications.List(ctx, e.asCooperative(), true, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.False(t, notifs[0].Read)

	// A recipient cannot acknowledge someone else's notification
	err = e.notifications.MarkRead(ctx, e.asTransporter(), notifs[0].ID)
	require.ErrorIs(t, err, workflow.ErrNotFound)

	require.NoError(t, e.notifications.MarkRead(ctx, e.asCooperative(), notifs[0].ID))

	_, total, err = e.notifications.List(ctx, e.asCooperative(), true, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 0, total)

	// Still listed when read notifications are included
	_, total, err = e.notifications.List(ctx, e.asCooperative(), false, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}
