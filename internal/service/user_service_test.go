package service_test

import (
	"context"
	"testing"

	"agrofrete/internal/model"
	"agrofrete/internal/service"
	"agrofrete/internal/workflow"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.users.Register(ctx, service.RegisterUserRequest{
		Name:        "Ana Machel",
		Email:       "ana.machel@example.test",
		Password:    "segredo123",
		Role:        model.RoleTransporter,
		MovaAccount: "843555111",
		District:    "Gondola",
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleTransporter, user.Role)

	token, err := e.users.Login(ctx, service.LoginUserRequest{
		Email:    "ana.machel@example.test",
		Password: "segredo123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	_, err = e.users.Login(ctx, service.LoginUserRequest{
		Email:    "ana.machel@example.test",
		Password: "wrong",
	})
	require.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.users.Register(ctx, service.RegisterUserRequest{
		Name:     "Bad Role",
		Email:    "bad.role@example.test",
		Password: "segredo123",
		Role:     "superuser",
	})
	require.ErrorIs(t, err, workflow.ErrInvalidInput)

	// Duplicate email
	_, err = e.users.Register(ctx, service.RegisterUserRequest{
		Name:     "Dup",
		Email:    e.cooperative.Email,
		Password: "segredo123",
		Role:     model.RoleCooperative,
	})
	require.Error(t, err)
}
