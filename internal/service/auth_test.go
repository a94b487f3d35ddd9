package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/blog-api/internal/apperror"
)

func TestRegister_TokenResolvesToNewUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.User.ID)
	assert.NotEmpty(t, res.Token)

	userID, err := f.sessions.Resolve(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
}

func TestRegister_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"no username", RegisterInput{Email: "a@x.com", Password: "p"}},
		{"no email", RegisterInput{Username: "a", Password: "p"}},
		{"no password", RegisterInput{Username: "a", Email: "a@x.com"}},
		{"blank username", RegisterInput{Username: "   ", Email: "a@x.com", Password: "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.auth.Register(context.Background(), tt.in)
			require.ErrorIs(t, err, apperror.ErrInvalidArgument)
			assert.Equal(t, "All fields are required", err.Error())
			assert.Equal(t, 0, f.sessions.Len())
		})
	}
}

func TestRegister_Duplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@x.com", Password: "x"})
	require.ErrorIs(t, err, apperror.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "Email already registered")

	_, err = f.auth.Register(ctx, RegisterInput{Username: "alice", Email: "other@x.com", Password: "x"})
	require.ErrorIs(t, err, apperror.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "Username already taken")

	assert.Equal(t, 1, f.sessions.Len(), "failed registrations open no session")
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	res, err := f.auth.Login(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEqual(t, reg.Token, res.Token, "each login opens a new session")
	assert.Equal(t, 2, f.sessions.Len())
}

func TestLogin_BadCredentialsLookIdentical(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := f.auth.Login(ctx, "alice@x.com", "nope")
	_, unknownEmail := f.auth.Login(ctx, "bob@x.com", "secret1")

	require.ErrorIs(t, wrongPassword, apperror.ErrUnauthenticated)
	require.ErrorIs(t, unknownEmail, apperror.ErrUnauthenticated)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, "Invalid email or password", wrongPassword.Error())
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Login(context.Background(), "", "secret1")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	_, err = f.auth.Login(context.Background(), "alice@x.com", "")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	f.auth.Logout(ctx, res.Token)
	_, err = f.sessions.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	assert.NotPanics(t, func() { f.auth.Logout(ctx, res.Token) })
}
