package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedline/backend/internal/domain/entity"
	"github.com/feedline/backend/pkg/helpers"
)

func newAuthFixture(t *testing.T) (*AuthService, *entity.User) {
	t.Helper()
	hash, err := helpers.HashPassword("correct horse")
	require.NoError(t, err)
	u := &entity.User{
		ID:       uuid.NewString(),
		Email:    "dana@example.com",
		Password: hash,
		Name:     "Dana",
	}
	jwt := &helpers.JWTManager{Secret: []byte("test-secret"), TTL: time.Hour}
	return NewAuthService(newMemUserRepo(u), jwt, nil), u
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	svc, u := newAuthFixture(t)

	token, exp, err := svc.Login(context.Background(), u.Email, "correct horse")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	// the credential must verify back to the same user
	uid, err := svc.JWT.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()
	svc, u := newAuthFixture(t)
	ctx := context.Background()

	// wrong password and unknown email are indistinguishable
	_, _, err := svc.Login(ctx, u.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_UserLookupOutagePropagates(t *testing.T) {
	t.Parallel()
	outage := errors.New("connect: connection refused")
	jwt := &helpers.JWTManager{Secret: []byte("test-secret"), TTL: time.Hour}
	svc := NewAuthService(&downUserRepo{err: outage}, jwt, nil)

	// an outage must not read as bad credentials or a missing user
	_, _, err := svc.Login(context.Background(), "dana@example.com", "correct horse")
	assert.ErrorIs(t, err, outage)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.CurrentUser(uuid.NewString())
	assert.ErrorIs(t, err, outage)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()
	svc, u := newAuthFixture(t)

	got, err := svc.CurrentUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.CurrentUser(uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
