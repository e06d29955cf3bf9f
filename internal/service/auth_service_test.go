package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-task-tracker/internal/model"
	"go-task-tracker/internal/repository"
	"go-task-tracker/pkg/apierror"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	svc, err := NewAuthService(repository.NewMemoryUserRepository(), "test-secret", time.Hour, bcrypt.MinCost)
	require.NoError(t, err)
	return svc
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	return apiErr.HTTPStatus
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewAuthService(repository.NewMemoryUserRepository(), " ", time.Hour, 10)
	require.Error(t, err)
}

func TestAuthService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("register then login issues an email-subject token", func(t *testing.T) {
		svc := newAuthService(t)
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }

		user, err := svc.Register(ctx, model.RegisterRequest{Username: "ana", Email: " ana@example.com ", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", user.Email)
		assert.NotEqual(t, "secret1", user.PasswordHash)

		resp, err := svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, int64(3600000), resp.ExpiresIn)

		claims, err := svc.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", claims.Subject)
		assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

		authed, err := svc.Authenticate(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, authed.ID)
	})

	t.Run("duplicate email and username conflict", func(t *testing.T) {
		svc := newAuthService(t)
		_, err := svc.Register(ctx, model.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "secret1"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, model.RegisterRequest{Username: "bob", Email: "ana@example.com", Password: "secret1"})
		require.ErrorIs(t, err, model.ErrUserAlreadyExists)
		assert.Equal(t, http.StatusConflict, statusOf(t, err))

		_, err = svc.Register(ctx, model.RegisterRequest{Username: "ana", Email: "other@example.com", Password: "secret1"})
		require.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("validation failures are bad requests", func(t *testing.T) {
		svc := newAuthService(t)
		_, err := svc.Register(ctx, model.RegisterRequest{Username: "ana", Email: "not-an-email", Password: "123"})
		require.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Contains(t, apiErr.Details, "email")
		assert.Contains(t, apiErr.Details, "password")
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		svc := newAuthService(t)
		_, err := svc.Register(ctx, model.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "secret1"})
		require.NoError(t, err)

		_, err = svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "nope"})
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

		_, err = svc.Login(ctx, model.LoginRequest{Email: "ghost@example.com", Password: "nope"})
		require.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("expired, foreign and garbage tokens are forbidden", func(t *testing.T) {
		svc := newAuthService(t)
		start := time.Now()
		svc.now = func() time.Time { return start }
		_, err := svc.Register(ctx, model.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "secret1"})
		require.NoError(t, err)
		resp, err := svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "secret1"})
		require.NoError(t, err)

		svc.now = func() time.Time { return start.Add(2 * time.Hour) }
		_, err = svc.ValidateToken(resp.Token)
		require.ErrorIs(t, err, model.ErrTokenExpired)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))

		foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ana@example.com", "exp": start.Add(time.Hour).Unix()})
		signed, err := foreign.SignedString([]byte("other-secret"))
		require.NoError(t, err)
		svc.now = func() time.Time { return start }
		_, err = svc.ValidateToken(signed)
		require.ErrorIs(t, err, model.ErrTokenMalformed)

		_, err = svc.ValidateToken("not.a.jwt")
		require.ErrorIs(t, err, model.ErrTokenMalformed)
	})

	t.Run("token for a deleted user does not authenticate", func(t *testing.T) {
		svc := newAuthService(t)
		token, err := svc.issueToken(model.User{Email: "ghost@example.com"})
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, token)
		require.ErrorIs(t, err, model.ErrUserNotFound)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	})
}
