package service

import (
	"context"
	"testing"

	"github.com/mrnobugz/PosApp-Api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*stubUserRepo, AuthService, *config.Config) {
	users := newStubUserRepo()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
	return users, NewAuthService(users, cfg), cfg
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc, cfg := newAuthFixture()

	user, err := svc.Register(context.Background(), "maria", "s3cret-pass", "manager")
	require.NoError(t, err)
	assert.Equal(t, "manager", user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	token, logged, err := svc.Login(context.Background(), "maria", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.Username, logged.Username)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "manager", claims.Role)
}

func TestRegisterDefaultsToCashier(t *testing.T) {
	_, svc, _ := newAuthFixture()
	user, err := svc.Register(context.Background(), "pedro", "password1", "")
	require.NoError(t, err)
	assert.Equal(t, "cashier", user.Role)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, svc, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), "maria", "password1", "")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "maria", "password2", "")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, svc, _ := newAuthFixture()
	_, err := svc.Register(context.Background(), "maria", "s3cret-pass", "")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "maria", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
