package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
)

func TestAuthService_CreateAnonymousSession(t *testing.T) {
	userRepo := repository.NewMemoryUserRepository()
	svc := NewAuthService(userRepo, AuthConfig{
		Secret:   "test-secret",
		TokenTTL: time.Hour,
		Issuer:   "tutomate-test",
	})

	resp, err := svc.CreateAnonymousSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)
	assert.NotEmpty(t, resp.AccessToken)

	user, err := userRepo.GetByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.Anonymous)

	token, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, resp.UserID, claims["user_id"])
	assert.Equal(t, true, claims["anonymous"])
	assert.Equal(t, "tutomate-test", claims["iss"])
}

func TestAuthService_SessionsAreDistinct(t *testing.T) {
	userRepo := repository.NewMemoryUserRepository()
	svc := NewAuthService(userRepo, AuthConfig{Secret: "test-secret"})

	first, err := svc.CreateAnonymousSession(context.Background())
	require.NoError(t, err)
	second, err := svc.CreateAnonymousSession(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.UserID, second.UserID)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
}
