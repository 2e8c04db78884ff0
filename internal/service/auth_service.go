package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
	"github.com/rlawlghkd12/tutomate-sub000/internal/dto"
	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
)

// AuthConfig carries token signing parameters
type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
	Issuer   string
}

// AuthService issues anonymous device sessions. An anonymous user is a
// device-local identity created before activation; the license protocol
// later binds it to an organization.
type AuthService interface {
	// CreateAnonymousSession creates a fresh anonymous user and its token
	CreateAnonymousSession(ctx context.Context) (*dto.AnonymousSessionResponse, error)
}

// authService implements AuthService
type authService struct {
	userRepo repository.UserRepository
	cfg      AuthConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, cfg AuthConfig) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 365 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "tutomate"
	}
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// CreateAnonymousSession creates a fresh anonymous user and its token
func (s *authService) CreateAnonymousSession(ctx context.Context) (*dto.AnonymousSessionResponse, error) {
	user := &domain.User{
		ID:        uuid.New().String(),
		Anonymous: true,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"anonymous": true,
		"iss":       s.cfg.Issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(s.cfg.TokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, err
	}

	return &dto.AnonymousSessionResponse{
		UserID:      user.ID,
		AccessToken: token,
	}, nil
}
