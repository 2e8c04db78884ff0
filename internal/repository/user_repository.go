package repository

import (
	"context"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// UserRepository defines data access for session identities
type UserRepository interface {
	// Create stores a new user
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by id, (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// Delete removes a user; deleting an unknown id is not an error
	Delete(ctx context.Context, id string) error
}
