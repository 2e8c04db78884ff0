package repository

import (
	"context"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// LicenseKeyRepository defines data access for issued license keys
type LicenseKeyRepository interface {
	// Create stores a newly issued key record
	Create(ctx context.Context, key *domain.LicenseKey) error
	// GetByHash retrieves a key record by its hash, (nil, nil) when absent
	GetByHash(ctx context.Context, keyHash string) (*domain.LicenseKey, error)
	// List retrieves all issued key records, newest first
	List(ctx context.Context) ([]*domain.LicenseKey, error)
}
