package repository

import (
	"context"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// OrganizationRepository defines data access for organizations
type OrganizationRepository interface {
	// Create stores a new organization. Implementations must reject a second
	// organization for the same license key.
	Create(ctx context.Context, org *domain.Organization) error
	// GetByID retrieves an organization by id, (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	// GetByLicenseKey retrieves an organization by its plaintext license key,
	// (nil, nil) when absent
	GetByLicenseKey(ctx context.Context, licenseKey string) (*domain.Organization, error)
}
