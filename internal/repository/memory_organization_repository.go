package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// MemoryOrganizationRepository is an in-memory OrganizationRepository for
// tests and single-process local runs
type MemoryOrganizationRepository struct {
	mu    sync.RWMutex
	orgs  map[string]*domain.Organization // id -> org
	byKey map[string]string               // licenseKey -> id
}

// NewMemoryOrganizationRepository creates a new in-memory organization repository
func NewMemoryOrganizationRepository() *MemoryOrganizationRepository {
	return &MemoryOrganizationRepository{
		orgs:  make(map[string]*domain.Organization),
		byKey: make(map[string]string),
	}
}

// Create stores a new organization, rejecting duplicate license keys
func (r *MemoryOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orgs[org.ID]; exists {
		return fmt.Errorf("organization already exists")
	}
	if _, exists := r.byKey[org.LicenseKey]; exists {
		return fmt.Errorf("organization for license key already exists")
	}

	copied := *org
	r.orgs[org.ID] = &copied
	r.byKey[org.LicenseKey] = org.ID
	return nil
}

// GetByID retrieves an organization by id
func (r *MemoryOrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	org, exists := r.orgs[id]
	if !exists {
		return nil, nil
	}

	copied := *org
	return &copied, nil
}

// GetByLicenseKey retrieves an organization by its plaintext license key
func (r *MemoryOrganizationRepository) GetByLicenseKey(ctx context.Context, licenseKey string) (*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byKey[licenseKey]
	if !exists {
		return nil, nil
	}

	org, exists := r.orgs[id]
	if !exists {
		return nil, nil
	}

	copied := *org
	return &copied, nil
}
