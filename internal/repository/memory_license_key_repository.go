package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// MemoryLicenseKeyRepository is an in-memory LicenseKeyRepository for tests
// and single-process local runs
type MemoryLicenseKeyRepository struct {
	mu   sync.RWMutex
	keys map[string]*domain.LicenseKey // keyHash -> record
}

// NewMemoryLicenseKeyRepository creates a new in-memory license key repository
func NewMemoryLicenseKeyRepository() *MemoryLicenseKeyRepository {
	return &MemoryLicenseKeyRepository{
		keys: make(map[string]*domain.LicenseKey),
	}
}

// Create stores a newly issued key record
func (r *MemoryLicenseKeyRepository) Create(ctx context.Context, key *domain.LicenseKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[key.KeyHash]; exists {
		return fmt.Errorf("license key already exists")
	}

	copied := *key
	r.keys[key.KeyHash] = &copied
	return nil
}

// GetByHash retrieves a key record by its hash
func (r *MemoryLicenseKeyRepository) GetByHash(ctx context.Context, keyHash string) (*domain.LicenseKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, exists := r.keys[keyHash]
	if !exists {
		return nil, nil
	}

	copied := *key
	return &copied, nil
}

// List retrieves all issued key records, newest first
func (r *MemoryLicenseKeyRepository) List(ctx context.Context) ([]*domain.LicenseKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]*domain.LicenseKey, 0, len(r.keys))
	for _, key := range r.keys {
		copied := *key
		keys = append(keys, &copied)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.After(keys[j].CreatedAt)
	})

	return keys, nil
}
