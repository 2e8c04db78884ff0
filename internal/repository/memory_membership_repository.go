package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// ErrBindingNotFound is returned by ReassignDevice when no binding exists
// for the (organization, device) pair
var ErrBindingNotFound = fmt.Errorf("binding not found")

// MemoryMembershipRepository is an in-memory MembershipRepository for tests
// and single-process local runs
type MemoryMembershipRepository struct {
	mu       sync.RWMutex
	byUser   map[string]*domain.Membership // userID -> binding
	byDevice map[string]string             // orgID+"\x00"+deviceID -> userID
}

// NewMemoryMembershipRepository creates a new in-memory membership repository
func NewMemoryMembershipRepository() *MemoryMembershipRepository {
	return &MemoryMembershipRepository{
		byUser:   make(map[string]*domain.Membership),
		byDevice: make(map[string]string),
	}
}

func deviceKey(orgID, deviceID string) string {
	return orgID + "\x00" + deviceID
}

// Create stores a new binding
func (r *MemoryMembershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUser[m.UserID]; exists {
		return fmt.Errorf("binding for user already exists")
	}
	if m.DeviceID != "" {
		if _, exists := r.byDevice[deviceKey(m.OrganizationID, m.DeviceID)]; exists {
			return fmt.Errorf("binding for device already exists")
		}
	}

	copied := *m
	r.byUser[m.UserID] = &copied
	if m.DeviceID != "" {
		r.byDevice[deviceKey(m.OrganizationID, m.DeviceID)] = m.UserID
	}
	return nil
}

// GetByUser retrieves the binding for a user identity
func (r *MemoryMembershipRepository) GetByUser(ctx context.Context, userID string) (*domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.byUser[userID]
	if !exists {
		return nil, nil
	}

	copied := *m
	return &copied, nil
}

// GetByOrgAndDevice retrieves the binding for a (organization, device) pair
func (r *MemoryMembershipRepository) GetByOrgAndDevice(ctx context.Context, orgID, deviceID string) (*domain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userID, exists := r.byDevice[deviceKey(orgID, deviceID)]
	if !exists {
		return nil, nil
	}

	m, exists := r.byUser[userID]
	if !exists {
		return nil, nil
	}

	copied := *m
	return &copied, nil
}

// CountByOrganization returns the number of bindings for an organization
func (r *MemoryMembershipRepository) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, m := range r.byUser {
		if m.OrganizationID == orgID {
			count++
		}
	}
	return count, nil
}

// ReassignDevice atomically rebinds the (organization, device) pair to a new
// user identity and returns the previous identity
func (r *MemoryMembershipRepository) ReassignDevice(ctx context.Context, orgID, deviceID, newUserID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oldUserID, exists := r.byDevice[deviceKey(orgID, deviceID)]
	if !exists {
		return "", ErrBindingNotFound
	}

	old, exists := r.byUser[oldUserID]
	if !exists {
		return "", ErrBindingNotFound
	}

	if oldUserID == newUserID {
		return oldUserID, nil
	}

	rebound := *old
	rebound.UserID = newUserID

	delete(r.byUser, oldUserID)
	r.byUser[newUserID] = &rebound
	r.byDevice[deviceKey(orgID, deviceID)] = newUserID

	return oldUserID, nil
}
