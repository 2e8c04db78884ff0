package repository

import (
	"context"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// MembershipRepository defines data access for user-organization bindings
type MembershipRepository interface {
	// Create stores a new binding
	Create(ctx context.Context, m *domain.Membership) error
	// GetByUser retrieves the binding for a user identity, (nil, nil) when absent
	GetByUser(ctx context.Context, userID string) (*domain.Membership, error)
	// GetByOrgAndDevice retrieves the binding for a (organization, device)
	// pair, (nil, nil) when absent
	GetByOrgAndDevice(ctx context.Context, orgID, deviceID string) (*domain.Membership, error)
	// CountByOrganization returns the number of bindings (consumed seats)
	CountByOrganization(ctx context.Context, orgID string) (int, error)
	// ReassignDevice atomically rebinds the (organization, device) pair to a
	// new user identity, preserving role and device id, and returns the
	// previous identity. The rebind must be a single indivisible step so a
	// failure can never leave the seat freed but unclaimed.
	ReassignDevice(ctx context.Context, orgID, deviceID, newUserID string) (oldUserID string, err error)
}
