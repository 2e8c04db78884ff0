package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// PostgresMembershipRepository implements MembershipRepository using PostgreSQL
type PostgresMembershipRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMembershipRepository creates a new PostgresMembershipRepository
func NewPostgresMembershipRepository(pool *pgxpool.Pool) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{pool: pool}
}

// Create stores a new binding
func (r *PostgresMembershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	query := `
		INSERT INTO memberships (user_id, organization_id, role, device_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		m.UserID,
		m.OrganizationID,
		m.Role,
		nullStringOrValue(m.DeviceID),
		m.CreatedAt,
	)
	return err
}

// GetByUser retrieves the binding for a user identity
func (r *PostgresMembershipRepository) GetByUser(ctx context.Context, userID string) (*domain.Membership, error) {
	query := `
		SELECT user_id, organization_id, role, COALESCE(device_id, '') as device_id, created_at
		FROM memberships
		WHERE user_id = $1
	`
	return r.scanOne(ctx, r.pool.QueryRow(ctx, query, userID))
}

// GetByOrgAndDevice retrieves the binding for a (organization, device) pair
func (r *PostgresMembershipRepository) GetByOrgAndDevice(ctx context.Context, orgID, deviceID string) (*domain.Membership, error) {
	query := `
		SELECT user_id, organization_id, role, COALESCE(device_id, '') as device_id, created_at
		FROM memberships
		WHERE organization_id = $1 AND device_id = $2
	`
	return r.scanOne(ctx, r.pool.QueryRow(ctx, query, orgID, deviceID))
}

// CountByOrganization returns the number of bindings for an organization
func (r *PostgresMembershipRepository) CountByOrganization(ctx context.Context, orgID string) (int, error) {
	query := `SELECT COUNT(*) FROM memberships WHERE organization_id = $1`

	var count int
	err := r.pool.QueryRow(ctx, query, orgID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ReassignDevice atomically rebinds the (organization, device) pair to a new
// user identity and returns the previous identity. The old binding row is
// locked for the duration of the transaction so that concurrent activations
// for the same device serialize.
func (r *PostgresMembershipRepository) ReassignDevice(ctx context.Context, orgID, deviceID, newUserID string) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var oldUserID string
	err = tx.QueryRow(ctx, `
		SELECT user_id
		FROM memberships
		WHERE organization_id = $1 AND device_id = $2
		FOR UPDATE
	`, orgID, deviceID).Scan(&oldUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrBindingNotFound
		}
		return "", err
	}

	if oldUserID == newUserID {
		return oldUserID, tx.Commit(ctx)
	}

	_, err = tx.Exec(ctx, `
		UPDATE memberships
		SET user_id = $1
		WHERE organization_id = $2 AND device_id = $3
	`, newUserID, orgID, deviceID)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return oldUserID, nil
}

func (r *PostgresMembershipRepository) scanOne(ctx context.Context, row pgx.Row) (*domain.Membership, error) {
	m := &domain.Membership{}
	err := row.Scan(
		&m.UserID,
		&m.OrganizationID,
		&m.Role,
		&m.DeviceID,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}
