package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// PostgresOrganizationRepository implements OrganizationRepository using PostgreSQL
type PostgresOrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrganizationRepository creates a new PostgresOrganizationRepository
func NewPostgresOrganizationRepository(pool *pgxpool.Pool) *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{pool: pool}
}

// Create stores a new organization. The unique constraint on license_key
// guarantees at most one organization per key even under concurrent
// provisioning.
func (r *PostgresOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	query := `
		INSERT INTO organizations (id, license_key, name, plan, max_seats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		org.ID,
		org.LicenseKey,
		org.Name,
		org.Plan,
		org.MaxSeats,
		org.CreatedAt,
	)
	return err
}

// GetByID retrieves an organization by id
func (r *PostgresOrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `
		SELECT id, license_key, name, plan, max_seats, created_at
		FROM organizations
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

// GetByLicenseKey retrieves an organization by its plaintext license key
func (r *PostgresOrganizationRepository) GetByLicenseKey(ctx context.Context, licenseKey string) (*domain.Organization, error) {
	query := `
		SELECT id, license_key, name, plan, max_seats, created_at
		FROM organizations
		WHERE license_key = $1
	`
	return r.scanOne(ctx, query, licenseKey)
}

func (r *PostgresOrganizationRepository) scanOne(ctx context.Context, query string, arg interface{}) (*domain.Organization, error) {
	org := &domain.Organization{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&org.ID,
		&org.LicenseKey,
		&org.Name,
		&org.Plan,
		&org.MaxSeats,
		&org.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}
