package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
)

// PostgresLicenseKeyRepository implements LicenseKeyRepository using PostgreSQL
type PostgresLicenseKeyRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLicenseKeyRepository creates a new PostgresLicenseKeyRepository
func NewPostgresLicenseKeyRepository(pool *pgxpool.Pool) *PostgresLicenseKeyRepository {
	return &PostgresLicenseKeyRepository{pool: pool}
}

// Create stores a newly issued key record
func (r *PostgresLicenseKeyRepository) Create(ctx context.Context, key *domain.LicenseKey) error {
	query := `
		INSERT INTO license_keys (key_hash, key, plan, memo, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		key.KeyHash,
		key.Key,
		key.Plan,
		nullStringOrValue(key.Memo),
		key.CreatedAt,
	)
	return err
}

// GetByHash retrieves a key record by its hash
func (r *PostgresLicenseKeyRepository) GetByHash(ctx context.Context, keyHash string) (*domain.LicenseKey, error) {
	query := `
		SELECT key_hash, key, plan, COALESCE(memo, '') as memo, created_at
		FROM license_keys
		WHERE key_hash = $1
	`
	key := &domain.LicenseKey{}
	err := r.pool.QueryRow(ctx, query, keyHash).Scan(
		&key.KeyHash,
		&key.Key,
		&key.Plan,
		&key.Memo,
		&key.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return key, nil
}

// List retrieves all issued key records, newest first
func (r *PostgresLicenseKeyRepository) List(ctx context.Context) ([]*domain.LicenseKey, error) {
	query := `
		SELECT key_hash, key, plan, COALESCE(memo, '') as memo, created_at
		FROM license_keys
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]*domain.LicenseKey, 0)
	for rows.Next() {
		key := &domain.LicenseKey{}
		err := rows.Scan(
			&key.KeyHash,
			&key.Key,
			&key.Plan,
			&key.Memo,
			&key.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// nullStringOrValue returns nil for empty strings, otherwise returns the value
func nullStringOrValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
