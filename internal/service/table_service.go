package service

import (
	"context"
	"errors"

	"github.com/rlawlghkd12/tutomate-sub000/internal/repository"
)

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrRowNotFound  = errors.New("row not found")
	ErrMissingRowID = errors.New("row is missing an id")
)

// TableService exposes organization-scoped access to the entity tables.
// Callers are already resolved to an organization by the handler layer; the
// service never trusts organization ids from request bodies.
type TableService interface {
	// Select returns all rows of the table owned by the organization
	Select(ctx context.Context, table, orgID string) ([]repository.Row, error)
	// Insert stores a row for the organization
	Insert(ctx context.Context, table, orgID string, row repository.Row) error
	// Update applies column updates to the row with the id
	Update(ctx context.Context, table, orgID, id string, updates repository.Row) error
	// Delete removes the row with the id
	Delete(ctx context.Context, table, orgID, id string) error
}

// tableService implements TableService
type tableService struct {
	tableRepo repository.TableRepository
}

// NewTableService creates a new TableService
func NewTableService(tableRepo repository.TableRepository) TableService {
	return &tableService{tableRepo: tableRepo}
}

// Select returns all rows of the table owned by the organization
func (s *tableService) Select(ctx context.Context, table, orgID string) ([]repository.Row, error) {
	if !repository.AllowedTable(table) {
		return nil, ErrUnknownTable
	}
	return s.tableRepo.Select(ctx, table, orgID)
}

// Insert stores a row for the organization
func (s *tableService) Insert(ctx context.Context, table, orgID string, row repository.Row) error {
	if !repository.AllowedTable(table) {
		return ErrUnknownTable
	}
	if id, _ := row["id"].(string); id == "" {
		return ErrMissingRowID
	}
	return s.tableRepo.Insert(ctx, table, orgID, row)
}

// Update applies column updates to the row with the id
func (s *tableService) Update(ctx context.Context, table, orgID, id string, updates repository.Row) error {
	if !repository.AllowedTable(table) {
		return ErrUnknownTable
	}
	found, err := s.tableRepo.Update(ctx, table, orgID, id, updates)
	if err != nil {
		return err
	}
	if !found {
		return ErrRowNotFound
	}
	return nil
}

// Delete removes the row with the id
func (s *tableService) Delete(ctx context.Context, table, orgID, id string) error {
	if !repository.AllowedTable(table) {
		return ErrUnknownTable
	}
	found, err := s.tableRepo.Delete(ctx, table, orgID, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrRowNotFound
	}
	return nil
}
