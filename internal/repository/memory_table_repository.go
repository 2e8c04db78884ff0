package repository

import (
	"context"
	"fmt"
	"sync"
)

// MemoryTableRepository is an in-memory TableRepository for tests and
// single-process local runs
type MemoryTableRepository struct {
	mu sync.RWMutex
	// table -> orgID -> rowID -> row
	tables map[string]map[string]map[string]Row
}

// NewMemoryTableRepository creates a new in-memory table repository
func NewMemoryTableRepository() *MemoryTableRepository {
	return &MemoryTableRepository{
		tables: make(map[string]map[string]map[string]Row),
	}
}

func copyRow(row Row) Row {
	copied := make(Row, len(row))
	for k, v := range row {
		copied[k] = v
	}
	return copied
}

// Select returns all rows of the table owned by the organization
func (r *MemoryTableRepository) Select(ctx context.Context, table, orgID string) ([]Row, error) {
	if !AllowedTable(table) {
		return nil, fmt.Errorf("unknown table: %s", table)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]Row, 0)
	for _, row := range r.tables[table][orgID] {
		rows = append(rows, copyRow(row))
	}
	return rows, nil
}

// Insert stores a row for the organization
func (r *MemoryTableRepository) Insert(ctx context.Context, table, orgID string, row Row) error {
	if !AllowedTable(table) {
		return fmt.Errorf("unknown table: %s", table)
	}
	id, _ := row["id"].(string)
	if id == "" {
		return fmt.Errorf("row is missing an id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tables[table] == nil {
		r.tables[table] = make(map[string]map[string]Row)
	}
	if r.tables[table][orgID] == nil {
		r.tables[table][orgID] = make(map[string]Row)
	}
	if _, exists := r.tables[table][orgID][id]; exists {
		return fmt.Errorf("row already exists: %s", id)
	}

	stored := copyRow(row)
	stored["organization_id"] = orgID
	r.tables[table][orgID][id] = stored
	return nil
}

// Update applies column updates to the row with the id
func (r *MemoryTableRepository) Update(ctx context.Context, table, orgID, id string, updates Row) (bool, error) {
	if !AllowedTable(table) {
		return false, fmt.Errorf("unknown table: %s", table)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row, exists := r.tables[table][orgID][id]
	if !exists {
		return false, nil
	}

	for k, v := range updates {
		if k == "id" || k == "organization_id" {
			continue
		}
		row[k] = v
	}
	return true, nil
}

// Delete removes the row with the id
func (r *MemoryTableRepository) Delete(ctx context.Context, table, orgID, id string) (bool, error) {
	if !AllowedTable(table) {
		return false, fmt.Errorf("unknown table: %s", table)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[table][orgID][id]; !exists {
		return false, nil
	}
	delete(r.tables[table][orgID], id)
	return true, nil
}
