package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTableRepository implements TableRepository using PostgreSQL.
// All SQL is built from the tableColumns whitelist; caller-supplied strings
// never reach the query text, only parameter slots.
type PostgresTableRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTableRepository creates a new PostgresTableRepository
func NewPostgresTableRepository(pool *pgxpool.Pool) *PostgresTableRepository {
	return &PostgresTableRepository{pool: pool}
}

// uuidColumns are cast to text on reads so ids come back as strings on the
// wire instead of pgx uuid byte arrays.
var uuidColumns = map[string]bool{
	"id":              true,
	"organization_id": true,
	"course_id":       true,
	"student_id":      true,
	"enrollment_id":   true,
}

func selectExprs(cols []string) []string {
	exprs := make([]string, len(cols))
	for i, col := range cols {
		if uuidColumns[col] {
			exprs[i] = col + "::text"
		} else {
			exprs[i] = col
		}
	}
	return exprs
}

// Select returns all rows of the table owned by the organization
func (r *PostgresTableRepository) Select(ctx context.Context, table, orgID string) ([]Row, error) {
	if !AllowedTable(table) {
		return nil, fmt.Errorf("unknown table: %s", table)
	}

	cols := append([]string{"id", "organization_id"}, ColumnsFor(table)...)
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE organization_id = $1`,
		strings.Join(selectExprs(cols), ", "), table,
	)

	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// Insert stores a row for the organization; the row must carry an "id"
func (r *PostgresTableRepository) Insert(ctx context.Context, table, orgID string, row Row) error {
	if !AllowedTable(table) {
		return fmt.Errorf("unknown table: %s", table)
	}
	id, _ := row["id"].(string)
	if id == "" {
		return fmt.Errorf("row is missing an id")
	}

	cols := []string{"id", "organization_id"}
	args := []interface{}{id, orgID}
	for _, col := range ColumnsFor(table) {
		if v, ok := row[col]; ok {
			cols = append(cols, col)
			args = append(args, v)
		}
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES (%s)`,
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

// Update applies the given column updates to the row with the id
func (r *PostgresTableRepository) Update(ctx context.Context, table, orgID, id string, updates Row) (bool, error) {
	if !AllowedTable(table) {
		return false, fmt.Errorf("unknown table: %s", table)
	}

	sets := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+2)
	for _, col := range ColumnsFor(table) {
		if v, ok := updates[col]; ok {
			args = append(args, v)
			sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	if len(sets) == 0 {
		// Nothing whitelisted to write; report whether the row exists.
		var exists bool
		query := fmt.Sprintf(
			`SELECT EXISTS (SELECT 1 FROM %s WHERE organization_id = $1 AND id = $2)`,
			table,
		)
		if err := r.pool.QueryRow(ctx, query, orgID, id).Scan(&exists); err != nil {
			return false, err
		}
		return exists, nil
	}

	args = append(args, orgID, id)
	query := fmt.Sprintf(
		`UPDATE %s SET %s WHERE organization_id = $%d AND id = $%d`,
		table, strings.Join(sets, ", "), len(args)-1, len(args),
	)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes the row with the id
func (r *PostgresTableRepository) Delete(ctx context.Context, table, orgID, id string) (bool, error) {
	if !AllowedTable(table) {
		return false, fmt.Errorf("unknown table: %s", table)
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE organization_id = $1 AND id = $2`, table)
	tag, err := r.pool.Exec(ctx, query, orgID, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
