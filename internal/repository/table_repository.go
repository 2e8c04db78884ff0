package repository

import (
	"context"
)

// Entity table names served by the multi-tenant table API
const (
	TableCourses         = "courses"
	TableStudents        = "students"
	TableEnrollments     = "enrollments"
	TableMonthlyPayments = "monthly_payments"
	TableAttendance      = "attendance"
)

// tableColumns whitelists the writable columns of each entity table.
// organization_id and id are managed separately and are never taken from
// caller-supplied update maps.
var tableColumns = map[string][]string{
	TableCourses: {
		"name", "classroom", "instructor_name", "instructor_phone",
		"fee", "max_students", "current_students", "schedule",
		"created_at", "updated_at",
	},
	TableStudents: {
		"name", "phone", "email", "address", "birth_date", "notes",
		"created_at", "updated_at",
	},
	TableEnrollments: {
		"course_id", "student_id", "enrolled_at", "payment_status",
		"paid_amount", "remaining_amount", "paid_at", "payment_method",
		"discount_amount", "notes", "created_at",
	},
	TableMonthlyPayments: {
		"enrollment_id", "month", "amount", "paid_at", "payment_method",
		"status", "notes", "created_at",
	},
	TableAttendance: {
		"course_id", "student_id", "date", "status", "notes",
	},
}

// AllowedTable reports whether the table API serves the given table
func AllowedTable(table string) bool {
	_, ok := tableColumns[table]
	return ok
}

// ColumnsFor returns the writable columns of a table
func ColumnsFor(table string) []string {
	return tableColumns[table]
}

// Row is one entity table row on the wire: snake_case column names to values
type Row = map[string]interface{}

// TableRepository defines generic, organization-scoped access to the entity
// tables. Scoping by organization happens here, server-side; clients never
// filter rows themselves.
type TableRepository interface {
	// Select returns all rows of the table owned by the organization
	Select(ctx context.Context, table, orgID string) ([]Row, error)
	// Insert stores a row for the organization; the row must carry an "id"
	Insert(ctx context.Context, table, orgID string, row Row) error
	// Update applies the given column updates to the row with the id,
	// returning false when no such row exists in the organization's scope
	Update(ctx context.Context, table, orgID, id string, updates Row) (bool, error)
	// Delete removes the row with the id, returning false when absent
	Delete(ctx context.Context, table, orgID, id string) (bool, error)
}
