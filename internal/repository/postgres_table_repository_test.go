package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectExprs_CastsIDColumnsToText(t *testing.T) {
	cols := append([]string{"id", "organization_id"}, ColumnsFor(TableEnrollments)...)
	exprs := selectExprs(cols)

	assert.Contains(t, exprs, "id::text")
	assert.Contains(t, exprs, "organization_id::text")
	assert.Contains(t, exprs, "course_id::text")
	assert.Contains(t, exprs, "student_id::text")
	// Non-uuid columns pass through untouched.
	assert.Contains(t, exprs, "payment_status")
	assert.NotContains(t, exprs, "payment_status::text")
}

func TestSelectExprs_CoversEveryTable(t *testing.T) {
	tables := []string{
		TableCourses, TableStudents, TableEnrollments,
		TableMonthlyPayments, TableAttendance,
	}
	for _, table := range tables {
		cols := append([]string{"id", "organization_id"}, ColumnsFor(table)...)
		exprs := selectExprs(cols)
		assert.Len(t, exprs, len(cols), table)
		for _, expr := range exprs {
			if uuidColumns[expr] {
				t.Errorf("%s: uuid column %s not cast to text", table, expr)
			}
		}
	}
}
