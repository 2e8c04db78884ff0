// Package mapper converts between the client's camelCase entities and the
// snake_case rows of the table API. Update mappers emit only the fields the
// caller actually set, so partial updates never clobber sibling columns.
package mapper

import (
	"encoding/json"

	"github.com/rlawlghkd12/tutomate-sub000/client/model"
)

// Row is one wire row: snake_case column names to values
type Row = map[string]interface{}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asInt tolerates the numeric types JSON decoding and in-memory passing
// produce for the same column.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}

// asSchedule decodes a schedule value regardless of whether it travelled
// through JSON or stayed in memory.
func asSchedule(v interface{}) *model.CourseSchedule {
	switch s := v.(type) {
	case nil:
		return nil
	case *model.CourseSchedule:
		return s
	case model.CourseSchedule:
		return &s
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		var schedule model.CourseSchedule
		if err := json.Unmarshal(raw, &schedule); err != nil {
			return nil
		}
		return &schedule
	}
}

// CourseToRow maps a course to its wire row
func CourseToRow(c *model.Course, orgID string) Row {
	row := Row{
		"id":               c.ID,
		"organization_id":  orgID,
		"name":             c.Name,
		"classroom":        c.Classroom,
		"instructor_name":  c.InstructorName,
		"instructor_phone": c.InstructorPhone,
		"fee":              c.Fee,
		"max_students":     c.MaxStudents,
		"current_students": c.CurrentStudents,
		"created_at":       c.CreatedAt,
		"updated_at":       c.UpdatedAt,
	}
	if c.Schedule != nil {
		row["schedule"] = c.Schedule
	}
	return row
}

// CourseFromRow maps a wire row back to a course
func CourseFromRow(row Row) *model.Course {
	return &model.Course{
		ID:              asString(row["id"]),
		Name:            asString(row["name"]),
		Classroom:       asString(row["classroom"]),
		InstructorName:  asString(row["instructor_name"]),
		InstructorPhone: asString(row["instructor_phone"]),
		Fee:             asInt(row["fee"]),
		MaxStudents:     asInt(row["max_students"]),
		CurrentStudents: asInt(row["current_students"]),
		Schedule:        asSchedule(row["schedule"]),
		CreatedAt:       asString(row["created_at"]),
		UpdatedAt:       asString(row["updated_at"]),
	}
}

// CourseUpdateToRow maps the set fields of a partial course update
func CourseUpdateToRow(u *model.CourseUpdate) Row {
	row := Row{}
	if u.Name != nil {
		row["name"] = *u.Name
	}
	if u.Classroom != nil {
		row["classroom"] = *u.Classroom
	}
	if u.InstructorName != nil {
		row["instructor_name"] = *u.InstructorName
	}
	if u.InstructorPhone != nil {
		row["instructor_phone"] = *u.InstructorPhone
	}
	if u.Fee != nil {
		row["fee"] = *u.Fee
	}
	if u.MaxStudents != nil {
		row["max_students"] = *u.MaxStudents
	}
	if u.CurrentStudents != nil {
		row["current_students"] = *u.CurrentStudents
	}
	if u.Schedule != nil {
		row["schedule"] = u.Schedule
	}
	return row
}

// StudentToRow maps a student to its wire row
func StudentToRow(s *model.Student, orgID string) Row {
	return Row{
		"id":              s.ID,
		"organization_id": orgID,
		"name":            s.Name,
		"phone":           s.Phone,
		"email":           s.Email,
		"address":         s.Address,
		"birth_date":      s.BirthDate,
		"notes":           s.Notes,
		"created_at":      s.CreatedAt,
		"updated_at":      s.UpdatedAt,
	}
}

// StudentFromRow maps a wire row back to a student
func StudentFromRow(row Row) *model.Student {
	return &model.Student{
		ID:        asString(row["id"]),
		Name:      asString(row["name"]),
		Phone:     asString(row["phone"]),
		Email:     asString(row["email"]),
		Address:   asString(row["address"]),
		BirthDate: asString(row["birth_date"]),
		Notes:     asString(row["notes"]),
		CreatedAt: asString(row["created_at"]),
		UpdatedAt: asString(row["updated_at"]),
	}
}

// StudentUpdateToRow maps the set fields of a partial student update
func StudentUpdateToRow(u *model.StudentUpdate) Row {
	row := Row{}
	if u.Name != nil {
		row["name"] = *u.Name
	}
	if u.Phone != nil {
		row["phone"] = *u.Phone
	}
	if u.Email != nil {
		row["email"] = *u.Email
	}
	if u.Address != nil {
		row["address"] = *u.Address
	}
	if u.BirthDate != nil {
		row["birth_date"] = *u.BirthDate
	}
	if u.Notes != nil {
		row["notes"] = *u.Notes
	}
	return row
}

// EnrollmentToRow maps an enrollment to its wire row
func EnrollmentToRow(e *model.Enrollment, orgID string) Row {
	return Row{
		"id":               e.ID,
		"organization_id":  orgID,
		"course_id":        e.CourseID,
		"student_id":       e.StudentID,
		"enrolled_at":      e.EnrolledAt,
		"payment_status":   e.PaymentStatus,
		"paid_amount":      e.PaidAmount,
		"remaining_amount": e.RemainingAmount,
		"paid_at":          e.PaidAt,
		"payment_method":   e.PaymentMethod,
		"discount_amount":  e.DiscountAmount,
		"notes":            e.Notes,
		"created_at":       e.EnrolledAt,
	}
}

// EnrollmentFromRow maps a wire row back to an enrollment. Rows written by
// older client versions may omit payment_status and discount_amount; those
// default to pending and zero.
func EnrollmentFromRow(row Row) *model.Enrollment {
	status := asString(row["payment_status"])
	if status == "" {
		status = model.PaymentPending
	}
	return &model.Enrollment{
		ID:              asString(row["id"]),
		CourseID:        asString(row["course_id"]),
		StudentID:       asString(row["student_id"]),
		EnrolledAt:      asString(row["enrolled_at"]),
		PaymentStatus:   status,
		PaidAmount:      asInt(row["paid_amount"]),
		RemainingAmount: asInt(row["remaining_amount"]),
		PaidAt:          asString(row["paid_at"]),
		PaymentMethod:   asString(row["payment_method"]),
		DiscountAmount:  asInt(row["discount_amount"]),
		Notes:           asString(row["notes"]),
	}
}

// EnrollmentUpdateToRow maps the set fields of a partial enrollment update
func EnrollmentUpdateToRow(u *model.EnrollmentUpdate) Row {
	row := Row{}
	if u.CourseID != nil {
		row["course_id"] = *u.CourseID
	}
	if u.StudentID != nil {
		row["student_id"] = *u.StudentID
	}
	if u.PaymentStatus != nil {
		row["payment_status"] = *u.PaymentStatus
	}
	if u.PaidAmount != nil {
		row["paid_amount"] = *u.PaidAmount
	}
	if u.RemainingAmount != nil {
		row["remaining_amount"] = *u.RemainingAmount
	}
	if u.PaidAt != nil {
		row["paid_at"] = *u.PaidAt
	}
	if u.PaymentMethod != nil {
		row["payment_method"] = *u.PaymentMethod
	}
	if u.DiscountAmount != nil {
		row["discount_amount"] = *u.DiscountAmount
	}
	if u.Notes != nil {
		row["notes"] = *u.Notes
	}
	return row
}

// MonthlyPaymentToRow maps a monthly payment to its wire row
func MonthlyPaymentToRow(p *model.MonthlyPayment, orgID string) Row {
	return Row{
		"id":              p.ID,
		"organization_id": orgID,
		"enrollment_id":   p.EnrollmentID,
		"month":           p.Month,
		"amount":          p.Amount,
		"paid_at":         p.PaidAt,
		"payment_method":  p.PaymentMethod,
		"status":          p.Status,
		"notes":           p.Notes,
		"created_at":      p.CreatedAt,
	}
}

// MonthlyPaymentFromRow maps a wire row back to a monthly payment
func MonthlyPaymentFromRow(row Row) *model.MonthlyPayment {
	status := asString(row["status"])
	if status == "" {
		status = model.MonthlyPaymentPending
	}
	return &model.MonthlyPayment{
		ID:            asString(row["id"]),
		EnrollmentID:  asString(row["enrollment_id"]),
		Month:         asString(row["month"]),
		Amount:        asInt(row["amount"]),
		PaidAt:        asString(row["paid_at"]),
		PaymentMethod: asString(row["payment_method"]),
		Status:        status,
		Notes:         asString(row["notes"]),
		CreatedAt:     asString(row["created_at"]),
	}
}

// MonthlyPaymentUpdateToRow maps the set fields of a partial payment update
func MonthlyPaymentUpdateToRow(u *model.MonthlyPaymentUpdate) Row {
	row := Row{}
	if u.Amount != nil {
		row["amount"] = *u.Amount
	}
	if u.PaidAt != nil {
		row["paid_at"] = *u.PaidAt
	}
	if u.PaymentMethod != nil {
		row["payment_method"] = *u.PaymentMethod
	}
	if u.Status != nil {
		row["status"] = *u.Status
	}
	if u.Notes != nil {
		row["notes"] = *u.Notes
	}
	return row
}

// AttendanceToRow maps an attendance record to its wire row
func AttendanceToRow(a *model.Attendance, orgID string) Row {
	return Row{
		"id":              a.ID,
		"organization_id": orgID,
		"course_id":       a.CourseID,
		"student_id":      a.StudentID,
		"date":            a.Date,
		"status":          a.Status,
		"notes":           a.Notes,
	}
}

// AttendanceFromRow maps a wire row back to an attendance record
func AttendanceFromRow(row Row) *model.Attendance {
	return &model.Attendance{
		ID:        asString(row["id"]),
		CourseID:  asString(row["course_id"]),
		StudentID: asString(row["student_id"]),
		Date:      asString(row["date"]),
		Status:    asString(row["status"]),
		Notes:     asString(row["notes"]),
	}
}

// AttendanceUpdateToRow maps the set fields of a partial attendance update
func AttendanceUpdateToRow(u *model.AttendanceUpdate) Row {
	row := Row{}
	if u.Date != nil {
		row["date"] = *u.Date
	}
	if u.Status != nil {
		row["status"] = *u.Status
	}
	if u.Notes != nil {
		row["notes"] = *u.Notes
	}
	return row
}
