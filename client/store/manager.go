package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rlawlghkd12/tutomate-sub000/client"
	"github.com/rlawlghkd12/tutomate-sub000/client/localcache"
	"github.com/rlawlghkd12/tutomate-sub000/client/mapper"
	"github.com/rlawlghkd12/tutomate-sub000/client/remote"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
)

// Manager builds the domain stores over one shared session, cache, and
// backend client, and owns the referential policy between them: deleting a
// parent entity removes its dependents instead of leaving them orphaned.
type Manager struct {
	session *client.Session
	backend *remote.Client
	log     *logger.Logger

	Courses         *CourseStore
	Students        *StudentStore
	Enrollments     *EnrollmentStore
	MonthlyPayments *MonthlyPaymentStore
	Attendance      *AttendanceStore
}

// NewManager creates a Manager and all its stores
func NewManager(session *client.Session, backend *remote.Client, cache *localcache.Cache, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}

	courses := NewCourseStore(session, backend, cache, log)
	return &Manager{
		session:         session,
		backend:         backend,
		log:             log,
		Courses:         courses,
		Students:        NewStudentStore(session, backend, cache, log),
		Enrollments:     NewEnrollmentStore(session, backend, cache, courses, log),
		MonthlyPayments: NewMonthlyPaymentStore(session, backend, cache, log),
		Attendance:      NewAttendanceStore(session, backend, cache, log),
	}
}

// LoadAll refreshes every store from the active storage. Courses load first
// so enrollment mutations can resolve fees right away.
func (m *Manager) LoadAll(ctx context.Context) error {
	if err := m.Courses.Load(ctx); err != nil {
		return err
	}
	if err := m.Students.Load(ctx); err != nil {
		return err
	}
	if err := m.Enrollments.Load(ctx); err != nil {
		return err
	}
	if err := m.MonthlyPayments.Load(ctx); err != nil {
		return err
	}
	return m.Attendance.Load(ctx)
}

// DeleteEnrollment removes an enrollment and its monthly payments
func (m *Manager) DeleteEnrollment(ctx context.Context, id string) error {
	for _, payment := range m.MonthlyPayments.ListByEnrollment(id) {
		if err := m.MonthlyPayments.Delete(ctx, payment.ID); err != nil {
			return err
		}
	}
	return m.Enrollments.Delete(ctx, id)
}

// DeleteCourse removes a course together with its enrollments, their
// monthly payments, and its attendance records
func (m *Manager) DeleteCourse(ctx context.Context, id string) error {
	for _, enrollment := range m.Enrollments.ListByCourse(id) {
		if err := m.DeleteEnrollment(ctx, enrollment.ID); err != nil {
			return err
		}
	}
	for _, attendance := range m.Attendance.List() {
		if attendance.CourseID == id {
			if err := m.Attendance.Delete(ctx, attendance.ID); err != nil {
				return err
			}
		}
	}
	return m.Courses.Delete(ctx, id)
}

// DeleteStudent removes a student together with their enrollments, those
// enrollments' monthly payments, and their attendance records
func (m *Manager) DeleteStudent(ctx context.Context, id string) error {
	for _, enrollment := range m.Enrollments.ListByStudent(id) {
		if err := m.DeleteEnrollment(ctx, enrollment.ID); err != nil {
			return err
		}
	}
	for _, attendance := range m.Attendance.List() {
		if attendance.StudentID == id {
			if err := m.Attendance.Delete(ctx, attendance.ID); err != nil {
				return err
			}
		}
	}
	return m.Students.Delete(ctx, id)
}

// MigrateToCloud pushes every locally cached entity to the backend. Called
// after an activation that provisioned a fresh organization, while the
// session already points at the cloud. The local files stay behind as a
// fallback copy.
func (m *Manager) MigrateToCloud(ctx context.Context) error {
	if !m.session.IsCloud() {
		return fmt.Errorf("session is not in cloud mode")
	}
	orgID := m.session.OrganizationID()

	courses, err := m.Courses.local.Load()
	if err != nil {
		return err
	}
	for _, c := range courses {
		if err := m.backend.Insert(ctx, tableCourses, mapper.CourseToRow(c, orgID)); err != nil {
			return fmt.Errorf("migrate course %s: %w", c.ID, err)
		}
	}

	students, err := m.Students.local.Load()
	if err != nil {
		return err
	}
	for _, s := range students {
		if err := m.backend.Insert(ctx, tableStudents, mapper.StudentToRow(s, orgID)); err != nil {
			return fmt.Errorf("migrate student %s: %w", s.ID, err)
		}
	}

	enrollments, err := m.Enrollments.local.Load()
	if err != nil {
		return err
	}
	for _, e := range enrollments {
		if err := m.backend.Insert(ctx, tableEnrollments, mapper.EnrollmentToRow(e, orgID)); err != nil {
			return fmt.Errorf("migrate enrollment %s: %w", e.ID, err)
		}
	}

	payments, err := m.MonthlyPayments.local.Load()
	if err != nil {
		return err
	}
	for _, p := range payments {
		if err := m.backend.Insert(ctx, tableMonthlyPayments, mapper.MonthlyPaymentToRow(p, orgID)); err != nil {
			return fmt.Errorf("migrate payment %s: %w", p.ID, err)
		}
	}

	attendance, err := m.Attendance.local.Load()
	if err != nil {
		return err
	}
	for _, a := range attendance {
		if err := m.backend.Insert(ctx, tableAttendance, mapper.AttendanceToRow(a, orgID)); err != nil {
			return fmt.Errorf("migrate attendance %s: %w", a.ID, err)
		}
	}

	m.log.InfoContext(ctx, "local data migrated",
		zap.Int("courses", len(courses)),
		zap.Int("students", len(students)),
		zap.Int("enrollments", len(enrollments)),
		zap.Int("payments", len(payments)),
		zap.Int("attendance", len(attendance)))
	return nil
}
