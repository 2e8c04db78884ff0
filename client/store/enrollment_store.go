package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlawlghkd12/tutomate-sub000/client"
	"github.com/rlawlghkd12/tutomate-sub000/client/localcache"
	"github.com/rlawlghkd12/tutomate-sub000/client/mapper"
	"github.com/rlawlghkd12/tutomate-sub000/client/model"
	"github.com/rlawlghkd12/tutomate-sub000/client/planlimits"
	"github.com/rlawlghkd12/tutomate-sub000/client/remote"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
)

// EnrollmentStore manages enrollments. Payment status and remaining amount
// are derived from the course fee, the discount, and the paid amount; they
// are recomputed on every payment-affecting mutation rather than trusted
// from the caller.
type EnrollmentStore struct {
	base    *storeBase
	local   *localcache.Collection[*model.Enrollment]
	courses *CourseStore
	items   []*model.Enrollment
}

// NewEnrollmentStore creates an EnrollmentStore. The course store supplies
// fees, capacity checks, and seat counters.
func NewEnrollmentStore(session *client.Session, backend *remote.Client, cache *localcache.Cache, courses *CourseStore, log *logger.Logger) *EnrollmentStore {
	return &EnrollmentStore{
		base: newStoreBase(tableEnrollments, session, backend, log),
		local: localcache.NewCollection(cache, tableEnrollments,
			func(e *model.Enrollment) string { return e.ID }),
		courses: courses,
	}
}

// recomputePayment derives payment status and remaining amount. Exempt
// enrollments keep their status and owe nothing.
func recomputePayment(e *model.Enrollment, fee int) {
	if e.PaymentStatus == model.PaymentExempt {
		e.RemainingAmount = 0
		return
	}

	due := fee - e.DiscountAmount
	if due < 0 {
		due = 0
	}
	remaining := due - e.PaidAmount
	if remaining < 0 {
		remaining = 0
	}
	e.RemainingAmount = remaining

	switch {
	case e.PaidAmount <= 0:
		e.PaymentStatus = model.PaymentPending
	case remaining == 0:
		e.PaymentStatus = model.PaymentCompleted
	default:
		e.PaymentStatus = model.PaymentPartial
	}
}

// Load refreshes the mirror from the active storage
func (s *EnrollmentStore) Load(ctx context.Context) error {
	if s.base.cloud() {
		rows, err := s.base.backend.Select(ctx, tableEnrollments)
		if err != nil {
			return s.base.remoteFailed(ctx, "load", err)
		}
		items := make([]*model.Enrollment, 0, len(rows))
		for _, row := range rows {
			items = append(items, mapper.EnrollmentFromRow(row))
		}
		s.base.mu.Lock()
		s.items = items
		s.base.mu.Unlock()
		return nil
	}

	items, err := s.local.Load()
	if err != nil {
		return err
	}
	s.base.mu.Lock()
	s.items = items
	s.base.mu.Unlock()
	return nil
}

// List returns the mirrored enrollments
func (s *EnrollmentStore) List() []*model.Enrollment {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	return append([]*model.Enrollment(nil), s.items...)
}

// ListByCourse returns the mirrored enrollments of a course
func (s *EnrollmentStore) ListByCourse(courseID string) []*model.Enrollment {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	result := make([]*model.Enrollment, 0)
	for _, e := range s.items {
		if e.CourseID == courseID {
			result = append(result, e)
		}
	}
	return result
}

// ListByStudent returns the mirrored enrollments of a student
func (s *EnrollmentStore) ListByStudent(studentID string) []*model.Enrollment {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	result := make([]*model.Enrollment, 0)
	for _, e := range s.items {
		if e.StudentID == studentID {
			result = append(result, e)
		}
	}
	return result
}

// GetByID returns the mirrored enrollment with the id
func (s *EnrollmentStore) GetByID(id string) (*model.Enrollment, bool) {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	for _, e := range s.items {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Add enrolls a student in a course, derives the payment fields from the
// course fee, and bumps the course's seat counter.
func (s *EnrollmentStore) Add(ctx context.Context, enrollment *model.Enrollment) (*model.Enrollment, error) {
	course, ok := s.courses.GetByID(enrollment.CourseID)
	if !ok {
		return nil, fmt.Errorf("course %s: %w", enrollment.CourseID, ErrNotFound)
	}

	if course.MaxStudents > 0 && course.CurrentStudents >= course.MaxStudents {
		return nil, fmt.Errorf("course %s: %w", course.ID, ErrCourseFull)
	}
	limits := planlimits.For(s.base.session.Plan(), s.base.session.IsCloud())
	if !limits.EnrollmentAllowed(course.CurrentStudents) {
		return nil, fmt.Errorf("%w: trial allows %d students per course",
			ErrLimitReached, limits.MaxStudentsPerCourse)
	}

	created := *enrollment
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	if created.EnrolledAt == "" {
		created.EnrolledAt = time.Now().UTC().Format(time.RFC3339)
	}
	recomputePayment(&created, course.Fee)

	if s.base.cloud() {
		row := mapper.EnrollmentToRow(&created, s.base.session.OrganizationID())
		if err := s.base.backend.Insert(ctx, tableEnrollments, row); err != nil {
			return nil, s.base.remoteFailed(ctx, "add", err)
		}
	} else {
		if err := s.local.Add(&created); err != nil {
			return nil, err
		}
	}

	s.base.mu.Lock()
	s.items = append(s.items, &created)
	s.base.mu.Unlock()

	if err := s.courses.AdjustStudentCount(ctx, course.ID, 1); err != nil {
		s.base.log.WarnContext(ctx, "seat counter increment failed",
			zap.String("course_id", course.ID), zap.Error(err))
	}
	return &created, nil
}

// Update applies a partial update and recomputes the derived payment fields
func (s *EnrollmentStore) Update(ctx context.Context, id string, u *model.EnrollmentUpdate) error {
	existing, ok := s.GetByID(id)
	if !ok {
		s.base.log.WarnContext(ctx, "update of unknown enrollment ignored", zap.String("id", id))
		return nil
	}

	updated := *existing
	applyEnrollmentUpdate(&updated, u)

	fee := 0
	if course, ok := s.courses.GetByID(updated.CourseID); ok {
		fee = course.Fee
	}
	recomputePayment(&updated, fee)

	if s.base.cloud() {
		row := mapper.EnrollmentUpdateToRow(u)
		row["payment_status"] = updated.PaymentStatus
		row["remaining_amount"] = updated.RemainingAmount
		if err := s.base.backend.Update(ctx, tableEnrollments, id, row); err != nil {
			return s.base.remoteFailed(ctx, "update", err)
		}
	} else {
		if err := s.local.Update(id, &updated); err != nil {
			return err
		}
	}

	s.replace(id, &updated)
	return nil
}

// Delete removes the enrollment and releases its course seat
func (s *EnrollmentStore) Delete(ctx context.Context, id string) error {
	existing, ok := s.GetByID(id)
	if !ok {
		s.base.log.WarnContext(ctx, "delete of unknown enrollment ignored", zap.String("id", id))
		return nil
	}

	if s.base.cloud() {
		if err := s.base.backend.Delete(ctx, tableEnrollments, id); err != nil {
			return s.base.remoteFailed(ctx, "delete", err)
		}
	} else {
		if err := s.local.Delete(id); err != nil {
			return err
		}
	}

	s.base.mu.Lock()
	kept := s.items[:0]
	for _, e := range s.items {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.items = kept
	s.base.mu.Unlock()

	if err := s.courses.AdjustStudentCount(ctx, existing.CourseID, -1); err != nil {
		s.base.log.WarnContext(ctx, "seat counter decrement failed",
			zap.String("course_id", existing.CourseID), zap.Error(err))
	}
	return nil
}

func (s *EnrollmentStore) replace(id string, enrollment *model.Enrollment) {
	s.base.mu.Lock()
	defer s.base.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id {
			s.items[i] = enrollment
			return
		}
	}
}

func applyEnrollmentUpdate(e *model.Enrollment, u *model.EnrollmentUpdate) {
	if u.CourseID != nil {
		e.CourseID = *u.CourseID
	}
	if u.StudentID != nil {
		e.StudentID = *u.StudentID
	}
	if u.PaymentStatus != nil {
		e.PaymentStatus = *u.PaymentStatus
	}
	if u.PaidAmount != nil {
		e.PaidAmount = *u.PaidAmount
	}
	if u.RemainingAmount != nil {
		e.RemainingAmount = *u.RemainingAmount
	}
	if u.PaidAt != nil {
		e.PaidAt = *u.PaidAt
	}
	if u.PaymentMethod != nil {
		e.PaymentMethod = *u.PaymentMethod
	}
	if u.DiscountAmount != nil {
		e.DiscountAmount = *u.DiscountAmount
	}
	if u.Notes != nil {
		e.Notes = *u.Notes
	}
}
