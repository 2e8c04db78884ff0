package store

import (
	"context"
	"errors"
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

var (
	ErrNotFound     = errors.New("not found")
	ErrLimitReached = errors.New("plan limit reached")
	ErrCourseFull   = errors.New("course is full")
)

// CourseStore manages courses over the active persistence mode. The mirror
// holds the loaded entities; reads come from the mirror, mutations go to the
// backing storage first and touch the mirror only on success.
type CourseStore struct {
	base  *storeBase
	local *localcache.Collection[*model.Course]
	items []*model.Course
}

// NewCourseStore creates a CourseStore
func NewCourseStore(session *client.Session, backend *remote.Client, cache *localcache.Cache, log *logger.Logger) *CourseStore {
	return &CourseStore{
		base: newStoreBase(tableCourses, session, backend, log),
		local: localcache.NewCollection(cache, tableCourses,
			func(c *model.Course) string { return c.ID }),
	}
}

// Load refreshes the mirror from the active storage
func (s *CourseStore) Load(ctx context.Context) error {
	if s.base.cloud() {
		rows, err := s.base.backend.Select(ctx, tableCourses)
		if err != nil {
			return s.base.remoteFailed(ctx, "load", err)
		}
		items := make([]*model.Course, 0, len(rows))
		for _, row := range rows {
			items = append(items, mapper.CourseFromRow(row))
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

// List returns the mirrored courses
func (s *CourseStore) List() []*model.Course {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	return append([]*model.Course(nil), s.items...)
}

// GetByID returns the mirrored course with the id
func (s *CourseStore) GetByID(id string) (*model.Course, bool) {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	for _, c := range s.items {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Add creates a course and returns it with id and timestamps filled
func (s *CourseStore) Add(ctx context.Context, course *model.Course) (*model.Course, error) {
	limits := planlimits.For(s.base.session.Plan(), s.base.session.IsCloud())
	if !limits.CourseAllowed(len(s.List())) {
		return nil, fmt.Errorf("%w: trial allows %d courses", ErrLimitReached, limits.MaxCourses)
	}

	created := *course
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	created.CreatedAt = now
	created.UpdatedAt = now

	if s.base.cloud() {
		row := mapper.CourseToRow(&created, s.base.session.OrganizationID())
		if err := s.base.backend.Insert(ctx, tableCourses, row); err != nil {
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
	return &created, nil
}

// Update applies a partial update to the course with the id
func (s *CourseStore) Update(ctx context.Context, id string, u *model.CourseUpdate) error {
	existing, ok := s.GetByID(id)
	if !ok {
		s.base.log.WarnContext(ctx, "update of unknown course ignored", zap.String("id", id))
		return nil
	}

	updated := *existing
	applyCourseUpdate(&updated, u)
	updated.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if s.base.cloud() {
		row := mapper.CourseUpdateToRow(u)
		row["updated_at"] = updated.UpdatedAt
		if err := s.base.backend.Update(ctx, tableCourses, id, row); err != nil {
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

// Delete removes the course with the id
func (s *CourseStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.GetByID(id); !ok {
		s.base.log.WarnContext(ctx, "delete of unknown course ignored", zap.String("id", id))
		return nil
	}

	if s.base.cloud() {
		if err := s.base.backend.Delete(ctx, tableCourses, id); err != nil {
			return s.base.remoteFailed(ctx, "delete", err)
		}
	} else {
		if err := s.local.Delete(id); err != nil {
			return err
		}
	}

	s.base.mu.Lock()
	kept := s.items[:0]
	for _, c := range s.items {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.items = kept
	s.base.mu.Unlock()
	return nil
}

// AdjustStudentCount shifts current_students by delta, clamped to
// [0, max_students]
func (s *CourseStore) AdjustStudentCount(ctx context.Context, id string, delta int) error {
	existing, ok := s.GetByID(id)
	if !ok {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}

	count := existing.CurrentStudents + delta
	if count < 0 {
		count = 0
	}
	if existing.MaxStudents > 0 && count > existing.MaxStudents {
		count = existing.MaxStudents
	}

	return s.Update(ctx, id, &model.CourseUpdate{CurrentStudents: &count})
}

func (s *CourseStore) replace(id string, course *model.Course) {
	s.base.mu.Lock()
	defer s.base.mu.Unlock()
	for i, c := range s.items {
		if c.ID == id {
			s.items[i] = course
			return
		}
	}
}

func applyCourseUpdate(c *model.Course, u *model.CourseUpdate) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Classroom != nil {
		c.Classroom = *u.Classroom
	}
	if u.InstructorName != nil {
		c.InstructorName = *u.InstructorName
	}
	if u.InstructorPhone != nil {
		c.InstructorPhone = *u.InstructorPhone
	}
	if u.Fee != nil {
		c.Fee = *u.Fee
	}
	if u.MaxStudents != nil {
		c.MaxStudents = *u.MaxStudents
	}
	if u.CurrentStudents != nil {
		c.CurrentStudents = *u.CurrentStudents
	}
	if u.Schedule != nil {
		c.Schedule = u.Schedule
	}
}
