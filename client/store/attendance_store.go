package store

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlawlghkd12/tutomate-sub000/client"
	"github.com/rlawlghkd12/tutomate-sub000/client/localcache"
	"github.com/rlawlghkd12/tutomate-sub000/client/mapper"
	"github.com/rlawlghkd12/tutomate-sub000/client/model"
	"github.com/rlawlghkd12/tutomate-sub000/client/remote"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
)

// AttendanceStore manages attendance marks
type AttendanceStore struct {
	base  *storeBase
	local *localcache.Collection[*model.Attendance]
	items []*model.Attendance
}

// NewAttendanceStore creates an AttendanceStore
func NewAttendanceStore(session *client.Session, backend *remote.Client, cache *localcache.Cache, log *logger.Logger) *AttendanceStore {
	return &AttendanceStore{
		base: newStoreBase(tableAttendance, session, backend, log),
		local: localcache.NewCollection(cache, tableAttendance,
			func(a *model.Attendance) string { return a.ID }),
	}
}

// Load refreshes the mirror from the active storage
func (s *AttendanceStore) Load(ctx context.Context) error {
	if s.base.cloud() {
		rows, err := s.base.backend.Select(ctx, tableAttendance)
		if err != nil {
			return s.base.remoteFailed(ctx, "load", err)
		}
		items := make([]*model.Attendance, 0, len(rows))
		for _, row := range rows {
			items = append(items, mapper.AttendanceFromRow(row))
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

// List returns the mirrored attendance records
func (s *AttendanceStore) List() []*model.Attendance {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	return append([]*model.Attendance(nil), s.items...)
}

// ListByCourseAndDate returns the mirrored marks of a course on a date
func (s *AttendanceStore) ListByCourseAndDate(courseID, date string) []*model.Attendance {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	result := make([]*model.Attendance, 0)
	for _, a := range s.items {
		if a.CourseID == courseID && a.Date == date {
			result = append(result, a)
		}
	}
	return result
}

// GetByID returns the mirrored record with the id
func (s *AttendanceStore) GetByID(id string) (*model.Attendance, bool) {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Add records an attendance mark
func (s *AttendanceStore) Add(ctx context.Context, attendance *model.Attendance) (*model.Attendance, error) {
	created := *attendance
	if created.ID == "" {
		created.ID = uuid.New().String()
	}

	if s.base.cloud() {
		row := mapper.AttendanceToRow(&created, s.base.session.OrganizationID())
		if err := s.base.backend.Insert(ctx, tableAttendance, row); err != nil {
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

// Update applies a partial update to the record with the id
func (s *AttendanceStore) Update(ctx context.Context, id string, u *model.AttendanceUpdate) error {
	existing, ok := s.GetByID(id)
	if !ok {
		s.base.log.WarnContext(ctx, "update of unknown attendance ignored", zap.String("id", id))
		return nil
	}

	updated := *existing
	applyAttendanceUpdate(&updated, u)

	if s.base.cloud() {
		if err := s.base.backend.Update(ctx, tableAttendance, id, mapper.AttendanceUpdateToRow(u)); err != nil {
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

// Delete removes the record with the id
func (s *AttendanceStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.GetByID(id); !ok {
		s.base.log.WarnContext(ctx, "delete of unknown attendance ignored", zap.String("id", id))
		return nil
	}

	if s.base.cloud() {
		if err := s.base.backend.Delete(ctx, tableAttendance, id); err != nil {
			return s.base.remoteFailed(ctx, "delete", err)
		}
	} else {
		if err := s.local.Delete(id); err != nil {
			return err
		}
	}

	s.base.mu.Lock()
	kept := s.items[:0]
	for _, a := range s.items {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.items = kept
	s.base.mu.Unlock()
	return nil
}

func (s *AttendanceStore) replace(id string, attendance *model.Attendance) {
	s.base.mu.Lock()
	defer s.base.mu.Unlock()
	for i, a := range s.items {
		if a.ID == id {
			s.items[i] = attendance
			return
		}
	}
}

func applyAttendanceUpdate(a *model.Attendance, u *model.AttendanceUpdate) {
	if u.Date != nil {
		a.Date = *u.Date
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
}
