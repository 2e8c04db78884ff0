package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rlawlghkd12/tutomate-sub000/client"
	"github.com/rlawlghkd12/tutomate-sub000/client/localcache"
	"github.com/rlawlghkd12/tutomate-sub000/client/mapper"
	"github.com/rlawlghkd12/tutomate-sub000/client/model"
	"github.com/rlawlghkd12/tutomate-sub000/client/remote"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
)

// StudentStore manages students over the active persistence mode
type StudentStore struct {
	base  *storeBase
	local *localcache.Collection[*model.Student]
	items []*model.Student
}

// NewStudentStore creates a StudentStore
func NewStudentStore(session *client.Session, backend *remote.Client, cache *localcache.Cache, log *logger.Logger) *StudentStore {
	return &StudentStore{
		base: newStoreBase(tableStudents, session, backend, log),
		local: localcache.NewCollection(cache, tableStudents,
			func(s *model.Student) string { return s.ID }),
	}
}

// Load refreshes the mirror from the active storage
func (s *StudentStore) Load(ctx context.Context) error {
	if s.base.cloud() {
		rows, err := s.base.backend.Select(ctx, tableStudents)
		if err != nil {
			return s.base.remoteFailed(ctx, "load", err)
		}
		items := make([]*model.Student, 0, len(rows))
		for _, row := range rows {
			items = append(items, mapper.StudentFromRow(row))
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

// List returns the mirrored students
func (s *StudentStore) List() []*model.Student {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	return append([]*model.Student(nil), s.items...)
}

// GetByID returns the mirrored student with the id
func (s *StudentStore) GetByID(id string) (*model.Student, bool) {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

// Add creates a student and returns it with id and timestamps filled
func (s *StudentStore) Add(ctx context.Context, student *model.Student) (*model.Student, error) {
	created := *student
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	created.CreatedAt = now
	created.UpdatedAt = now

	if s.base.cloud() {
		row := mapper.StudentToRow(&created, s.base.session.OrganizationID())
		if err := s.base.backend.Insert(ctx, tableStudents, row); err != nil {
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

// Update applies a partial update to the student with the id
func (s *StudentStore) Update(ctx context.Context, id string, u *model.StudentUpdate) error {
	existing, ok := s.GetByID(id)
	if !ok {
		s.base.log.WarnContext(ctx, "update of unknown student ignored", zap.String("id", id))
		return nil
	}

	updated := *existing
	applyStudentUpdate(&updated, u)
	updated.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if s.base.cloud() {
		row := mapper.StudentUpdateToRow(u)
		row["updated_at"] = updated.UpdatedAt
		if err := s.base.backend.Update(ctx, tableStudents, id, row); err != nil {
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

// Delete removes the student with the id
func (s *StudentStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.GetByID(id); !ok {
		s.base.log.WarnContext(ctx, "delete of unknown student ignored", zap.String("id", id))
		return nil
	}

	if s.base.cloud() {
		if err := s.base.backend.Delete(ctx, tableStudents, id); err != nil {
			return s.base.remoteFailed(ctx, "delete", err)
		}
	} else {
		if err := s.local.Delete(id); err != nil {
			return err
		}
	}

	s.base.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.base.mu.Unlock()
	return nil
}

func (s *StudentStore) replace(id string, student *model.Student) {
	s.base.mu.Lock()
	defer s.base.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items[i] = student
			return
		}
	}
}

func applyStudentUpdate(s *model.Student, u *model.StudentUpdate) {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Phone != nil {
		s.Phone = *u.Phone
	}
	if u.Email != nil {
		s.Email = *u.Email
	}
	if u.Address != nil {
		s.Address = *u.Address
	}
	if u.BirthDate != nil {
		s.BirthDate = *u.BirthDate
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
}
