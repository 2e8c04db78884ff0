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

// MonthlyPaymentStore manages per-month tuition ledger entries
type MonthlyPaymentStore struct {
	base  *storeBase
	local *localcache.Collection[*model.MonthlyPayment]
	items []*model.MonthlyPayment
}

// NewMonthlyPaymentStore creates a MonthlyPaymentStore
func NewMonthlyPaymentStore(session *client.Session, backend *remote.Client, cache *localcache.Cache, log *logger.Logger) *MonthlyPaymentStore {
	return &MonthlyPaymentStore{
		base: newStoreBase(tableMonthlyPayments, session, backend, log),
		local: localcache.NewCollection(cache, tableMonthlyPayments,
			func(p *model.MonthlyPayment) string { return p.ID }),
	}
}

// Load refreshes the mirror from the active storage
func (s *MonthlyPaymentStore) Load(ctx context.Context) error {
	if s.base.cloud() {
		rows, err := s.base.backend.Select(ctx, tableMonthlyPayments)
		if err != nil {
			return s.base.remoteFailed(ctx, "load", err)
		}
		items := make([]*model.MonthlyPayment, 0, len(rows))
		for _, row := range rows {
			items = append(items, mapper.MonthlyPaymentFromRow(row))
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

// List returns the mirrored payments
func (s *MonthlyPaymentStore) List() []*model.MonthlyPayment {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	return append([]*model.MonthlyPayment(nil), s.items...)
}

// ListByEnrollment returns the mirrored payments of an enrollment
func (s *MonthlyPaymentStore) ListByEnrollment(enrollmentID string) []*model.MonthlyPayment {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	result := make([]*model.MonthlyPayment, 0)
	for _, p := range s.items {
		if p.EnrollmentID == enrollmentID {
			result = append(result, p)
		}
	}
	return result
}

// GetByID returns the mirrored payment with the id
func (s *MonthlyPaymentStore) GetByID(id string) (*model.MonthlyPayment, bool) {
	s.base.mu.RLock()
	defer s.base.mu.RUnlock()
	for _, p := range s.items {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Add records a monthly ledger entry
func (s *MonthlyPaymentStore) Add(ctx context.Context, payment *model.MonthlyPayment) (*model.MonthlyPayment, error) {
	created := *payment
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	if created.Status == "" {
		created.Status = model.MonthlyPaymentPending
	}
	if created.CreatedAt == "" {
		created.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	if s.base.cloud() {
		row := mapper.MonthlyPaymentToRow(&created, s.base.session.OrganizationID())
		if err := s.base.backend.Insert(ctx, tableMonthlyPayments, row); err != nil {
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

// Update applies a partial update to the payment with the id
func (s *MonthlyPaymentStore) Update(ctx context.Context, id string, u *model.MonthlyPaymentUpdate) error {
	existing, ok := s.GetByID(id)
	if !ok {
		s.base.log.WarnContext(ctx, "update of unknown payment ignored", zap.String("id", id))
		return nil
	}

	updated := *existing
	applyMonthlyPaymentUpdate(&updated, u)

	if s.base.cloud() {
		if err := s.base.backend.Update(ctx, tableMonthlyPayments, id, mapper.MonthlyPaymentUpdateToRow(u)); err != nil {
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

// Delete removes the payment with the id
func (s *MonthlyPaymentStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.GetByID(id); !ok {
		s.base.log.WarnContext(ctx, "delete of unknown payment ignored", zap.String("id", id))
		return nil
	}

	if s.base.cloud() {
		if err := s.base.backend.Delete(ctx, tableMonthlyPayments, id); err != nil {
			return s.base.remoteFailed(ctx, "delete", err)
		}
	} else {
		if err := s.local.Delete(id); err != nil {
			return err
		}
	}

	s.base.mu.Lock()
	kept := s.items[:0]
	for _, p := range s.items {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.items = kept
	s.base.mu.Unlock()
	return nil
}

func (s *MonthlyPaymentStore) replace(id string, payment *model.MonthlyPayment) {
	s.base.mu.Lock()
	defer s.base.mu.Unlock()
	for i, p := range s.items {
		if p.ID == id {
			s.items[i] = payment
			return
		}
	}
}

func applyMonthlyPaymentUpdate(p *model.MonthlyPayment, u *model.MonthlyPaymentUpdate) {
	if u.Amount != nil {
		p.Amount = *u.Amount
	}
	if u.PaidAt != nil {
		p.PaidAt = *u.PaidAt
	}
	if u.PaymentMethod != nil {
		p.PaymentMethod = *u.PaymentMethod
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
}
