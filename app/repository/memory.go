package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vibast-solutions/ms-go-sbp-checkout/app/entity"
)

// MemoryPaymentStore keeps payments for the lifetime of the process. Records
// are copied on the way in and out so callers never share mutable state with
// the store.
type MemoryPaymentStore struct {
	mu          sync.RWMutex
	payments    map[string]*entity.Payment
	externalIDs map[string]string
}

func NewMemoryPaymentStore() *MemoryPaymentStore {
	return &MemoryPaymentStore{
		payments:    make(map[string]*entity.Payment),
		externalIDs: make(map[string]string),
	}
}

func (s *MemoryPaymentStore) Save(_ context.Context, payment *entity.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, ok := s.payments[payment.ID]; ok && previous.ExternalID != nil {
		if s.externalIDs[*previous.ExternalID] == payment.ID {
			delete(s.externalIDs, *previous.ExternalID)
		}
	}

	item := payment.Clone()
	s.payments[item.ID] = item
	if item.ExternalID != nil && *item.ExternalID != "" {
		s.externalIDs[*item.ExternalID] = item.ID
	}

	return nil
}

func (s *MemoryPaymentStore) FindByID(_ context.Context, id string) (*entity.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.payments[id].Clone(), nil
}

func (s *MemoryPaymentStore) FindByExternalID(_ context.Context, externalID string) (*entity.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.externalIDs[externalID]
	if !ok {
		return nil, nil
	}
	return s.payments[id].Clone(), nil
}

func (s *MemoryPaymentStore) UpdateStatus(_ context.Context, id string, status entity.PaymentStatus) (*entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	applyStatus(payment, status)
	return payment.Clone(), nil
}

func (s *MemoryPaymentStore) UpdateStatusFrom(_ context.Context, id string, from, to entity.PaymentStatus) (*entity.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[id]
	if !ok {
		return nil, nil
	}
	if payment.Status != from {
		return nil, ErrStatusConflict
	}
	applyStatus(payment, to)
	return payment.Clone(), nil
}

func (s *MemoryPaymentStore) ListStale(_ context.Context, statuses []entity.PaymentStatus, updatedBefore time.Time, limit int32) ([]*entity.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*entity.Payment, 0)
	for _, payment := range s.payments {
		if payment.ExternalID == nil || payment.UpdatedAt.After(updatedBefore) {
			continue
		}
		if !containsStatus(statuses, payment.Status) {
			continue
		}
		items = append(items, payment.Clone())
	}
	sort.Slice(items, func(i, j int) bool { return items[i].UpdatedAt.Before(items[j].UpdatedAt) })

	if limit > 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (s *MemoryPaymentStore) GetAll(_ context.Context) ([]*entity.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*entity.Payment, 0, len(s.payments))
	for _, payment := range s.payments {
		items = append(items, payment.Clone())
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func applyStatus(payment *entity.Payment, status entity.PaymentStatus) {
	now := time.Now().UTC()
	if now.Before(payment.CreatedAt) {
		now = payment.CreatedAt
	}
	payment.Status = status
	payment.UpdatedAt = now
}

func containsStatus(statuses []entity.PaymentStatus, status entity.PaymentStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
