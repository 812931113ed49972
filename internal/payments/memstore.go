package payments

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryStore keeps payments in process. Records are cloned on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	payments map[int64]*Payment
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		payments: make(map[int64]*Payment),
	}
}

func (s *MemoryStore) FindAll(_ context.Context) ([]*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Payment, 0, len(s.payments))
	for _, p := range s.payments {
		result = append(result, p.clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return p.clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, p *Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	s.payments[p.ID] = p.clone()
	return nil
}

func (s *MemoryStore) MarkCancelled(_ context.Context, p *Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.payments[p.ID]
	if !ok {
		return ErrPaymentNotFound
	}
	if stored.Cancelled {
		return ErrAlreadyCancelled
	}

	updated := p.clone()
	stored.Cancelled = true
	stored.CancellationFee = updated.CancellationFee
	stored.CancellationTime = updated.CancellationTime
	return nil
}

func (s *MemoryStore) UpdateNotificationStatus(_ context.Context, id int64, status NotificationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.payments[id]
	if !ok {
		return ErrPaymentNotFound
	}
	stored.NotificationStatus = status
	return nil
}

func (s *MemoryStore) NotCancelledIDs(_ context.Context, min, max *decimal.Decimal) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []int64{}
	for id, p := range s.payments {
		if p.Cancelled {
			continue
		}
		if min != nil && p.Money.Amount.LessThan(*min) {
			continue
		}
		if max != nil && p.Money.Amount.GreaterThan(*max) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemoryStore) CancellationInfo(_ context.Context, id int64) (*CancellationInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}

	info := &CancellationInfo{ID: p.ID}
	if p.CancellationFee != nil {
		fee := *p.CancellationFee
		info.CancellationFee = &fee
	}
	return info, nil
}
