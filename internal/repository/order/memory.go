package order

import (
	"context"
	"sync"
	"time"

	"paintshop/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	orders []domain.Order
}

func NewMemory() Repository {
	return &memoryRepo{}
}

func (r *memoryRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.ID == o.ID {
			return nil, domain.ErrAlreadyExists
		}
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	r.orders = append(r.orders, o)
	return &o, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			o.Items = append([]domain.OrderItem(nil), o.Items...)
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.collect(0, func(o domain.Order) bool { return o.UserID == userID }), nil
}

func (r *memoryRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	return r.collect(limit, func(domain.Order) bool { return true }), nil
}

// collect walks from newest to oldest.
func (r *memoryRepo) collect(limit int, keep func(domain.Order) bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Order{}
	for i := len(r.orders) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		o := r.orders[i]
		if !keep(o) {
			continue
		}
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, o)
	}
	return out
}
