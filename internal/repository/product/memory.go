package product

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"paintshop/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	order  []string
	byID   map[string]domain.Product
	logger *zap.Logger
}

// NewMemory returns a Repository kept in process memory.
func NewMemory(logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &memoryRepo{byID: make(map[string]domain.Product), logger: logger}
}

func (r *memoryRepo) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clone(r.byID[id]))
	}
	return out, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = clone(p)
	return &p, nil
}

func (r *memoryRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[p.ID]; ok {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = existing.CreatedAt
		}
	} else {
		r.order = append(r.order, p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.byID[p.ID] = clone(p)
	r.logger.Debug("product upserted", zap.String("id", p.ID))
	return &p, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func clone(p domain.Product) domain.Product {
	p.Colors = append([]string(nil), p.Colors...)
	p.Images = append([]string(nil), p.Images...)
	p.Features = append([]string(nil), p.Features...)
	if p.OldPrice != nil {
		old := *p.OldPrice
		p.OldPrice = &old
	}
	if p.Specifications != nil {
		spec := *p.Specifications
		p.Specifications = &spec
	}
	return p
}
