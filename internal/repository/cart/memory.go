package cart

import (
	"context"
	"sync"
	"time"

	"paintshop/internal/domain"
)

type memoryRepo struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewMemory() Repository {
	return &memoryRepo{carts: make(map[string]*domain.Cart)}
}

func (r *memoryRepo) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *memoryRepo) Save(ctx context.Context, c *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := 0
	if stored, ok := r.carts[c.OwnerID]; ok {
		current = stored.Version
	}
	if current != c.Version {
		return domain.ErrConflict
	}
	c.Version++
	c.UpdatedAt = time.Now().UTC()
	r.carts[c.OwnerID] = c.Clone()
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, ownerID string) error {
	r.mu.Lock()
	delete(r.carts, ownerID)
	r.mu.Unlock()
	return nil
}
