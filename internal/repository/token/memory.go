package token

import (
	"context"
	"sync"
	"time"

	"paintshop/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	tokens map[string]Token
	now    func() time.Time
}

func NewMemory() Repository {
	return &memoryRepo{tokens: make(map[string]Token), now: time.Now}
}

func (r *memoryRepo) Create(ctx context.Context, token Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token.ID]; ok {
		return domain.ErrAlreadyExists
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.now().UTC()
	}
	r.tokens[token.ID] = token
	r.pruneLocked()
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (*Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, id)
	return nil
}

func (r *memoryRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteExpiredLocked(now), nil
}

// pruneLocked drops records of abandoned sessions on every write.
func (r *memoryRepo) pruneLocked() {
	r.deleteExpiredLocked(r.now())
}

func (r *memoryRepo) deleteExpiredLocked(now time.Time) int {
	n := 0
	for id, t := range r.tokens {
		if now.After(t.ExpiresAt) {
			delete(r.tokens, id)
			n++
		}
	}
	return n
}
