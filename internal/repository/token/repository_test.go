package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"paintshop/internal/dbtest"
	"paintshop/internal/domain"
)

func TestMemory_Contract(t *testing.T) {
	runContract(t, NewMemory())
}

func TestPostgres_Contract(t *testing.T) {
	runContract(t, NewPostgres(dbtest.Pool(t)))
}

func TestMemory_PrunesExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory().(*memoryRepo)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	if err := repo.Create(ctx, Token{ID: "old", UserID: "u", Kind: KindSession, ExpiresAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	now = now.Add(time.Hour)
	if err := repo.Create(ctx, Token{ID: "new", UserID: "u", Kind: KindSession, ExpiresAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Get(ctx, "old"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired token to be pruned, got %v", err)
	}
}

func runContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	if err := repo.Create(ctx, Token{ID: "jti-1", UserID: "user-1", Kind: KindSession, ExpiresAt: exp}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, Token{ID: "jti-1", UserID: "user-1", Kind: KindSession, ExpiresAt: exp}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.Get(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != "user-1" || got.Kind != KindSession || !got.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected token %+v", got)
	}

	if err := repo.Delete(ctx, "jti-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "jti-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	soon := exp
	later := exp.Add(2 * time.Hour)
	_ = repo.Create(ctx, Token{ID: "jti-soon", UserID: "user-1", Kind: KindSession, ExpiresAt: soon})
	_ = repo.Create(ctx, Token{ID: "jti-later", UserID: "user-1", Kind: KindSession, ExpiresAt: later})
	n, err := repo.DeleteExpired(ctx, soon.Add(time.Hour))
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired token removed, got %d", n)
	}
	if _, err := repo.Get(ctx, "jti-soon"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired token gone, got %v", err)
	}
	if _, err := repo.Get(ctx, "jti-later"); err != nil {
		t.Fatalf("expected live token kept, got %v", err)
	}
}
