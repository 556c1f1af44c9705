package category

import (
	"context"
	"errors"
	"testing"

	"paintshop/internal/domain"
)

type stubLister struct {
	products []domain.Product
	err      error
}

func (s stubLister) List(context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func TestListCountsPerCategory(t *testing.T) {
	svc := New(stubLister{products: []domain.Product{
		{ID: "a", Category: domain.CategorySprayPaint},
		{ID: "b", Category: domain.CategorySprayPaint},
		{ID: "c", Category: domain.CategoryPrimer},
	}})

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []Summary{
		{Slug: domain.CategorySprayPaint, Name: "Spray paint", ProductCount: 2},
		{Slug: domain.CategoryVarnish, Name: "Varnish", ProductCount: 0},
		{Slug: domain.CategoryPrimer, Name: "Primer", ProductCount: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d summaries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("summary %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestListPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := New(stubLister{err: boom}).List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
