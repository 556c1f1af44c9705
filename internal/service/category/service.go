package category

import (
	"context"

	"paintshop/internal/domain"
)

type productLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Summary describes one category for navigation.
type Summary struct {
	Slug         domain.Category `json:"slug"`
	Name         string          `json:"name"`
	ProductCount int             `json:"productCount"`
}

type Service struct {
	products productLister
}

func New(products productLister) *Service {
	return &Service{products: products}
}

// List returns every category in display order, including empty ones.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.Category]int)
	for _, p := range products {
		counts[p.Category]++
	}
	out := make([]Summary, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		out = append(out, Summary{Slug: c, Name: c.DisplayName(), ProductCount: counts[c]})
	}
	return out, nil
}
