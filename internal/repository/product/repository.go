package product

import (
	"context"

	"paintshop/internal/domain"
)

// Repository persists catalog products. List returns products in catalog (insertion) order.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
