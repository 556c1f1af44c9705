package order

import (
	"context"

	"paintshop/internal/domain"
)

// Repository stores orders. Listings are newest first.
type Repository interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// List returns at most limit orders; limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.Order, error)
}
