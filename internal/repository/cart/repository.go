package cart

import (
	"context"

	"paintshop/internal/domain"
)

// Repository stores one versioned cart per owner.
//
// Save writes c if the stored version still equals c.Version (zero meaning "not stored yet")
// and then advances c.Version. A mismatch returns domain.ErrConflict and leaves the store untouched.
type Repository interface {
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)
	Save(ctx context.Context, c *domain.Cart) error
	Delete(ctx context.Context, ownerID string) error
}
