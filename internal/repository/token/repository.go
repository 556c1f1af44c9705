package token

import (
	"context"
	"time"
)

const KindSession = "session"

// Token records an issued session token by its id (the JWT "jti").
// Deleting the record revokes the token.
type Token struct {
	ID        string
	UserID    string
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, id string) (*Token, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes records that expired before now and reports how many went.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
