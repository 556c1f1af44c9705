package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"paintshop/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	c := domain.NewCart(ownerID)
	err := r.pool.QueryRow(ctx, `
SELECT promo_code, version, updated_at
FROM carts
WHERE owner_id = $1
`, ownerID).Scan(&c.PromoCode, &c.Version, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
SELECT product_id, color, name, price::text, quantity, image
FROM cart_lines
WHERE owner_id = $1
ORDER BY position
`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		var price string
		if err := rows.Scan(&line.ProductID, &line.Color, &line.Name, &price, &line.Quantity, &line.Image); err != nil {
			return nil, err
		}
		if line.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("cart %s: line price: %w", ownerID, err)
		}
		c.Lines = append(c.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Save(ctx context.Context, c *domain.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	if c.Version == 0 {
		cmd, err := tx.Exec(ctx, `
INSERT INTO carts (owner_id, promo_code, version, updated_at)
VALUES ($1, $2, 1, $3)
ON CONFLICT (owner_id) DO NOTHING
`, c.OwnerID, c.PromoCode, now)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrConflict
		}
	} else {
		cmd, err := tx.Exec(ctx, `
UPDATE carts
SET promo_code = $1, version = version + 1, updated_at = $2
WHERE owner_id = $3 AND version = $4
`, c.PromoCode, now, c.OwnerID, c.Version)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrConflict
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE owner_id = $1`, c.OwnerID); err != nil {
		return err
	}
	for i, line := range c.Lines {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (owner_id, position, product_id, color, name, price, quantity, image)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
`, c.OwnerID, i, line.ProductID, line.Color, line.Name, line.Price.String(), line.Quantity, line.Image); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	c.Version++
	c.UpdatedAt = now
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE owner_id = $1`, ownerID)
	return err
}
