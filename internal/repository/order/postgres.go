package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paintshop/internal/domain"
)

const selectColumns = `id, user_id, email, items, subtotal::text, discount::text, shipping::text, tax::text,
       total_amount::text, promo_code, status, shipping_address, payment_method, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}
	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return nil, err
	}
	q := `
INSERT INTO orders (id, user_id, email, items, subtotal, discount, shipping, tax, total_amount,
                    promo_code, status, shipping_address, payment_method)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9::numeric, $10, $11, $12, $13)
RETURNING ` + selectColumns
	out, err := r.scanOrder(r.pool.QueryRow(ctx, q,
		o.ID, o.UserID, o.Email, items,
		o.Subtotal.String(), o.Discount.String(), o.Shipping.String(), o.Tax.String(), o.TotalAmount.String(),
		o.PromoCode, string(o.Status), address, string(o.PaymentMethod),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("order repo: create", zap.String("id", o.ID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.scanOrder(r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM orders WHERE id = $1`, id))
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *postgresRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		return r.list(ctx, `SELECT `+selectColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	}
	return r.list(ctx, `SELECT `+selectColumns+` FROM orders ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Order{}
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o                                 domain.Order
		items, address                    []byte
		subtotal, discount, shipping, tax string
		total, status, method             string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.Email, &items, &subtotal, &discount, &shipping, &tax,
		&total, &o.PromoCode, &status, &address, &method, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.PaymentMethod = domain.PaymentMethod(method)

	amounts := []struct {
		raw string
		dst *decimal.Decimal
	}{{subtotal, &o.Subtotal}, {discount, &o.Discount}, {shipping, &o.Shipping}, {tax, &o.Tax}, {total, &o.TotalAmount}}
	for _, a := range amounts {
		if *a.dst, err = decimal.NewFromString(a.raw); err != nil {
			return nil, fmt.Errorf("order %s: amount: %w", o.ID, err)
		}
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("order %s: items: %w", o.ID, err)
	}
	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("order %s: address: %w", o.ID, err)
	}
	return &o, nil
}
