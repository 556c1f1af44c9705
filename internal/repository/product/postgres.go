package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paintshop/internal/domain"
)

const selectColumns = `id, name, description, full_description, price::text, old_price::text, category, inventory,
       rating, reviews, colors, images, features, specifications, created_at`

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + selectColumns + ` FROM products ORDER BY seq`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + selectColumns + ` FROM products WHERE id = $1`
	p, err := r.scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Debug("product repo: get not found", zap.String("id", id))
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	colors, images, features, err := encodeLists(p)
	if err != nil {
		return nil, err
	}
	var spec []byte
	if p.Specifications != nil {
		if spec, err = json.Marshal(p.Specifications); err != nil {
			return nil, err
		}
	}
	var oldPrice *string
	if p.OldPrice != nil {
		s := p.OldPrice.String()
		oldPrice = &s
	}
	var createdAt any
	if !p.CreatedAt.IsZero() {
		createdAt = p.CreatedAt
	}

	q := `
INSERT INTO products (id, name, description, full_description, price, old_price, category, inventory,
                      rating, reviews, colors, images, features, specifications, created_at)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9, $10, $11, $12, $13, $14, COALESCE($15::timestamptz, now()))
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    full_description = EXCLUDED.full_description,
    price = EXCLUDED.price,
    old_price = EXCLUDED.old_price,
    category = EXCLUDED.category,
    inventory = EXCLUDED.inventory,
    rating = EXCLUDED.rating,
    reviews = EXCLUDED.reviews,
    colors = EXCLUDED.colors,
    images = EXCLUDED.images,
    features = EXCLUDED.features,
    specifications = EXCLUDED.specifications
RETURNING ` + selectColumns

	out, err := r.scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.Name, p.Description, p.FullDescription, p.Price.String(), oldPrice, string(p.Category), p.Inventory,
		p.Rating, p.Reviews, colors, images, features, spec, createdAt,
	))
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("id", p.ID), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p                        domain.Product
		price                    string
		oldPrice                 *string
		category                 string
		colors, images, features []byte
		spec                     []byte
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.FullDescription, &price, &oldPrice, &category, &p.Inventory,
		&p.Rating, &p.Reviews, &colors, &images, &features, &spec, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Category = domain.Category(category)
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("product %s: price: %w", p.ID, err)
	}
	if oldPrice != nil {
		d, err := decimal.NewFromString(*oldPrice)
		if err != nil {
			return nil, fmt.Errorf("product %s: old price: %w", p.ID, err)
		}
		p.OldPrice = &d
	}
	for _, f := range []struct {
		raw []byte
		dst *[]string
	}{{colors, &p.Colors}, {images, &p.Images}, {features, &p.Features}} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			r.logger.Error("product repo: decode list", zap.String("id", p.ID), zap.Error(err))
			return nil, err
		}
	}
	if len(spec) > 0 {
		var s domain.Specifications
		if err := json.Unmarshal(spec, &s); err != nil {
			return nil, err
		}
		p.Specifications = &s
	}
	return &p, nil
}

func encodeLists(p domain.Product) (colors, images, features []byte, err error) {
	enc := func(v []string) ([]byte, error) {
		if v == nil {
			v = []string{}
		}
		return json.Marshal(v)
	}
	if colors, err = enc(p.Colors); err != nil {
		return
	}
	if images, err = enc(p.Images); err != nil {
		return
	}
	features, err = enc(p.Features)
	return
}
