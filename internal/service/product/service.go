package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paintshop/internal/domain"
	productrepo "paintshop/internal/repository/product"
	"paintshop/internal/validation"
)

const (
	DefaultFeaturedCount = 4
	DefaultRelatedCount  = 4
)

// Sort orders accepted by Search.
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
)

type Service struct {
	repo     productrepo.Repository
	logger   *zap.Logger
	featured int
	latency  time.Duration
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFeaturedCount sets how many leading catalog products ListFeatured returns.
func WithFeaturedCount(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.featured = n
		}
	}
}

// WithLatency delays every catalog read by d.
func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

func New(repo productrepo.Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		logger:   zap.NewNop(),
		featured: DefaultFeaturedCount,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(p domain.Product) bool { return p.Category == category }), nil
}

// ListFeatured returns the first N products in catalog order.
func (s *Service) ListFeatured(ctx context.Context) ([]domain.Product, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) > s.featured {
		all = all[:s.featured]
	}
	return all, nil
}

// Related returns up to DefaultRelatedCount other products from the same category.
func (s *Service) Related(ctx context.Context, id string) ([]domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	same, err := s.ListByCategory(ctx, p.Category)
	if err != nil {
		return nil, err
	}
	out := filter(same, func(o domain.Product) bool { return o.ID != p.ID })
	if len(out) > DefaultRelatedCount {
		out = out[:DefaultRelatedCount]
	}
	return out, nil
}

// Query filters the storefront listing. Empty fields do not filter.
type Query struct {
	Categories []domain.Category
	Text       string
	Sort       string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

func (q Query) validate() error {
	verr := &domain.ValidationError{Fields: map[string]string{}}
	for _, c := range q.Categories {
		if !c.Valid() {
			verr.Fields["category"] = fmt.Sprintf("unknown category %q", c)
		}
	}
	switch q.Sort {
	case "", SortFeatured, SortPriceLow, SortPriceHigh, SortNewest:
	default:
		verr.Fields["sort"] = "must be one of: featured, price-low, price-high, newest"
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		verr.Fields["minPrice"] = "must not exceed maxPrice"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Search applies Query to the catalog. Text matches name or description, case-insensitively.
func (s *Service) Search(ctx context.Context, q Query) ([]domain.Product, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := filter(all, func(p domain.Product) bool {
		if len(q.Categories) > 0 && !containsCategory(q.Categories, p.Category) {
			return false
		}
		if text != "" && !contains(p.Name, text) && !contains(p.Description, text) {
			return false
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			return false
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			return false
		}
		return true
	})

	switch q.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

// AdminQuery filters the admin product table.
type AdminQuery struct {
	Text     string
	Category domain.Category
	Stock    domain.StockStatus
}

// AdminSearch matches Text against name, description and id.
func (s *Service) AdminSearch(ctx context.Context, actor domain.Actor, q AdminQuery) ([]domain.Product, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if q.Category != "" && !q.Category.Valid() {
		return nil, domain.NewValidationError("category", fmt.Sprintf("unknown category %q", q.Category))
	}
	switch q.Stock {
	case "", domain.StockIn, domain.StockLow, domain.StockOut:
	default:
		return nil, domain.NewValidationError("stock", "must be one of: in-stock, low-stock, out-of-stock")
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	return filter(all, func(p domain.Product) bool {
		if text != "" && !contains(p.Name, text) && !contains(p.Description, text) && !contains(p.ID, text) {
			return false
		}
		if q.Category != "" && p.Category != q.Category {
			return false
		}
		return p.MatchesStock(q.Stock)
	}), nil
}

// Input is the full set of editable product fields.
type Input struct {
	Name            string                 `json:"name" validate:"notblank"`
	Description     string                 `json:"description" validate:"notblank"`
	FullDescription string                 `json:"fullDescription"`
	Price           decimal.Decimal        `json:"price"`
	OldPrice        *decimal.Decimal       `json:"oldPrice,omitempty"`
	Category        domain.Category        `json:"category" validate:"category"`
	Inventory       int                    `json:"inventory" validate:"gte=0"`
	Rating          float64                `json:"rating" validate:"gte=0,lte=5"`
	Reviews         int                    `json:"reviews" validate:"gte=0"`
	Colors          []string               `json:"colors"`
	Images          []string               `json:"images"`
	Features        []string               `json:"features"`
	Specifications  *domain.Specifications `json:"specifications,omitempty"`
}

func (in Input) validate() error {
	err := validation.Struct(in)
	var verr *domain.ValidationError
	if err != nil && !errors.As(err, &verr) {
		return err
	}
	if verr == nil {
		verr = &domain.ValidationError{Fields: map[string]string{}}
	}
	if in.Price.IsNegative() {
		verr.Fields["price"] = "must be greater than or equal to 0"
	}
	if in.OldPrice != nil && in.OldPrice.IsNegative() {
		verr.Fields["oldPrice"] = "must be greater than or equal to 0"
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Nullable is a patch field for an optional attribute. A key absent from the JSON
// leaves Set false; an explicit null sets it with a nil Value, which clears the attribute.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some returns a Nullable carrying v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable that clears the attribute.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Patch carries the fields an update changes; nil or unset means unchanged.
type Patch struct {
	Name            *string                         `json:"name"`
	Description     *string                         `json:"description"`
	FullDescription *string                         `json:"fullDescription"`
	Price           *decimal.Decimal                `json:"price"`
	OldPrice        Nullable[decimal.Decimal]       `json:"oldPrice"`
	Category        *domain.Category                `json:"category"`
	Inventory       *int                            `json:"inventory"`
	Rating          *float64                        `json:"rating"`
	Reviews         *int                            `json:"reviews"`
	Colors          []string                        `json:"colors"`
	Images          []string                        `json:"images"`
	Features        []string                        `json:"features"`
	Specifications  Nullable[domain.Specifications] `json:"specifications"`
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, in Input) (*domain.Product, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	id, err := s.newID(ctx)
	if err != nil {
		return nil, err
	}
	p := fromInput(in)
	p.ID = id
	p.CreatedAt = s.now().UTC()
	created, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("id", created.ID), zap.String("by", actor.User.ID))
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor domain.Actor, id string, patch Patch) (*domain.Product, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in := toInput(*current)
	applyPatch(&in, patch)
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := fromInput(in)
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	updated, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product updated", zap.String("id", id), zap.String("by", actor.User.ID))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := domain.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("id", id), zap.String("by", actor.User.ID))
	return nil
}

func (s *Service) newID(ctx context.Context) (string, error) {
	for i := 0; i < 5; i++ {
		id := "prod-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
		_, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not allocate product id")
}

func (s *Service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func fromInput(in Input) domain.Product {
	return domain.Product{
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		FullDescription: in.FullDescription,
		Price:           in.Price,
		OldPrice:        in.OldPrice,
		Category:        in.Category,
		Inventory:       in.Inventory,
		Rating:          in.Rating,
		Reviews:         in.Reviews,
		Colors:          in.Colors,
		Images:          in.Images,
		Features:        in.Features,
		Specifications:  in.Specifications,
	}
}

func toInput(p domain.Product) Input {
	return Input{
		Name:            p.Name,
		Description:     p.Description,
		FullDescription: p.FullDescription,
		Price:           p.Price,
		OldPrice:        p.OldPrice,
		Category:        p.Category,
		Inventory:       p.Inventory,
		Rating:          p.Rating,
		Reviews:         p.Reviews,
		Colors:          p.Colors,
		Images:          p.Images,
		Features:        p.Features,
		Specifications:  p.Specifications,
	}
}

func applyPatch(in *Input, p Patch) {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.FullDescription != nil {
		in.FullDescription = *p.FullDescription
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	if p.OldPrice.Set {
		in.OldPrice = p.OldPrice.Value
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Inventory != nil {
		in.Inventory = *p.Inventory
	}
	if p.Rating != nil {
		in.Rating = *p.Rating
	}
	if p.Reviews != nil {
		in.Reviews = *p.Reviews
	}
	if p.Colors != nil {
		in.Colors = p.Colors
	}
	if p.Images != nil {
		in.Images = p.Images
	}
	if p.Features != nil {
		in.Features = p.Features
	}
	if p.Specifications.Set {
		in.Specifications = p.Specifications.Value
	}
}

func filter(in []domain.Product, keep func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func contains(field, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(field), lowerNeedle)
}

func containsCategory(set []domain.Category, c domain.Category) bool {
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}
