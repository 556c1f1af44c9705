package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"paintshop/internal/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type specSeed struct {
	Size        string `yaml:"size"`
	Coverage    string `yaml:"coverage"`
	DryTime     string `yaml:"dryTime"`
	Finish      string `yaml:"finish"`
	Application string `yaml:"application"`
	Use         string `yaml:"use"`
}

type productSeed struct {
	ID              string    `yaml:"id"`
	Name            string    `yaml:"name"`
	Description     string    `yaml:"description"`
	FullDescription string    `yaml:"fullDescription"`
	Price           string    `yaml:"price"`
	OldPrice        string    `yaml:"oldPrice"`
	Category        string    `yaml:"category"`
	Inventory       int       `yaml:"inventory"`
	Rating          float64   `yaml:"rating"`
	Reviews         int       `yaml:"reviews"`
	Colors          []string  `yaml:"colors"`
	Images          []string  `yaml:"images"`
	Features        []string  `yaml:"features"`
	Specifications  *specSeed `yaml:"specifications"`
	CreatedAt       time.Time `yaml:"createdAt"`
}

type catalogFile struct {
	Products []productSeed `yaml:"products"`
}

// Catalog decodes the embedded catalog in file order.
func Catalog() ([]domain.Product, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalog document.
func Parse(data []byte) ([]domain.Product, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	out := make([]domain.Product, 0, len(file.Products))
	seen := make(map[string]bool, len(file.Products))
	for _, s := range file.Products {
		p, err := s.product()
		if err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("product %s: duplicate id", p.ID)
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out, nil
}

// Apply upserts the embedded catalog. It is idempotent.
func Apply(ctx context.Context, w ProductWriter, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	products, err := Catalog()
	if err != nil {
		return 0, err
	}
	for _, p := range products {
		if _, err := w.Upsert(ctx, p); err != nil {
			return 0, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	logger.Info("catalog seeded", zap.Int("products", len(products)))
	return len(products), nil
}

func (s productSeed) product() (domain.Product, error) {
	if s.ID == "" || s.Name == "" {
		return domain.Product{}, fmt.Errorf("product %q: id and name are required", s.ID)
	}
	category := domain.Category(s.Category)
	if !category.Valid() {
		return domain.Product{}, fmt.Errorf("product %s: unknown category %q", s.ID, s.Category)
	}
	price, err := decimal.NewFromString(s.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: price: %w", s.ID, err)
	}
	p := domain.Product{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		FullDescription: s.FullDescription,
		Price:           price,
		Category:        category,
		Inventory:       s.Inventory,
		Rating:          s.Rating,
		Reviews:         s.Reviews,
		Colors:          s.Colors,
		Images:          s.Images,
		Features:        s.Features,
		CreatedAt:       s.CreatedAt,
	}
	if s.OldPrice != "" {
		old, err := decimal.NewFromString(s.OldPrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %s: old price: %w", s.ID, err)
		}
		p.OldPrice = &old
	}
	if s.Specifications != nil {
		p.Specifications = &domain.Specifications{
			Size:        s.Specifications.Size,
			Coverage:    s.Specifications.Coverage,
			DryTime:     s.Specifications.DryTime,
			Finish:      s.Specifications.Finish,
			Application: s.Specifications.Application,
			Use:         s.Specifications.Use,
		}
	}
	return p, nil
}
