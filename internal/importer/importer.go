package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paintshop/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV files and inserts/updates products.
//
// The header row names the columns: id, name, description, full_description, price,
// old_price, category, inventory, colors, images, features. List columns are
// separated by ";". A row with an empty id and a non-empty images column adds
// images to the preceding product.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	logger      *zap.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *zap.Logger) *CSVImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		logger:      logger,
	}
}

type csvRow struct {
	line      int
	ID        string
	Name      string
	Desc      string
	FullDesc  string
	Price     string
	OldPrice  string
	Category  string
	Inventory string
	Colors    []string
	Images    []string
	Features  []string
}

// Run parses CSV rows and upserts one product per id row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["id"]; !ok {
		return 0, errors.New("read headers: missing id column")
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.line = line

		if row.ID != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil {
			current.Images = append(current.Images, row.Images...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	i.logger.Info("catalog imported", zap.Int("products", imported))
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	p, err := row.product()
	if err != nil {
		return fmt.Errorf("line %d: %w", row.line, err)
	}
	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.ID, err)
	}
	i.logger.Debug("product imported", zap.String("id", p.ID))
	return nil
}

func (row *csvRow) product() (domain.Product, error) {
	if row.Name == "" || row.Price == "" || row.Category == "" {
		return domain.Product{}, fmt.Errorf("invalid product row (missing required fields) for id %q", row.ID)
	}
	category := domain.Category(row.Category)
	if !category.Valid() {
		return domain.Product{}, fmt.Errorf("unknown category %q for id %q", row.Category, row.ID)
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.IsNegative() {
		return domain.Product{}, fmt.Errorf("invalid price %q for id %q", row.Price, row.ID)
	}
	inventory := 0
	if row.Inventory != "" {
		inventory, err = strconv.Atoi(row.Inventory)
		if err != nil || inventory < 0 {
			return domain.Product{}, fmt.Errorf("invalid inventory %q for id %q", row.Inventory, row.ID)
		}
	}

	p := domain.Product{
		ID:              row.ID,
		Name:            row.Name,
		Description:     row.Desc,
		FullDescription: row.FullDesc,
		Price:           price,
		Category:        category,
		Inventory:       inventory,
		Colors:          row.Colors,
		Images:          row.Images,
		Features:        row.Features,
	}
	if row.OldPrice != "" {
		old, err := decimal.NewFromString(row.OldPrice)
		if err != nil || old.IsNegative() {
			return domain.Product{}, fmt.Errorf("invalid old price %q for id %q", row.OldPrice, row.ID)
		}
		p.OldPrice = &old
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	id := pick(record, index, "id")
	images := splitList(pick(record, index, "images"))

	if id == "" && len(images) == 0 {
		return nil
	}

	return &csvRow{
		ID:        id,
		Name:      pick(record, index, "name"),
		Desc:      pick(record, index, "description"),
		FullDesc:  pick(record, index, "full_description"),
		Price:     pick(record, index, "price"),
		OldPrice:  pick(record, index, "old_price"),
		Category:  pick(record, index, "category"),
		Inventory: pick(record, index, "inventory"),
		Colors:    splitList(pick(record, index, "colors")),
		Images:    images,
		Features:  splitList(pick(record, index, "features")),
	}
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
