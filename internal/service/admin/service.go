// Package admin serves the store back office: the dashboard figures, the order list and the catalog export.
package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"paintshop/internal/domain"
)

const RecentOrdersCount = 5

type productLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

type orderLister interface {
	List(ctx context.Context, limit int) ([]domain.Order, error)
}

type Service struct {
	products productLister
	orders   orderLister
	logger   *zap.Logger
}

func New(products productLister, orders orderLister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{products: products, orders: orders, logger: logger}
}

type Overview struct {
	TotalProducts      int              `json:"totalProducts"`
	InStock            int              `json:"inStock"`
	LowStock           int              `json:"lowStock"`
	OutOfStock         int              `json:"outOfStock"`
	TotalOrders        int              `json:"totalOrders"`
	Revenue            decimal.Decimal  `json:"revenue"`
	LowStockProducts   []domain.Product `json:"lowStockProducts"`
	OutOfStockProducts []domain.Product `json:"outOfStockProducts"`
	RecentOrders       []domain.Order   `json:"recentOrders"`
}

// Overview counts products by stock status and sums revenue over every order.
func (s *Service) Overview(ctx context.Context, actor domain.Actor) (*Overview, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	ov := &Overview{
		TotalProducts:      len(products),
		TotalOrders:        len(orders),
		Revenue:            decimal.Zero,
		LowStockProducts:   []domain.Product{},
		OutOfStockProducts: []domain.Product{},
	}
	for _, p := range products {
		switch p.StockStatus() {
		case domain.StockIn:
			ov.InStock++
		case domain.StockLow:
			ov.LowStock++
			ov.LowStockProducts = append(ov.LowStockProducts, p)
		case domain.StockOut:
			ov.OutOfStock++
			ov.OutOfStockProducts = append(ov.OutOfStockProducts, p)
		}
	}
	for _, o := range orders {
		ov.Revenue = ov.Revenue.Add(o.TotalAmount)
	}
	if len(orders) > RecentOrdersCount {
		orders = orders[:RecentOrdersCount]
	}
	ov.RecentOrders = orders
	return ov, nil
}

// Orders lists every order, newest first.
func (s *Service) Orders(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.orders.List(ctx, 0)
}

var exportHeaders = []string{
	"ID", "Name", "Category", "Price", "Old price", "Inventory", "Stock status",
	"Rating", "Reviews", "Colors", "Created at",
}

// ExportCatalog writes every product as an xlsx workbook with one sheet.
func (s *Service) ExportCatalog(ctx context.Context, actor domain.Actor, w io.Writer) error {
	if err := domain.RequireAdmin(actor); err != nil {
		return err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(string(p.Category))
		row.AddCell().SetString(p.Price.StringFixed(2))
		if p.OldPrice != nil {
			row.AddCell().SetString(p.OldPrice.StringFixed(2))
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetInt(p.Inventory)
		row.AddCell().SetString(string(p.StockStatus()))
		row.AddCell().SetFloat(p.Rating)
		row.AddCell().SetInt(p.Reviews)
		row.AddCell().SetString(strings.Join(p.Colors, ", "))
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("catalog exported", zap.Int("products", len(products)), zap.String("by", actor.User.ID))
	return nil
}
