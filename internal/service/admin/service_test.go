package admin

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"paintshop/internal/domain"
)

type stubProducts []domain.Product

func (s stubProducts) List(context.Context) ([]domain.Product, error) { return s, nil }

type stubOrders []domain.Order

func (s stubOrders) List(_ context.Context, limit int) ([]domain.Order, error) {
	if limit > 0 && len(s) > limit {
		return s[:limit], nil
	}
	return s, nil
}

var (
	boss  = domain.Actor{User: &domain.User{ID: "admin-1", IsAdmin: true}}
	plain = domain.Actor{User: &domain.User{ID: "user-1"}}
)

func catalog() stubProducts {
	return stubProducts{
		{ID: "sp-001", Name: "Matte Black", Category: domain.CategorySprayPaint, Price: decimal.RequireFromString("899.99"), Inventory: 25},
		{ID: "sp-002", Name: "Silver", Category: domain.CategorySprayPaint, Price: decimal.RequireFromString("999.99"), Inventory: 8},
		{ID: "va-001", Name: "Varnish", Category: domain.CategoryVarnish, Price: decimal.RequireFromString("799.99"), Inventory: 0},
	}
}

func orders(n int) stubOrders {
	out := stubOrders{}
	for i := 0; i < n; i++ {
		out = append(out, domain.Order{ID: string(rune('A' + i)), TotalAmount: decimal.RequireFromString("100.50")})
	}
	return out
}

func TestOverview(t *testing.T) {
	svc := New(catalog(), orders(7), nil)

	ov, err := svc.Overview(context.Background(), boss)
	require.NoError(t, err)
	assert.Equal(t, 3, ov.TotalProducts)
	assert.Equal(t, 1, ov.InStock)
	assert.Equal(t, 1, ov.LowStock)
	assert.Equal(t, 1, ov.OutOfStock)
	assert.Equal(t, "sp-002", ov.LowStockProducts[0].ID)
	assert.Equal(t, "va-001", ov.OutOfStockProducts[0].ID)
	assert.Equal(t, 7, ov.TotalOrders)
	assert.Equal(t, "703.50", ov.Revenue.StringFixed(2))
	assert.Len(t, ov.RecentOrders, RecentOrdersCount)
	assert.Equal(t, "A", ov.RecentOrders[0].ID)
}

func TestAdminOnly(t *testing.T) {
	svc := New(catalog(), orders(1), nil)
	ctx := context.Background()

	_, err := svc.Overview(ctx, plain)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Orders(ctx, domain.Actor{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.ExportCatalog(ctx, plain, &bytes.Buffer{}), domain.ErrForbidden)
}

func TestExportCatalog(t *testing.T) {
	svc := New(catalog(), orders(0), nil)
	var buf bytes.Buffer
	require.NoError(t, svc.ExportCatalog(context.Background(), boss, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Products", sheet.Name)
	require.Len(t, sheet.Rows, 4)

	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	first := sheet.Rows[1].Cells
	assert.Equal(t, "sp-001", first[0].Value)
	assert.Equal(t, "Matte Black", first[1].Value)
	assert.Equal(t, "spray-paint", first[2].Value)
	assert.Equal(t, "899.99", first[3].Value)
	assert.Equal(t, "25", first[5].Value)
	assert.Equal(t, "out-of-stock", sheet.Rows[3].Cells[6].Value)
}
