package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	categorysvc "paintshop/internal/service/category"
)

type productList struct {
	Products []productView `json:"products"`
	Total    int           `json:"total"`
}

func ids(products []productView) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/products", "")
	env.expect(rec, http.StatusOK)
	all := decode[productList](t, rec)
	assert.Equal(t, 8, all.Total)
	assert.Equal(t, "sp-001", all.Products[0].ID)

	rec = env.do(http.MethodGet, "/api/products?category=varnish", "")
	env.expect(rec, http.StatusOK)
	assert.Equal(t, []string{"vn-001", "vn-002"}, ids(decode[productList](t, rec).Products))

	rec = env.do(http.MethodGet, "/api/products?category=varnish,primer", "")
	env.expect(rec, http.StatusOK)
	assert.Len(t, decode[productList](t, rec).Products, 4)

	rec = env.do(http.MethodGet, "/api/products?category=varnish&category=primer", "")
	env.expect(rec, http.StatusOK)
	assert.Len(t, decode[productList](t, rec).Products, 4)

	rec = env.do(http.MethodGet, "/api/products?q=GOLD", "")
	env.expect(rec, http.StatusOK)
	assert.Equal(t, []string{"sp-003"}, ids(decode[productList](t, rec).Products))

	rec = env.do(http.MethodGet, "/api/products?minPrice=1400", "")
	env.expect(rec, http.StatusOK)
	assert.Equal(t, []string{"vn-002"}, ids(decode[productList](t, rec).Products))

	rec = env.do(http.MethodGet, "/api/products?sort=price-low", "")
	env.expect(rec, http.StatusOK)
	sorted := decode[productList](t, rec).Products
	assert.Equal(t, "899.99", sorted[0].Price)
	assert.Equal(t, "1499.99", sorted[len(sorted)-1].Price)
}

func TestListProducts_RejectsBadQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/products?sort=alphabetical", "")
	env.expect(rec, http.StatusBadRequest)
	assert.Contains(t, decode[errorResponse](t, rec).Fields, "sort")

	rec = env.do(http.MethodGet, "/api/products?minPrice=cheap", "")
	env.expect(rec, http.StatusBadRequest)
	assert.Contains(t, decode[errorResponse](t, rec).Fields, "minPrice")

	rec = env.do(http.MethodGet, "/api/products?category=glitter", "")
	env.expect(rec, http.StatusBadRequest)
	assert.Contains(t, decode[errorResponse](t, rec).Fields, "category")
}

func TestFeaturedProducts(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/products/featured", "")
	env.expect(rec, http.StatusOK)
	assert.Equal(t, []string{"sp-001", "sp-002", "sp-003", "vn-001"}, ids(decode[productList](t, rec).Products))
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/products/sp-001", "")
	env.expect(rec, http.StatusOK)
	p := decode[productView](t, rec)
	assert.Equal(t, "899.99", p.Price)
	require.NotNil(t, p.OldPrice)
	assert.Equal(t, "1099.99", *p.OldPrice)
	assert.Equal(t, "Spray paint", p.CategoryName)
	assert.EqualValues(t, "in-stock", p.StockStatus)
	require.NotNil(t, p.Specifications)
	assert.Equal(t, "400ml", p.Specifications.Size)

	rec = env.do(http.MethodGet, "/api/products/sp-002", "")
	env.expect(rec, http.StatusOK)
	assert.EqualValues(t, "low-stock", decode[productView](t, rec).StockStatus)

	env.expect(env.do(http.MethodGet, "/api/products/nope", ""), http.StatusNotFound)
}

func TestRelatedProducts(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/products/sp-001/related", "")
	env.expect(rec, http.StatusOK)
	assert.Equal(t, []string{"sp-002", "sp-003", "sp-004"}, ids(decode[productList](t, rec).Products))

	env.expect(env.do(http.MethodGet, "/api/products/nope/related", ""), http.StatusNotFound)
}

func TestListCategories(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/categories", "")
	env.expect(rec, http.StatusOK)
	body := decode[struct {
		Categories []categorysvc.Summary `json:"categories"`
	}](t, rec)
	require.Len(t, body.Categories, 3)
	assert.EqualValues(t, "spray-paint", body.Categories[0].Slug)
	assert.Equal(t, 4, body.Categories[0].ProductCount)
	assert.Equal(t, 2, body.Categories[1].ProductCount)
	assert.Equal(t, 2, body.Categories[2].ProductCount)
}
