package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paintshop/internal/domain"
	productrepo "paintshop/internal/repository/product"
)

func TestCatalog(t *testing.T) {
	products, err := Catalog()
	require.NoError(t, err)
	require.Len(t, products, 8)

	first := products[0]
	assert.Equal(t, "sp-001", first.ID)
	assert.Equal(t, "899.99", first.Price.StringFixed(2))
	require.NotNil(t, first.OldPrice)
	assert.Equal(t, "1099.99", first.OldPrice.StringFixed(2))
	require.NotNil(t, first.Specifications)
	assert.Equal(t, "400ml", first.Specifications.Size)
	assert.Equal(t, 2023, first.CreatedAt.Year())

	second := products[1]
	assert.Nil(t, second.OldPrice)
	assert.Nil(t, second.Specifications)
	assert.Equal(t, domain.StockLow, second.StockStatus())

	for _, p := range products {
		assert.True(t, p.Category.Valid(), p.ID)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, err := Parse([]byte("products:\n  - id: x\n    name: X\n    price: \"1\"\n    category: glitter\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("products:\n  - id: x\n    name: X\n    price: cheap\n    category: primer\n"))
	assert.Error(t, err)

	dup := "products:\n  - {id: x, name: X, price: \"1\", category: primer}\n  - {id: x, name: Y, price: \"2\", category: primer}\n"
	_, err = Parse([]byte(dup))
	assert.Error(t, err)
}

func TestApplyIsIdempotent(t *testing.T) {
	repo := productrepo.NewMemory(nil)
	ctx := context.Background()

	n, err := Apply(ctx, repo, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	_, err = Apply(ctx, repo, nil)
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8)
	assert.Equal(t, "sp-001", all[0].ID)
	assert.Equal(t, "sp-004", all[7].ID)
}
