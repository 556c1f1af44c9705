package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductStockStatus(t *testing.T) {
	cases := []struct {
		inventory int
		want      StockStatus
	}{
		{0, StockOut},
		{1, StockLow},
		{10, StockLow},
		{11, StockIn},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Product{Inventory: tc.inventory}.StockStatus(), "inventory %d", tc.inventory)
	}
}

func TestProductMatchesStock(t *testing.T) {
	low := Product{Inventory: 5}
	assert.True(t, low.MatchesStock(StockIn))
	assert.True(t, low.MatchesStock(StockLow))
	assert.False(t, low.MatchesStock(StockOut))
	assert.True(t, low.MatchesStock(""))
	assert.True(t, Product{}.MatchesStock(StockOut))
	assert.False(t, low.MatchesStock("bogus"))
}

func TestProductResolveColor(t *testing.T) {
	p := Product{Colors: []string{"Black", "White"}}

	c, ok := p.ResolveColor("")
	assert.True(t, ok)
	assert.Equal(t, "Black", c)

	c, ok = p.ResolveColor(" white ")
	assert.True(t, ok)
	assert.Equal(t, "White", c)

	_, ok = p.ResolveColor("Purple")
	assert.False(t, ok)

	_, ok = Product{}.ResolveColor("Black")
	assert.False(t, ok)
	c, ok = Product{}.ResolveColor("")
	assert.True(t, ok)
	assert.Empty(t, c)
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid())
		assert.NotEqual(t, string(c), c.DisplayName())
	}
	assert.False(t, Category("paint-roller").Valid())
}

func TestRequireAdmin(t *testing.T) {
	assert.ErrorIs(t, RequireAdmin(Actor{}), ErrUnauthorized)
	assert.ErrorIs(t, RequireAdmin(Actor{GuestID: "guest-1"}), ErrUnauthorized)
	assert.ErrorIs(t, RequireAdmin(Actor{User: &User{ID: "u"}}), ErrForbidden)
	assert.NoError(t, RequireAdmin(Actor{User: &User{ID: "admin-1", IsAdmin: true}}))
	assert.Equal(t, "guest-1", Actor{GuestID: "guest-1"}.OwnerID())
	assert.Equal(t, "u", Actor{User: &User{ID: "u"}, GuestID: "g"}.OwnerID())
}
