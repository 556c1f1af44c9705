package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_RequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.expect(env.do(http.MethodGet, "/api/cart", ""), http.StatusUnauthorized)
	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","quantity":1}`), http.StatusUnauthorized)
}

func TestCart_AddMergeAndPrice(t *testing.T) {
	env := newTestEnv(t)
	guest := guestHeader(env.guest())

	rec := env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","color":"black","quantity":2}`, guest)
	env.expect(rec, http.StatusOK)
	cart := decode[cartView](t, rec)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "Black", cart.Lines[0].Color)
	assert.Equal(t, "Premium Gloss Spray Paint", cart.Lines[0].Name)
	assert.Equal(t, "1799.98", cart.Lines[0].LineTotal)
	assert.Equal(t, "1799.98", cart.Summary.Subtotal)
	assert.Equal(t, "500.00", cart.Summary.Shipping)
	assert.Equal(t, "0.00", cart.Summary.Tax)
	assert.Equal(t, "2299.98", cart.Summary.Total)

	rec = env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","color":"Black","quantity":1}`, guest)
	env.expect(rec, http.StatusOK)
	cart = decode[cartView](t, rec)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, "2699.97", cart.Summary.Subtotal)

	rec = env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","color":"White","quantity":1}`, guest)
	env.expect(rec, http.StatusOK)
	assert.Len(t, decode[cartView](t, rec).Lines, 2)
}

func TestCart_AddRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	guest := guestHeader(env.guest())

	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","quantity":0}`, guest), http.StatusBadRequest)
	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","color":"Purple","quantity":1}`, guest), http.StatusBadRequest)
	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"nope","quantity":1}`, guest), http.StatusNotFound)
	env.expect(env.do(http.MethodPost, "/api/cart/items", `not json`, guest), http.StatusBadRequest)
}

func TestCart_SetQuantityAndFreeShipping(t *testing.T) {
	env := newTestEnv(t)
	guest := guestHeader(env.guest())
	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","color":"Black","quantity":1}`, guest), http.StatusOK)

	env.expect(env.do(http.MethodPut, "/api/cart/items/sp-001?color=Black", `{"quantity":0}`, guest), http.StatusBadRequest)
	env.expect(env.do(http.MethodPut, "/api/cart/items/sp-001?color=White", `{"quantity":2}`, guest), http.StatusNotFound)

	rec := env.do(http.MethodPut, "/api/cart/items/sp-001?color=Black", `{"quantity":6}`, guest)
	env.expect(rec, http.StatusOK)
	cart := decode[cartView](t, rec)
	assert.Equal(t, 6, cart.Lines[0].Quantity)
	assert.Equal(t, "5399.94", cart.Summary.Subtotal)
	assert.Equal(t, "0.00", cart.Summary.Shipping)
	assert.True(t, cart.Summary.FreeShipping)

	rec = env.do(http.MethodPost, "/api/cart/promo", `{"code":" DISCOUNT10 "}`, guest)
	env.expect(rec, http.StatusOK)
	cart = decode[cartView](t, rec)
	assert.Equal(t, "DISCOUNT10", cart.PromoCode)
	assert.True(t, cart.Summary.PromoApplied)
	assert.Equal(t, "539.99", cart.Summary.Discount)
	assert.Equal(t, "4859.95", cart.Summary.Total)

	rec = env.do(http.MethodGet, "/api/cart/quote", "", guest)
	env.expect(rec, http.StatusOK)
	assert.Equal(t, "4859.95", decode[quoteView](t, rec).Total)
}

func TestCart_ItemColorQueryIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	guest := guestHeader(env.guest())
	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","color":"black","quantity":2}`, guest), http.StatusOK)

	rec := env.do(http.MethodPut, "/api/cart/items/sp-001?color=black", `{"quantity":3}`, guest)
	env.expect(rec, http.StatusOK)
	assert.Equal(t, 3, decode[cartView](t, rec).Lines[0].Quantity)

	rec = env.do(http.MethodDelete, "/api/cart/items/sp-001?color=black", "", guest)
	env.expect(rec, http.StatusOK)
	assert.Empty(t, decode[cartView](t, rec).Lines)

	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","quantity":1}`, guest), http.StatusOK)
	rec = env.do(http.MethodDelete, "/api/cart/items/sp-001", "", guest)
	env.expect(rec, http.StatusOK)
	assert.Empty(t, decode[cartView](t, rec).Lines)
}

func TestCart_PromoAndRemoval(t *testing.T) {
	env := newTestEnv(t)
	guest := guestHeader(env.guest())
	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"pr-001","color":"Grey","quantity":1}`, guest), http.StatusOK)

	rec := env.do(http.MethodPost, "/api/cart/promo", `{"code":"summer"}`, guest)
	env.expect(rec, http.StatusBadRequest)
	assert.Equal(t, "invalid promo code", decode[errorResponse](t, rec).Error)

	rec = env.do(http.MethodPost, "/api/cart/promo", `{"code":"discount10"}`, guest)
	env.expect(rec, http.StatusOK)
	assert.Equal(t, "130.00", decode[cartView](t, rec).Summary.Discount)

	rec = env.do(http.MethodDelete, "/api/cart/promo", "", guest)
	env.expect(rec, http.StatusOK)
	assert.Equal(t, "0.00", decode[cartView](t, rec).Summary.Discount)

	rec = env.do(http.MethodDelete, "/api/cart/items/pr-001?color=White", "", guest)
	env.expect(rec, http.StatusOK)
	assert.Len(t, decode[cartView](t, rec).Lines, 1, "removing a missing line is a no-op")

	rec = env.do(http.MethodDelete, "/api/cart/items/pr-001?color=Grey", "", guest)
	env.expect(rec, http.StatusOK)
	cart := decode[cartView](t, rec)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, "0.00", cart.Summary.Shipping)
	assert.Equal(t, "0.00", cart.Summary.Total)
}

func TestCart_Clear(t *testing.T) {
	env := newTestEnv(t)
	token := bearer(env.login("jane@example.com"))
	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"vn-001","quantity":4}`, token), http.StatusOK)
	env.expect(env.do(http.MethodPost, "/api/cart/promo", `{"code":"discount10"}`, token), http.StatusOK)

	rec := env.do(http.MethodDelete, "/api/cart", "", token)
	env.expect(rec, http.StatusOK)
	cart := decode[cartView](t, rec)
	assert.Empty(t, cart.Lines)
	assert.Empty(t, cart.PromoCode)
	assert.Equal(t, "0.00", cart.Summary.Subtotal)
}
