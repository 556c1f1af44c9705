package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paypalForm = `{
	"firstName":"Jane","lastName":"Doe","email":"jane@example.com","phone":"+381 11 123",
	"address":"Main St 1","city":"Belgrade","state":"Serbia","zip":"11000","country":"RS",
	"paymentMethod":"paypal"
}`

func TestCheckout_RequiresUser(t *testing.T) {
	env := newTestEnv(t)
	guest := guestHeader(env.guest())
	env.expect(env.do(http.MethodPost, "/api/checkout", paypalForm, guest), http.StatusUnauthorized)
	env.expect(env.do(http.MethodGet, "/api/orders", "", guest), http.StatusUnauthorized)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	token := bearer(env.login("jane@example.com"))
	rec := env.do(http.MethodPost, "/api/checkout", paypalForm, token)
	env.expect(rec, http.StatusBadRequest)
	assert.Equal(t, "cart is empty", decode[errorResponse](t, rec).Error)
}

func TestCheckout_CardFieldsRequired(t *testing.T) {
	env := newTestEnv(t)
	token := bearer(env.login("jane@example.com"))
	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","quantity":1}`, token), http.StatusOK)

	form := strings.Replace(paypalForm, `"paypal"`, `"credit-card"`, 1)
	rec := env.do(http.MethodPost, "/api/checkout", form, token)
	env.expect(rec, http.StatusBadRequest)
	fields := decode[errorResponse](t, rec).Fields
	for _, f := range []string{"cardName", "cardNumber", "cardExpiry", "cardCvc"} {
		assert.Contains(t, fields, f)
	}
	assert.NotContains(t, fields, "email")
}

func TestCheckout_PlacesOrder(t *testing.T) {
	env := newTestEnv(t)
	token := bearer(env.login("jane@example.com"))
	env.expect(env.do(http.MethodPost, "/api/cart/items", `{"productId":"sp-001","color":"Red","quantity":3}`, token), http.StatusOK)
	env.expect(env.do(http.MethodPost, "/api/cart/promo", `{"code":"discount10"}`, token), http.StatusOK)

	rec := env.do(http.MethodPost, "/api/checkout", paypalForm, token)
	env.expect(rec, http.StatusCreated)
	order := decode[orderView](t, rec)
	assert.True(t, strings.HasPrefix(order.ID, "ORD-"))
	assert.EqualValues(t, "pending", order.Status)
	assert.Equal(t, "2699.97", order.Subtotal)
	assert.Equal(t, "270.00", order.Discount)
	assert.Equal(t, "500.00", order.Shipping)
	assert.Equal(t, "539.99", order.Tax)
	assert.Equal(t, "3469.97", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Red", order.Items[0].Color)
	assert.Equal(t, "Belgrade", order.ShippingAddress.City)

	rec = env.do(http.MethodGet, "/api/cart", "", token)
	env.expect(rec, http.StatusOK)
	assert.Empty(t, decode[cartView](t, rec).Lines)

	rec = env.do(http.MethodGet, "/api/orders", "", token)
	env.expect(rec, http.StatusOK)
	orders := decode[struct {
		Orders []orderView `json:"orders"`
	}](t, rec).Orders
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	env.expect(env.do(http.MethodGet, "/api/orders/"+order.ID, "", token), http.StatusOK)

	other := bearer(env.login("bob@example.com"))
	env.expect(env.do(http.MethodGet, "/api/orders/"+order.ID, "", other), http.StatusNotFound)

	admin := bearer(env.login("admin@example.com"))
	env.expect(env.do(http.MethodGet, "/api/orders/"+order.ID, "", admin), http.StatusOK)
}
