package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paintshop/internal/pricing"
	cartrepo "paintshop/internal/repository/cart"
	orderrepo "paintshop/internal/repository/order"
	productrepo "paintshop/internal/repository/product"
	tokenrepo "paintshop/internal/repository/token"
	userrepo "paintshop/internal/repository/user"
	"paintshop/internal/seed"
	adminsvc "paintshop/internal/service/admin"
	cartsvc "paintshop/internal/service/cart"
	categorysvc "paintshop/internal/service/category"
	checkoutsvc "paintshop/internal/service/checkout"
	guestsvc "paintshop/internal/service/guest"
	productsvc "paintshop/internal/service/product"
	sessionsvc "paintshop/internal/service/session"
)

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	deps   Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	products := productrepo.NewMemory(nil)
	if _, err := seed.Apply(ctx, products, nil); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	calc := pricing.NewCalculator(pricing.DefaultRules())
	productSvc := productsvc.New(products)
	carts := cartsvc.New(cartrepo.NewMemory(), productSvc, calc, nil)
	orders := orderrepo.NewMemory()
	secret := []byte("test-secret")

	deps := Deps{
		ProductSvc:  productSvc,
		CategorySvc: categorysvc.New(products),
		CartSvc:     carts,
		SessionSvc: sessionsvc.New(userrepo.NewMemory(), tokenrepo.NewMemory(), sessionsvc.Config{
			Secret: secret,
			TTL:    time.Hour,
		}, nil),
		GuestSvc:    guestsvc.New(secret, time.Hour),
		CheckoutSvc: checkoutsvc.New(carts, orders, calc, nil),
		AdminSvc:    adminsvc.New(products, orders, nil),
		Pricing:     calc,
	}
	router, err := buildRouter(zap.NewNop(), nil, deps, []string{"*"})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testEnv{t: t, router: router, deps: deps}
}

type header struct {
	key, value string
}

func bearer(token string) header {
	return header{"Authorization", "Bearer " + token}
}

func guestHeader(token string) header {
	return header{guestTokenHeader, token}
}

func (e *testEnv) do(method, path, body string, headers ...header) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		req.Header.Set(h.key, h.value)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) expect(rec *httptest.ResponseRecorder, status int) {
	e.t.Helper()
	if rec.Code != status {
		e.t.Fatalf("expected %d, got %d body=%s", status, rec.Code, rec.Body.String())
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func (e *testEnv) login(email string) string {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/login", `{"email":"`+email+`","password":"secret1"}`)
	e.expect(rec, http.StatusOK)
	return decode[sessionView](e.t, rec).Token
}

func (e *testEnv) guest() string {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/guest", "")
	e.expect(rec, http.StatusCreated)
	return decode[struct {
		Token string `json:"token"`
	}](e.t, rec).Token
}
