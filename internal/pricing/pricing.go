// Package pricing derives the money figures shown on the cart and checkout pages.
// Arithmetic stays at full decimal precision; rounding happens only in Quote.Rounded.
package pricing

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"paintshop/internal/domain"
)

// Rules are the store-wide pricing constants.
type Rules struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
	PromoCode             string
	PromoRate             decimal.Decimal
}

func DefaultRules() Rules {
	return Rules{
		FreeShippingThreshold: decimal.NewFromInt(5000),
		ShippingFee:           decimal.NewFromInt(500),
		TaxRate:               decimal.RequireFromString("0.20"),
		PromoCode:             "discount10",
		PromoRate:             decimal.RequireFromString("0.10"),
	}
}

// Input is what a quote is computed from.
type Input struct {
	Subtotal   decimal.Decimal
	PromoCode  string
	ItemCount  int
	IncludeTax bool
}

type Quote struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Shipping     decimal.Decimal `json:"shipping"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	PromoApplied bool            `json:"promoApplied"`
	FreeShipping bool            `json:"freeShipping"`
	ItemCount    int             `json:"itemCount"`
}

// Rounded returns the quote with every amount rounded half-up to two places.
func (q Quote) Rounded() Quote {
	q.Subtotal = Round(q.Subtotal)
	q.Discount = Round(q.Discount)
	q.Shipping = Round(q.Shipping)
	q.Tax = Round(q.Tax)
	q.Total = Round(q.Total)
	return q
}

// Round rounds half-up to cents. Amounts here are never negative, so
// decimal's half-away-from-zero rounding is half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders an amount for presentation.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Calculator applies Rules. Rules may be swapped at runtime (config reload).
type Calculator struct {
	mu    sync.RWMutex
	rules Rules
}

func NewCalculator(rules Rules) *Calculator {
	return &Calculator{rules: rules}
}

func (c *Calculator) Rules() Rules {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rules
}

func (c *Calculator) SetRules(rules Rules) {
	c.mu.Lock()
	c.rules = rules
	c.mu.Unlock()
}

// IsValidPromo compares code with the configured literal, ignoring case and surrounding spaces.
func (c *Calculator) IsValidPromo(code string) bool {
	return matchesPromo(c.Rules(), code)
}

// Compute derives discount, shipping, tax and total from the subtotal.
func (c *Calculator) Compute(in Input) Quote {
	r := c.Rules()
	q := Quote{
		Subtotal:  in.Subtotal,
		Discount:  decimal.Zero,
		Shipping:  decimal.Zero,
		Tax:       decimal.Zero,
		ItemCount: in.ItemCount,
	}
	if matchesPromo(r, in.PromoCode) {
		q.PromoApplied = true
		q.Discount = in.Subtotal.Mul(r.PromoRate)
	}
	switch {
	case in.ItemCount == 0:
		q.FreeShipping = true
	case in.Subtotal.GreaterThan(r.FreeShippingThreshold):
		q.FreeShipping = true
	default:
		q.Shipping = r.ShippingFee
	}
	if in.IncludeTax {
		q.Tax = in.Subtotal.Mul(r.TaxRate)
	}
	q.Total = in.Subtotal.Sub(q.Discount).Add(q.Shipping).Add(q.Tax)
	return q
}

// CartQuote prices a cart as the cart page shows it: no tax.
func (c *Calculator) CartQuote(cart *domain.Cart) Quote {
	return c.Compute(inputFromCart(cart, false))
}

// CheckoutQuote prices a cart including tax.
func (c *Calculator) CheckoutQuote(cart *domain.Cart) Quote {
	return c.Compute(inputFromCart(cart, true))
}

func inputFromCart(cart *domain.Cart, withTax bool) Input {
	return Input{
		Subtotal:   cart.TotalPrice(),
		PromoCode:  cart.PromoCode,
		ItemCount:  cart.TotalQuantity(),
		IncludeTax: withTax,
	}
}

func matchesPromo(r Rules, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" || r.PromoCode == "" {
		return false
	}
	return strings.EqualFold(code, r.PromoCode)
}
