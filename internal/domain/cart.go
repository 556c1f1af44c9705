package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. Two lines never share a key.
type LineKey struct {
	ProductID string
	Color     string
}

// CartLine holds a product reference plus the name, price and image captured when it was added.
type CartLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	Color     string          `json:"color,omitempty"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.Color}
}

// Total is price × quantity at full precision.
func (l CartLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is owned by exactly one user or guest. Version is the optimistic concurrency
// stamp of the stored copy the cart was loaded from; zero means never stored.
type Cart struct {
	OwnerID   string     `json:"ownerId"`
	Lines     []CartLine `json:"lines"`
	PromoCode string     `json:"promoCode,omitempty"`
	Version   int        `json:"version"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func NewCart(ownerID string) *Cart {
	return &Cart{OwnerID: ownerID, Lines: []CartLine{}}
}

// AddItem merges line into the cart: an existing line with the same key has its
// quantity increased, otherwise the line is appended.
func (c *Cart) AddItem(line CartLine) error {
	if line.ProductID == "" {
		return NewValidationError("productId", "is required")
	}
	if line.Quantity < 1 {
		return NewValidationError("quantity", "must be at least 1")
	}
	if i := c.index(line.Key()); i >= 0 {
		c.Lines[i].Quantity += line.Quantity
		return nil
	}
	c.Lines = append(c.Lines, line)
	return nil
}

// SetQuantity replaces the quantity of the matching line.
func (c *Cart) SetQuantity(productID, color string, quantity int) error {
	if quantity < 1 {
		return NewValidationError("quantity", "must be at least 1")
	}
	i := c.index(LineKey{ProductID: productID, Color: color})
	if i < 0 {
		return ErrNotFound
	}
	c.Lines[i].Quantity = quantity
	return nil
}

// RemoveItem deletes the matching line and reports whether one existed.
func (c *Cart) RemoveItem(productID, color string) bool {
	i := c.index(LineKey{ProductID: productID, Color: color})
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// Clear drops every line and the applied promo code.
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.PromoCode = ""
}

// TotalPrice is the sum of price × quantity over all lines.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) TotalQuantity() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Line(productID, color string) (CartLine, bool) {
	i := c.index(LineKey{ProductID: productID, Color: color})
	if i < 0 {
		return CartLine{}, false
	}
	return c.Lines[i], true
}

// Clone returns a deep copy safe to hand out of a store.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return &out
}

func (c *Cart) index(key LineKey) int {
	for i, l := range c.Lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}
