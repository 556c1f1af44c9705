package httpserver

import (
	"time"

	"github.com/shopspring/decimal"

	"paintshop/internal/domain"
	"paintshop/internal/pricing"
	adminsvc "paintshop/internal/service/admin"
)

// Response shapes. Money is rendered as a string with two decimals.

type productView struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	FullDescription string                 `json:"fullDescription,omitempty"`
	Price           string                 `json:"price"`
	OldPrice        *string                `json:"oldPrice,omitempty"`
	Category        domain.Category        `json:"category"`
	CategoryName    string                 `json:"categoryName"`
	Inventory       int                    `json:"inventory"`
	StockStatus     domain.StockStatus     `json:"stockStatus"`
	Rating          float64                `json:"rating"`
	Reviews         int                    `json:"reviews"`
	Colors          []string               `json:"colors"`
	Images          []string               `json:"images"`
	Features        []string               `json:"features"`
	Specifications  *domain.Specifications `json:"specifications,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

func toProductView(p domain.Product) productView {
	v := productView{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		FullDescription: p.FullDescription,
		Price:           money(p.Price),
		Category:        p.Category,
		CategoryName:    p.Category.DisplayName(),
		Inventory:       p.Inventory,
		StockStatus:     p.StockStatus(),
		Rating:          p.Rating,
		Reviews:         p.Reviews,
		Colors:          nonNil(p.Colors),
		Images:          nonNil(p.Images),
		Features:        nonNil(p.Features),
		Specifications:  p.Specifications,
		CreatedAt:       p.CreatedAt,
	}
	if p.OldPrice != nil {
		old := money(*p.OldPrice)
		v.OldPrice = &old
	}
	return v
}

func toProductViews(in []domain.Product) []productView {
	out := make([]productView, 0, len(in))
	for _, p := range in {
		out = append(out, toProductView(p))
	}
	return out
}

type quoteView struct {
	Subtotal     string `json:"subtotal"`
	Discount     string `json:"discount"`
	Shipping     string `json:"shipping"`
	Tax          string `json:"tax"`
	Total        string `json:"total"`
	PromoApplied bool   `json:"promoApplied"`
	FreeShipping bool   `json:"freeShipping"`
	ItemCount    int    `json:"itemCount"`
}

func toQuoteView(q pricing.Quote) quoteView {
	return quoteView{
		Subtotal:     money(q.Subtotal),
		Discount:     money(q.Discount),
		Shipping:     money(q.Shipping),
		Tax:          money(q.Tax),
		Total:        money(q.Total),
		PromoApplied: q.PromoApplied,
		FreeShipping: q.FreeShipping,
		ItemCount:    q.ItemCount,
	}
}

type cartLineView struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Image     string `json:"image,omitempty"`
	LineTotal string `json:"lineTotal"`
}

type cartView struct {
	OwnerID   string         `json:"ownerId"`
	Lines     []cartLineView `json:"lines"`
	PromoCode string         `json:"promoCode,omitempty"`
	Version   int            `json:"version"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Summary   quoteView      `json:"summary"`
}

func toCartView(c *domain.Cart, q pricing.Quote) cartView {
	lines := make([]cartLineView, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, cartLineView{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     money(l.Price),
			Quantity:  l.Quantity,
			Color:     l.Color,
			Image:     l.Image,
			LineTotal: money(l.Total()),
		})
	}
	return cartView{
		OwnerID:   c.OwnerID,
		Lines:     lines,
		PromoCode: c.PromoCode,
		Version:   c.Version,
		UpdatedAt: c.UpdatedAt,
		Summary:   toQuoteView(q),
	}
}

type orderItemView struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
}

type orderView struct {
	ID              string               `json:"id"`
	UserID          string               `json:"userId"`
	Email           string               `json:"email"`
	Items           []orderItemView      `json:"items"`
	Subtotal        string               `json:"subtotal"`
	Discount        string               `json:"discount"`
	Shipping        string               `json:"shipping"`
	Tax             string               `json:"tax"`
	TotalAmount     string               `json:"totalAmount"`
	PromoCode       string               `json:"promoCode,omitempty"`
	Status          domain.OrderStatus   `json:"status"`
	ShippingAddress domain.Address       `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	CreatedAt       time.Time            `json:"createdAt"`
}

func toOrderView(o domain.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemView{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     money(it.Price),
			Quantity:  it.Quantity,
			Color:     it.Color,
		})
	}
	return orderView{
		ID:              o.ID,
		UserID:          o.UserID,
		Email:           o.Email,
		Items:           items,
		Subtotal:        money(o.Subtotal),
		Discount:        money(o.Discount),
		Shipping:        money(o.Shipping),
		Tax:             money(o.Tax),
		TotalAmount:     money(o.TotalAmount),
		PromoCode:       o.PromoCode,
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt,
	}
}

func toOrderViews(in []domain.Order) []orderView {
	out := make([]orderView, 0, len(in))
	for _, o := range in {
		out = append(out, toOrderView(o))
	}
	return out
}

type overviewView struct {
	TotalProducts      int           `json:"totalProducts"`
	InStock            int           `json:"inStock"`
	LowStock           int           `json:"lowStock"`
	OutOfStock         int           `json:"outOfStock"`
	TotalOrders        int           `json:"totalOrders"`
	Revenue            string        `json:"revenue"`
	LowStockProducts   []productView `json:"lowStockProducts"`
	OutOfStockProducts []productView `json:"outOfStockProducts"`
	RecentOrders       []orderView   `json:"recentOrders"`
}

func toOverviewView(o *adminsvc.Overview) overviewView {
	return overviewView{
		TotalProducts:      o.TotalProducts,
		InStock:            o.InStock,
		LowStock:           o.LowStock,
		OutOfStock:         o.OutOfStock,
		TotalOrders:        o.TotalOrders,
		Revenue:            money(o.Revenue),
		LowStockProducts:   toProductViews(o.LowStockProducts),
		OutOfStockProducts: toProductViews(o.OutOfStockProducts),
		RecentOrders:       toOrderViews(o.RecentOrders),
	}
}

type sessionView struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	ExpiresIn int          `json:"expiresIn"`
}

func money(d decimal.Decimal) string {
	return pricing.Format(pricing.Round(d))
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
