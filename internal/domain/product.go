package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the inclusive inventory level at which a product counts as low on stock.
const LowStockThreshold = 10

type StockStatus string

const (
	StockIn  StockStatus = "in-stock"
	StockLow StockStatus = "low-stock"
	StockOut StockStatus = "out-of-stock"
)

type Specifications struct {
	Size        string `json:"size,omitempty"`
	Coverage    string `json:"coverage,omitempty"`
	DryTime     string `json:"dryTime,omitempty"`
	Finish      string `json:"finish,omitempty"`
	Application string `json:"application,omitempty"`
	Use         string `json:"use,omitempty"`
}

type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	FullDescription string           `json:"fullDescription,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	OldPrice        *decimal.Decimal `json:"oldPrice,omitempty"`
	Category        Category         `json:"category"`
	Inventory       int              `json:"inventory"`
	Rating          float64          `json:"rating"`
	Reviews         int              `json:"reviews"`
	Colors          []string         `json:"colors"`
	Images          []string         `json:"images"`
	Features        []string         `json:"features"`
	Specifications  *Specifications  `json:"specifications,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// StockStatus classifies the current inventory level.
func (p Product) StockStatus() StockStatus {
	switch {
	case p.Inventory <= 0:
		return StockOut
	case p.Inventory <= LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

// MatchesStock reports whether the product falls under an admin stock filter.
// "in-stock" includes low-stock products.
func (p Product) MatchesStock(status StockStatus) bool {
	switch status {
	case "":
		return true
	case StockIn:
		return p.Inventory > 0
	case StockLow:
		return p.Inventory > 0 && p.Inventory <= LowStockThreshold
	case StockOut:
		return p.Inventory <= 0
	default:
		return false
	}
}

// ResolveColor maps a requested color onto the product's variant spelling. An empty
// request selects the first variant; products without variants accept only "".
func (p Product) ResolveColor(color string) (string, bool) {
	color = strings.TrimSpace(color)
	if len(p.Colors) == 0 {
		return "", color == ""
	}
	if color == "" {
		return p.Colors[0], true
	}
	for _, c := range p.Colors {
		if strings.EqualFold(c, color) {
			return c, true
		}
	}
	return "", false
}

// PrimaryImage returns the first image reference, if any.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
