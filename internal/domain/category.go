package domain

// Category is one of the closed set of catalog sections.
type Category string

const (
	CategorySprayPaint Category = "spray-paint"
	CategoryVarnish    Category = "varnish"
	CategoryPrimer     Category = "primer"
)

var categoryNames = map[Category]string{
	CategorySprayPaint: "Spray paint",
	CategoryVarnish:    "Varnish",
	CategoryPrimer:     "Primer",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategorySprayPaint, CategoryVarnish, CategoryPrimer}
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}
