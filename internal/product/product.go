package product

import "strings"

// Product represents a catalog entry and maps to the `products` table.
// JSON tags follow the snake_case contract the web client reads.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
	ImageURL    string  `json:"image_url"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool { return p.Stock > 0 }

// PriceOp selects the comparison used by a PriceQuery.
type PriceOp int

const (
	// PriceBelow matches price < Max.
	PriceBelow PriceOp = iota + 1
	// PriceAbove matches price > Min.
	PriceAbove
	// PriceBetween matches Min <= price <= Max. Bounds are used as given.
	PriceBetween
)

// PriceOrder overrides catalog order for price queries.
type PriceOrder int

const (
	OrderCatalog PriceOrder = iota
	OrderPriceAsc
	OrderPriceDesc
)

// PriceQuery describes a price-filtered catalog read. A zero Limit means no limit.
type PriceQuery struct {
	Op    PriceOp
	Min   float64
	Max   float64
	Order PriceOrder
	Limit int
}

func (q PriceQuery) matches(price float64) bool {
	switch q.Op {
	case PriceBelow:
		return price < q.Max
	case PriceAbove:
		return price > q.Min
	case PriceBetween:
		return price >= q.Min && price <= q.Max
	}
	return false
}

// Filter is the combined search used by the listing and search endpoints.
// Nil pointers and empty strings disable the corresponding condition.
type Filter struct {
	Query       string
	Category    string
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64
	InStockOnly bool
	Limit       int
}

func (f Filter) matches(p Product) bool {
	if f.Query != "" && !containsFold(p, f.Query) {
		return false
	}
	if f.Category != "" && !strings.Contains(strings.ToLower(p.Category), strings.ToLower(f.Category)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	if f.InStockOnly && !p.InStock() {
		return false
	}
	return true
}

// containsFold reports whether term occurs, case-insensitively, in the
// product's name, description or category.
func containsFold(p Product, term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), t) ||
		strings.Contains(strings.ToLower(p.Description), t) ||
		strings.Contains(strings.ToLower(p.Category), t)
}
