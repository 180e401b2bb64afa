// Package domain holds the product catalog model: products, the immutable
// snapshot they live in, and the CSV format they are loaded from.
package domain

import (
	"slices"
	"time"
)

// Catalog column names as they appear in the CSV header.
const (
	ColProductID     = "product_id"
	ColProductName   = "product_name"
	ColCategory      = "category"
	ColBrand         = "brand"
	ColCurrentPrice  = "current_price"
	ColCost          = "cost"
	ColStockQuantity = "stock_quantity"
	ColAverageRating = "average_rating"
	ColReviewCount   = "review_count"
	ColDescription   = "description"
)

// Product is one catalog row. Numeric fields from empty cells are zero.
type Product struct {
	ProductID     string
	ProductName   string
	Category      string
	Brand         string
	CurrentPrice  float64
	Cost          float64
	StockQuantity int
	AverageRating float64
	ReviewCount   int
	Description   string
}

// Snapshot is a read-only view of the catalog at one point in time.
// It is never mutated after construction; reloads build a new one.
type Snapshot struct {
	products []Product
	columns  map[string]struct{}
	source   string
	loadedAt time.Time
}

// NewSnapshot builds a snapshot from products and the columns present in the source.
func NewSnapshot(products []Product, columns []string, source string, loadedAt time.Time) *Snapshot {
	cols := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		cols[c] = struct{}{}
	}
	return &Snapshot{
		products: slices.Clone(products),
		columns:  cols,
		source:   source,
		loadedAt: loadedAt,
	}
}

// Products returns a private copy of the rows in catalog order.
func (s *Snapshot) Products() []Product {
	return slices.Clone(s.products)
}

// Len returns the number of products.
func (s *Snapshot) Len() int { return len(s.products) }

// HasColumn reports whether the source carried the named column.
func (s *Snapshot) HasColumn(name string) bool {
	_, ok := s.columns[name]
	return ok
}

// Columns returns the column names in sorted order.
func (s *Snapshot) Columns() []string {
	out := make([]string, 0, len(s.columns))
	for c := range s.columns {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Source describes where the snapshot was loaded from.
func (s *Snapshot) Source() string { return s.source }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }
