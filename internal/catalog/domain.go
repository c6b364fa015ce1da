// internal/catalog/domain.go
package catalog

import (
	"github.com/shopspring/decimal"
)

// Stock status labels shown in the status column and used by the status filter.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// LowStockThreshold is the highest stock level still reported as low.
const LowStockThreshold = 20

// Product represents one row of the product catalog.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Status   string          `json:"status"`
	Image    string          `json:"image"`
}

// StatusForStock derives the status label for a stock level.
func StatusForStock(stock int) string {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// NewProduct builds a product whose status is consistent with its stock.
func NewProduct(id int64, name, category string, price decimal.Decimal, stock int, image string) Product {
	return Product{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    price,
		Stock:    stock,
		Status:   StatusForStock(stock),
		Image:    image,
	}
}

// Summary holds catalog-wide counts for the dashboard header.
type Summary struct {
	TotalProducts int `json:"total_products"`
	LowStock      int `json:"low_stock"`
	OutOfStock    int `json:"out_of_stock"`
	Categories    int `json:"categories"`
}
