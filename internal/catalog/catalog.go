// internal/catalog/catalog.go
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDuplicateID    = errors.New("duplicate product id")
	ErrInvalidProduct = errors.New("invalid product")
	ErrStatusMismatch = errors.New("status does not match stock")
)

// Catalog is the session's product collection. It is built once and only
// shrinks afterwards.
type Catalog struct {
	products []Product
	index    map[int64]int
	version  uint64
}

// New validates the products and returns a catalog holding a copy of them.
// Products with an empty status get one derived from their stock.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		index:    make(map[int64]int, len(products)),
		version:  1,
	}
	for _, p := range products {
		if p.Price.IsNegative() || p.Stock < 0 {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrInvalidProduct)
		}
		if p.Status == "" {
			p.Status = StatusForStock(p.Stock)
		}
		if p.Status != StatusForStock(p.Stock) {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrStatusMismatch)
		}
		if _, ok := c.index[p.ID]; ok {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrDuplicateID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// Products returns the current products in catalog order.
func (c *Catalog) Products() []Product {
	return slices.Clone(c.products)
}

// Len reports how many products remain.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Version changes every time the collection changes.
func (c *Catalog) Version() uint64 {
	return c.version
}

// Get looks a product up by id.
func (c *Catalog) Get(id int64) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Delete removes the product with the given id. It reports false when no
// such product exists.
func (c *Catalog) Delete(id int64) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.products = slices.Delete(c.products, i, i+1)
	delete(c.index, id)
	for j := i; j < len(c.products); j++ {
		c.index[c.products[j].ID] = j
	}
	c.version++
	return true
}

// Categories lists distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	return distinct(c.products, func(p Product) string { return p.Category })
}

// Statuses lists distinct statuses in first-seen order.
func (c *Catalog) Statuses() []string {
	return distinct(c.products, func(p Product) string { return p.Status })
}

// Summary counts products by stock state and category.
func (c *Catalog) Summary() Summary {
	s := Summary{
		TotalProducts: len(c.products),
		Categories:    len(c.Categories()),
	}
	for _, p := range c.products {
		switch p.Status {
		case StatusLowStock:
			s.LowStock++
		case StatusOutOfStock:
			s.OutOfStock++
		}
	}
	return s
}

func distinct(products []Product, field func(Product) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		v := field(p)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
