// internal/cart/cart.go
package cart

import (
	"productdash/internal/catalog"
	"slices"

	"github.com/shopspring/decimal"
)

// Line is one product in the cart. Product is a snapshot taken when the
// product was first added; later catalog changes do not reach it.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is the line's unit price times its quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines the user intends to buy and whether the cart panel
// is showing. The zero value is an empty, closed cart.
type Cart struct {
	lines []Line
	open  bool
}

// New returns an empty, closed cart.
func New() *Cart {
	return &Cart{}
}

// Add puts one unit of product into the cart. A product already present
// gets its quantity bumped and keeps its first snapshot.
func (c *Cart) Add(product catalog.Product) {
	if i := c.find(product.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{Product: product, Quantity: 1})
}

// Remove drops the line for id whatever its quantity.
func (c *Cart) Remove(id int64) {
	if i := c.find(id); i >= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
	}
}

// UpdateQuantity sets the quantity of the line for id. Zero or less removes
// the line. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id int64, quantity int) {
	i := c.find(id)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
		return
	}
	c.lines[i].Quantity = quantity
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total is the sum of all line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

// Line returns the line for id.
func (c *Cart) Line(id int64) (Line, bool) {
	i := c.find(id)
	if i < 0 {
		return Line{}, false
	}
	return c.lines[i], true
}

// Len is the number of distinct products in the cart.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Open, Close and Toggle change panel visibility only.
func (c *Cart) Open()   { c.open = true }
func (c *Cart) Close()  { c.open = false }
func (c *Cart) Toggle() { c.open = !c.open }

// IsOpen reports whether the cart panel is showing.
func (c *Cart) IsOpen() bool { return c.open }

func (c *Cart) find(id int64) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.Product.ID == id })
}
