package cart

import (
	"productdash/internal/catalog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func product(id int64, price string) catalog.Product {
	return catalog.NewProduct(id, "Item", "Home", decimal.RequireFromString(price), 30, "")
}

func TestAddTwiceBumpsQuantity(t *testing.T) {
	c := New()
	p := product(1, "10.00")

	c.Add(p)
	c.Add(p)

	require.Equal(t, 1, c.Len())
	line, ok := c.Line(1)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 2, c.Count())
	assert.True(t, decimal.RequireFromString("20.00").Equal(c.Total()))
	assert.Equal(t, "$20.00", c.Summary().DisplayTotal)
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	c := New()
	c.Add(product(1, "10.00"))
	c.Add(product(2, "5.50"))

	c.UpdateQuantity(1, 0)

	_, ok := c.Line(1)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Count())
	assert.True(t, decimal.RequireFromString("5.50").Equal(c.Total()))

	c.UpdateQuantity(2, -3)
	assert.Zero(t, c.Len())
	assert.True(t, c.Total().IsZero())
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	c := New()
	c.Add(product(7, "1.25"))
	c.UpdateQuantity(7, 4)

	assert.Equal(t, 4, c.Count())
	assert.True(t, decimal.RequireFromString("5").Equal(c.Total()))
}

func TestUnknownIDsAreIgnored(t *testing.T) {
	c := New()
	c.Add(product(1, "3.00"))

	c.Remove(99)
	c.UpdateQuantity(99, 5)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Count())
}

func TestRemoveDropsWholeLine(t *testing.T) {
	c := New()
	p := product(1, "3.00")
	for range 5 {
		c.Add(p)
	}
	c.Remove(1)
	assert.Zero(t, c.Count())
	assert.Empty(t, c.Lines())
}

func TestLineKeepsSnapshotPrice(t *testing.T) {
	c := New()
	c.Add(product(1, "10.00"))
	// A later add carrying a different price does not rewrite the snapshot.
	c.Add(product(1, "99.00"))

	assert.True(t, decimal.RequireFromString("20.00").Equal(c.Total()))
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New()
	c.Add(product(1, "2.00"))
	lines := c.Lines()
	lines[0].Quantity = 50

	assert.Equal(t, 1, c.Count())
}

func TestVisibilityIsIndependent(t *testing.T) {
	c := New()
	assert.False(t, c.IsOpen())
	c.Toggle()
	assert.True(t, c.IsOpen())
	c.Add(product(1, "2.00"))
	assert.True(t, c.IsOpen())
	c.Close()
	assert.False(t, c.IsOpen())
	assert.Equal(t, 1, c.Count())
	c.Open()
	c.Open()
	assert.True(t, c.Summary().Open)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$0.00", FormatMoney(decimal.Zero))
	assert.Equal(t, "$19.95", FormatMoney(decimal.RequireFromString("19.95")))
	assert.Equal(t, "$1,234.50", FormatMoney(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$0.01", FormatMoney(decimal.RequireFromString("0.005")))
	assert.Equal(t, "$-2.50", FormatMoney(decimal.RequireFromString("-2.5")))
}

func TestFormatMoneyKeepsCentsOnLargeTotals(t *testing.T) {
	assert.Equal(t, "$90,071,992,547,409.93", FormatMoney(decimal.RequireFromString("90071992547409.93")))
	assert.Equal(t, "$9,007,199,254,740,993.00", FormatMoney(decimal.RequireFromString("9007199254740993")))

	c := New()
	c.Add(product(1, "45035996273704.96"))
	c.Add(product(1, "45035996273704.96"))
	assert.Equal(t, "$90,071,992,547,409.92", c.Summary().DisplayTotal)
}

// cartMachine mirrors the cart with a plain map and checks that the derived
// count and total never drift from the lines.
type cartMachine struct {
	cart     *Cart
	qty      map[int64]int
	products []catalog.Product
}

func (m *cartMachine) Add(t *rapid.T) {
	p := rapid.SampledFrom(m.products).Draw(t, "product")
	m.cart.Add(p)
	m.qty[p.ID]++
}

func (m *cartMachine) Remove(t *rapid.T) {
	id := rapid.Int64Range(1, int64(len(m.products))+2).Draw(t, "id")
	m.cart.Remove(id)
	delete(m.qty, id)
}

func (m *cartMachine) UpdateQuantity(t *rapid.T) {
	id := rapid.Int64Range(1, int64(len(m.products))+2).Draw(t, "id")
	q := rapid.IntRange(-2, 9).Draw(t, "quantity")
	m.cart.UpdateQuantity(id, q)
	if _, ok := m.qty[id]; !ok {
		return
	}
	if q <= 0 {
		delete(m.qty, id)
	} else {
		m.qty[id] = q
	}
}

func (m *cartMachine) Toggle(t *rapid.T) {
	m.cart.Toggle()
}

func (m *cartMachine) check(t *rapid.T) {
	if m.cart.Len() != len(m.qty) {
		t.Fatalf("cart has %d lines, want %d", m.cart.Len(), len(m.qty))
	}
	count := 0
	total := decimal.Zero
	for _, l := range m.cart.Lines() {
		if l.Quantity < 1 {
			t.Fatalf("line %d has quantity %d", l.Product.ID, l.Quantity)
		}
		if m.qty[l.Product.ID] != l.Quantity {
			t.Fatalf("line %d has quantity %d, want %d", l.Product.ID, l.Quantity, m.qty[l.Product.ID])
		}
		count += l.Quantity
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if m.cart.Count() != count {
		t.Fatalf("count %d, lines sum to %d", m.cart.Count(), count)
	}
	if !m.cart.Total().Equal(total) {
		t.Fatalf("total %s, lines sum to %s", m.cart.Total(), total)
	}
}

func TestCartStateMachine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := &cartMachine{
			cart:     New(),
			qty:      make(map[int64]int),
			products: catalog.Generate(rapid.IntRange(1, 8).Draw(t, "catalog_size"), 11),
		}
		t.Repeat(map[string]func(*rapid.T){
			"add":    m.Add,
			"remove": m.Remove,
			"update": m.UpdateQuantity,
			"toggle": m.Toggle,
			"":       m.check,
		})
	})
}
