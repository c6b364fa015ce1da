package cart

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary is a read-only snapshot of the cart for presentation.
type Summary struct {
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
	DisplayTotal string          `json:"display_total"`
	Open         bool            `json:"open"`
	Lines        []Line          `json:"lines"`
}

// Summary captures the cart's current state.
func (c *Cart) Summary() Summary {
	total := c.Total()
	return Summary{
		Count:        c.Count(),
		Total:        total,
		DisplayTotal: FormatMoney(total),
		Open:         c.open,
		Lines:        c.Lines(),
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatMoney renders an amount in US dollars with two decimals and
// thousands separators, e.g. "$1,234.50".
func FormatMoney(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	whole, cents, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		// Beyond int64; print the digits ungrouped.
		return "$" + sign + whole + "." + cents
	}
	return printer.Sprintf("$%s%d.%s", sign, n, cents)
}
