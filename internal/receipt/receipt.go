// Package receipt renders committed orders as plain-text sales receipts.
package receipt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"superstore/internal/domain"
)

const (
	rule      = "============================================="
	thinRule  = "---------------------------------------------"
	nameWidth = 20
)

// Formatter renders receipts. Currency is prefixed to every amount.
type Formatter struct {
	Currency string
}

// New returns a Formatter using the given currency symbol.
func New(currency string) Formatter {
	return Formatter{Currency: currency}
}

// Format renders o. It has no side effects; a nil order renders as an empty string.
func (f Formatter) Format(o *domain.Order) string {
	if o == nil {
		return ""
	}
	lines := []string{
		rule,
		"          SUPER STORE SALES RECEIPT          ",
		rule,
		fmt.Sprintf("Order ID: %-20d Date: %s", o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04")),
		"Customer Name: " + o.Customer.Name,
		"Customer Mobile: " + o.Customer.MobileNumber,
		thinRule,
		"Item                 Qty Price    Total",
		thinRule,
	}
	for _, l := range o.Lines {
		lines = append(lines, fmt.Sprintf("%-*s %-3d %-8s %s",
			nameWidth, truncate(l.ProductName, nameWidth), l.Quantity, f.Amount(l.PriceAtSale), f.Amount(l.Subtotal())))
	}
	lines = append(lines,
		thinRule,
		fmt.Sprintf("%-40s%s", "Subtotal:", f.Amount(o.LinesTotal())),
		fmt.Sprintf("%-40s%s", "TOTAL AMOUNT:", f.Amount(o.TotalAmount)),
		rule,
	)
	return strings.Join(lines, "\n") + "\n"
}

// Amount renders d with two fractional digits and the currency symbol.
func (f Formatter) Amount(d decimal.Decimal) string {
	return f.Currency + d.StringFixed(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
