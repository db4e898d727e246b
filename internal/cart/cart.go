// Package cart holds the session-scoped, uncommitted list of purchase lines.
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"superstore/internal/domain"
)

// Line is one product in the cart. UnitPrice is captured when the product is
// first added and is what the order records as price at sale.
type Line struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Cart keeps at most one line per product, in the order products were first added.
// The zero value is an empty cart.
type Cart struct {
	lines []Line
	index map[int64]int
	total decimal.Decimal
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts qty units of p in the cart, merging with an existing line for the
// same product. qty must be positive and the resulting line quantity must not
// exceed p.StockQuantity as last read; the authoritative check happens at checkout.
func (c *Cart) Add(p domain.Product, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity", "must be greater than zero")
	}
	if i, ok := c.index[p.ID]; ok {
		l := &c.lines[i]
		if qty > p.StockQuantity-l.Quantity {
			return domain.NewValidationError("quantity",
				fmt.Sprintf("only %d of %s in stock, %d already in cart", p.StockQuantity, p.Name, l.Quantity))
		}
		l.Quantity += qty
		added := l.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		l.Subtotal = l.Subtotal.Add(added)
		c.total = c.total.Add(added)
		return nil
	}
	if qty > p.StockQuantity {
		return domain.NewValidationError("quantity", fmt.Sprintf("only %d of %s in stock", p.StockQuantity, p.Name))
	}
	if c.index == nil {
		c.index = make(map[int64]int)
	}
	subtotal := p.Price.Mul(decimal.NewFromInt(int64(qty)))
	c.index[p.ID] = len(c.lines)
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  qty,
		UnitPrice: p.Price,
		Subtotal:  subtotal,
	})
	c.total = c.total.Add(subtotal)
	return nil
}

// Reset empties the cart.
func (c *Cart) Reset() {
	c.lines = nil
	c.index = nil
	c.total = decimal.Zero
}

// Total is the running sum of line subtotals.
func (c *Cart) Total() decimal.Decimal {
	return c.total
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantity returns how many units of productID are already in the cart.
func (c *Cart) Quantity(productID int64) int {
	if i, ok := c.index[productID]; ok {
		return c.lines[i].Quantity
	}
	return 0
}
