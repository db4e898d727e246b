package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a committed sale.
type Order struct {
	ID          int64           `json:"id"`
	CustomerID  int64           `json:"customerId"`
	Customer    Customer        `json:"customer"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Lines       []OrderLine     `json:"lines"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// OrderLine records what was sold and for how much. PriceAtSale never changes
// after the order is committed.
type OrderLine struct {
	OrderID     int64           `json:"orderId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	PriceAtSale decimal.Decimal `json:"priceAtSale"`
}

// Subtotal returns Quantity x PriceAtSale.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.PriceAtSale.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LinesTotal sums the subtotals of the order lines.
func (o Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
