package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superstore/internal/domain"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:          42,
		CustomerID:  7,
		Customer:    domain.Customer{ID: 7, Name: "Asha", MobileNumber: "9876543210"},
		TotalAmount: decimal.RequireFromString("170.00"),
		CreatedAt:   time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local),
		Lines: []domain.OrderLine{
			{OrderID: 42, ProductID: 1, ProductName: "Pen", Quantity: 2, PriceAtSale: decimal.RequireFromString("10")},
			{OrderID: 42, ProductID: 2, ProductName: "Book", Quantity: 1, PriceAtSale: decimal.RequireFromString("150.00")},
		},
	}
}

func TestFormat_Header(t *testing.T) {
	out := New("₹").Format(sampleOrder())

	assert.Contains(t, out, "SUPER STORE SALES RECEIPT")
	assert.Contains(t, out, "Order ID: 42")
	assert.Contains(t, out, "Date: 2024-03-01 10:30")
	assert.Contains(t, out, "Customer Name: Asha")
	assert.Contains(t, out, "Customer Mobile: 9876543210")
}

func TestFormat_LinesAndTotals(t *testing.T) {
	f := New("Rs.")
	out := f.Format(sampleOrder())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	var items []string
	for _, l := range lines {
		if strings.HasPrefix(l, "Pen ") || strings.HasPrefix(l, "Book ") {
			items = append(items, l)
		}
	}
	require.Len(t, items, 2)
	assert.Contains(t, items[0], "Rs.10.00")
	assert.True(t, strings.HasSuffix(items[0], "Rs.20.00"), items[0])
	assert.True(t, strings.HasSuffix(items[1], "Rs.150.00"), items[1])

	// rendered line totals add up to the rendered grand total
	sum := decimal.Zero
	for _, l := range items {
		fields := strings.Fields(l)
		sum = sum.Add(decimal.RequireFromString(strings.TrimPrefix(fields[len(fields)-1], "Rs.")))
	}
	assert.Equal(t, "170.00", sum.StringFixed(2))
	last := lines[len(lines)-2]
	assert.True(t, strings.HasPrefix(last, "TOTAL AMOUNT:"), last)
	assert.True(t, strings.HasSuffix(last, "Rs.170.00"), last)
	assert.Len(t, last, 40+len("Rs.170.00"))
}

func TestFormat_TruncatesLongNames(t *testing.T) {
	o := sampleOrder()
	o.Lines = o.Lines[:1]
	o.Lines[0].ProductName = "Extra Long Premium Fountain Pen"
	o.TotalAmount = decimal.RequireFromString("20")

	out := New("₹").Format(o)
	assert.Contains(t, out, "Extra Long Premium F 2")
	assert.NotContains(t, out, "Fountain")
}

func TestFormat_Nil(t *testing.T) {
	assert.Empty(t, New("₹").Format(nil))
}
