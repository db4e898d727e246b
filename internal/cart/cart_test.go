package cart

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superstore/internal/domain"
)

var (
	pen  = domain.Product{ID: 1, Name: "Pen", Price: decimal.RequireFromString("10.00"), StockQuantity: 100}
	book = domain.Product{ID: 2, Name: "Book", Price: decimal.RequireFromString("150.00"), StockQuantity: 20}
	note = domain.Product{ID: 3, Name: "Notebook", Price: decimal.RequireFromString("45.50"), StockQuantity: 3}
)

func recomputed(c *Cart) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines() {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func TestCart_ExampleTotal(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(pen, 2))
	require.NoError(t, c.Add(book, 1))

	assert.True(t, c.Total().Equal(decimal.RequireFromString("170.00")), c.Total().String())
	assert.False(t, c.IsEmpty())
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Pen", lines[0].Name)
	assert.True(t, lines[0].Subtotal.Equal(decimal.RequireFromString("20")))
}

func TestCart_TotalMatchesLinesAfterEveryAdd(t *testing.T) {
	c := New()
	adds := []struct {
		p   domain.Product
		qty int
	}{{note, 1}, {pen, 3}, {note, 2}, {book, 4}, {pen, 7}}
	for _, a := range adds {
		require.NoError(t, c.Add(a.p, a.qty))
		assert.True(t, c.Total().Equal(recomputed(c)))
	}
	assert.True(t, c.Total().Equal(decimal.RequireFromString("836.50")), c.Total().String())
}

func TestCart_ConsolidatesSameProduct(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(pen, 2))
	require.NoError(t, c.Add(book, 1))
	require.NoError(t, c.Add(pen, 3))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ProductID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 5, c.Quantity(pen.ID))
	assert.True(t, lines[0].Subtotal.Equal(decimal.RequireFromString("50")))
}

func TestCart_KeepsFirstCapturedPrice(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(pen, 1))
	repriced := pen
	repriced.Price = decimal.RequireFromString("12.00")
	require.NoError(t, c.Add(repriced, 1))

	assert.True(t, c.Lines()[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, c.Total().Equal(decimal.RequireFromString("20.00")))
}

func TestCart_RejectsBadQuantity(t *testing.T) {
	tests := []struct {
		name  string
		setup int
		qty   int
	}{
		{"zero", 0, 0},
		{"negative", 0, -1},
		{"above stock", 0, 4},
		{"cumulative above stock", 2, 2},
		{"huge quantity on first add", 0, math.MaxInt},
		{"huge quantity merged into a line", 1, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			if tt.setup > 0 {
				require.NoError(t, c.Add(note, tt.setup))
			}
			before := c.Total()

			err := c.Add(note, tt.qty)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
			assert.True(t, c.Total().Equal(before))
			assert.Equal(t, tt.setup, c.Quantity(note.ID))
		})
	}
}

func TestCart_LineQuantitiesStayPositive(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(pen, 1))
	require.Error(t, c.Add(pen, math.MaxInt))
	require.Error(t, c.Add(pen, math.MaxInt-1))

	for _, l := range c.Lines() {
		assert.Positive(t, l.Quantity)
		assert.True(t, l.Subtotal.Equal(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))))
	}
	assert.True(t, c.Total().Equal(recomputed(c)))
	assert.Equal(t, 1, c.Quantity(pen.ID))
}

func TestCart_Reset(t *testing.T) {
	var c Cart
	assert.True(t, c.IsEmpty())
	require.NoError(t, c.Add(pen, 1))
	c.Reset()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total().IsZero())
	assert.Empty(t, c.Lines())
	require.NoError(t, c.Add(pen, 1))
	assert.Len(t, c.Lines(), 1)
}
