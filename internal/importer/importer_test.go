package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"superstore/internal/domain"
	"superstore/internal/repository/memory"
	"superstore/internal/service/inventory"
)

func newInventory() *inventory.Service {
	s := memory.NewStore()
	return inventory.New(s.Products(), s.Orders(), nil)
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `Name,Price,Stock
Pen,10.00,100
 Book , 150 ,20

Notebook,45.50,50,
`
	inv := newInventory()
	count, err := NewCSVImporter(strings.NewReader(csvData), inv, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}

	products, err := inv.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if products[1].Name != "Book" || products[1].Price.StringFixed(2) != "150.00" || products[1].StockQuantity != 20 {
		t.Fatalf("unexpected product data: %+v", products[1])
	}
	if products[2].Price.StringFixed(2) != "45.50" {
		t.Fatalf("unexpected notebook price %s", products[2].Price)
	}
}

func TestCSVImporter_StopsAtFirstBadRow(t *testing.T) {
	cases := []struct {
		name  string
		data  string
		line  int
		check func(error) bool
	}{
		{"bad price", "name,price,stock\nPen,10,1\nBook,abc,2\nInk,1,1\n", 3, domain.IsValidation},
		{"bad stock", "name,price,stock\nPen,10,1\nBook,2,many\n", 3, domain.IsValidation},
		{"duplicate", "name,price,stock\nPen,10,1\nPen,11,1\n", 3, func(err error) bool { return errors.Is(err, domain.ErrAlreadyExists) }},
		{"empty name", "name,price,stock\nPen,10,1\n,1,1\n", 3, domain.IsValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			count, err := NewCSVImporter(strings.NewReader(tc.data), newInventory(), nil).Run(context.Background())
			if count != 1 {
				t.Fatalf("expected 1 imported before failure, got %d", count)
			}
			var rowErr *RowError
			if !errors.As(err, &rowErr) || rowErr.Line != tc.line {
				t.Fatalf("expected row error on line %d, got %v", tc.line, err)
			}
			if !tc.check(err) {
				t.Fatalf("unexpected cause: %v", err)
			}
		})
	}
}

func TestCSVImporter_MissingColumn(t *testing.T) {
	_, err := NewCSVImporter(strings.NewReader("name,price\nPen,10\n"), newInventory(), nil).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), `"stock"`) {
		t.Fatalf("expected missing column error, got %v", err)
	}
}
