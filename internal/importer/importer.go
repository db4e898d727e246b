package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"superstore/internal/domain"
	"superstore/internal/logging"
	"superstore/internal/service/inventory"
)

// ProductWriter creates catalog entries; the inventory service satisfies it.
type ProductWriter interface {
	AddProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*domain.Product, error)
}

// CSVImporter reads name,price,stock rows and creates one product per row.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductWriter
	logger   *zap.Logger
}

func NewCSVImporter(r io.Reader, products ProductWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:   csvr,
		products: products,
		logger:   logging.OrNop(logger),
	}
}

// RowError locates a rejected row by its line in the input.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Run imports rows until end of input or the first bad row. It returns how many
// products were created before stopping.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range []string{"name", "price", "stock"} {
		if _, ok := index[col]; !ok {
			return 0, fmt.Errorf("missing column %q", col)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}
		line, _ := i.reader.FieldPos(0)

		name := pick(record, index, "name")
		price, err := inventory.ParsePrice(pick(record, index, "price"))
		if err != nil {
			return imported, &RowError{Line: line, Err: err}
		}
		stock, err := strconv.Atoi(pick(record, index, "stock"))
		if err != nil {
			return imported, &RowError{Line: line, Err: domain.NewValidationError("stock", "must be a whole number")}
		}

		p, err := i.products.AddProduct(ctx, name, price, stock)
		if err != nil {
			return imported, &RowError{Line: line, Err: err}
		}
		i.logger.Debug("importer: product created", zap.Int64("product_id", p.ID), zap.String("name", p.Name))
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
