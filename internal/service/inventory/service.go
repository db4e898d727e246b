// Package inventory reads the catalog and performs the administrator's stock
// and product operations.
package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"superstore/internal/domain"
	"superstore/internal/logging"
	productrepo "superstore/internal/repository/product"
)

type orderTotals interface {
	SumTotals(ctx context.Context) (decimal.Decimal, error)
}

type Service struct {
	products productrepo.Repository
	orders   orderTotals
	logger   *zap.Logger
}

func New(products productrepo.Repository, orders orderTotals, logger *zap.Logger) *Service {
	return &Service{products: products, orders: orders, logger: logging.OrNop(logger)}
}

// ListProducts returns the catalog snapshot ordered by product id.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// AddProduct creates a catalog entry. A duplicate name fails with a
// *domain.IntegrityError wrapping domain.ErrAlreadyExists.
func (s *Service) AddProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "product name cannot be empty")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, domain.NewValidationError("stock", "must be a non-negative integer")
	}
	p, err := s.products.Create(ctx, name, price, stock)
	if err != nil {
		return nil, err
	}
	s.logger.Info("inventory: product added", zap.Int64("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// AddStock increases the stock of productID by qty.
func (s *Service) AddStock(ctx context.Context, productID int64, qty int) (*domain.Product, error) {
	if qty < 0 {
		return nil, domain.NewValidationError("quantity", "quantity to add must be a non-negative integer")
	}
	return s.products.AddStock(ctx, productID, qty)
}

// TotalEarnings sums every committed order total; zero when nothing was sold.
func (s *Service) TotalEarnings(ctx context.Context) (decimal.Decimal, error) {
	return s.orders.SumTotals(ctx)
}

// ParsePrice reads a non-negative amount with at most two fractional digits.
func ParsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, domain.NewValidationError("price", "must be a number, e.g. 12.50")
	}
	if err := validatePrice(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func validatePrice(d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.NewValidationError("price", "must be non-negative")
	}
	if !d.Equal(d.Round(2)) {
		return domain.NewValidationError("price", "at most two decimal places")
	}
	return nil
}
