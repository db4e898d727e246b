package product

import (
	"context"

	"github.com/shopspring/decimal"

	"superstore/internal/domain"
)

// Repository reads and adjusts catalog rows.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, name string, price decimal.Decimal, stock int) (*domain.Product, error)
	AddStock(ctx context.Context, id int64, qty int) (*domain.Product, error)
	DecrementIfAvailable(ctx context.Context, id int64, qty int) (int64, error)
}
