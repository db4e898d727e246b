package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"superstore/internal/domain"
)

// Repository writes orders and their lines and answers reporting queries.
type Repository interface {
	Create(ctx context.Context, customerID int64, total decimal.Decimal) (int64, time.Time, error)
	CreateLine(ctx context.Context, line domain.OrderLine) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	SumTotals(ctx context.Context) (decimal.Decimal, error)
}
