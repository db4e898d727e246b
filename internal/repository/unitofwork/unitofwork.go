// Package unitofwork defines the atomic-unit storage contract used by checkout
// and its Postgres implementation.
package unitofwork

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"superstore/internal/domain"
)

// Store opens units of work. Every Begin hands out a fresh, independent unit.
type Store interface {
	Begin(ctx context.Context) (Unit, error)
}

// Unit is one all-or-nothing group of writes. After Commit or Rollback the unit
// is closed; Rollback on a closed unit is a no-op.
type Unit interface {
	FindCustomerByMobile(ctx context.Context, mobile string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, name, mobile string, email *string) (int64, error)
	CreateOrder(ctx context.Context, customerID int64, total decimal.Decimal) (int64, time.Time, error)
	DecrementStockIfAvailable(ctx context.Context, productID int64, qty int) (int64, error)
	CreateOrderLine(ctx context.Context, line domain.OrderLine) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
