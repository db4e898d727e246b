package unitofwork

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"superstore/internal/domain"
	"superstore/internal/logging"
	"superstore/internal/repository"
	customerrepo "superstore/internal/repository/customer"
	orderrepo "superstore/internal/repository/order"
	productrepo "superstore/internal/repository/product"
)

type postgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Store whose units are pgx transactions taken from pool.
// A pooled connection released with an open transaction is discarded by pgxpool,
// so a failed unit can never leak into the next Begin.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Store {
	return &postgresStore{pool: pool, logger: logging.OrNop(logger)}
}

func (s *postgresStore) Begin(ctx context.Context) (Unit, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		s.logger.Error("unit of work: begin", zap.Error(err))
		return nil, &domain.StorageUnavailableError{Op: "begin transaction", Err: err}
	}
	return &pgUnit{
		tx:        tx,
		customers: customerrepo.NewPostgres(tx, s.logger),
		orders:    orderrepo.NewPostgres(tx, s.logger),
		products:  productrepo.NewPostgres(tx, s.logger),
	}, nil
}

type pgUnit struct {
	tx        pgx.Tx
	customers customerrepo.Repository
	orders    orderrepo.Repository
	products  productrepo.Repository
}

func (u *pgUnit) FindCustomerByMobile(ctx context.Context, mobile string) (*domain.Customer, error) {
	return u.customers.GetByMobile(ctx, mobile)
}

func (u *pgUnit) CreateCustomer(ctx context.Context, name, mobile string, email *string) (int64, error) {
	return u.customers.Create(ctx, name, mobile, email)
}

func (u *pgUnit) CreateOrder(ctx context.Context, customerID int64, total decimal.Decimal) (int64, time.Time, error) {
	return u.orders.Create(ctx, customerID, total)
}

func (u *pgUnit) DecrementStockIfAvailable(ctx context.Context, productID int64, qty int) (int64, error) {
	return u.products.DecrementIfAvailable(ctx, productID, qty)
}

func (u *pgUnit) CreateOrderLine(ctx context.Context, line domain.OrderLine) error {
	return u.orders.CreateLine(ctx, line)
}

func (u *pgUnit) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return repository.MapError("commit", "order", err)
	}
	return nil
}

func (u *pgUnit) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err == nil || errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return repository.MapError("rollback", "order", err)
}
