package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"superstore/internal/domain"
	"superstore/internal/logging"
	"superstore/internal/repository"
)

type postgresRepo struct {
	db     repository.DBTX
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(db repository.DBTX, logger *zap.Logger) Repository {
	return &postgresRepo{db: db, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) Create(ctx context.Context, customerID int64, total decimal.Decimal) (int64, time.Time, error) {
	const q = `
INSERT INTO orders (customer_id, total_amount)
VALUES ($1, $2)
RETURNING id, created_at
`
	var (
		id        int64
		createdAt time.Time
	)
	if err := r.db.QueryRow(ctx, q, customerID, total).Scan(&id, &createdAt); err != nil {
		r.logger.Error("order repo: create", zap.Int64("customer_id", customerID), zap.Error(err))
		return 0, time.Time{}, repository.MapError("create order", "order", err)
	}
	return id, createdAt, nil
}

func (r *postgresRepo) CreateLine(ctx context.Context, line domain.OrderLine) error {
	const q = `
INSERT INTO order_items (order_id, product_id, quantity, price_at_sale)
VALUES ($1, $2, $3, $4)
`
	if _, err := r.db.Exec(ctx, q, line.OrderID, line.ProductID, line.Quantity, line.PriceAtSale); err != nil {
		r.logger.Error("order repo: create line",
			zap.Int64("order_id", line.OrderID),
			zap.Int64("product_id", line.ProductID),
			zap.Error(err))
		return repository.MapError("create order line", "order item", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const orderQuery = `
SELECT o.id, o.customer_id, o.total_amount, o.created_at,
       c.id, c.name, c.mobile_number, c.email, c.created_at
FROM orders o
JOIN customers c ON c.id = o.customer_id
WHERE o.id = $1
`
	var o domain.Order
	err := r.db.QueryRow(ctx, orderQuery, id).Scan(
		&o.ID,
		&o.CustomerID,
		&o.TotalAmount,
		&o.CreatedAt,
		&o.Customer.ID,
		&o.Customer.Name,
		&o.Customer.MobileNumber,
		&o.Customer.Email,
		&o.Customer.CreatedAt,
	)
	if err != nil {
		return nil, repository.MapError("get order", "order", err)
	}

	const linesQuery = `
SELECT oi.order_id, oi.product_id, p.name, oi.quantity, oi.price_at_sale
FROM order_items oi
JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = $1
ORDER BY oi.id
`
	rows, err := r.db.Query(ctx, linesQuery, id)
	if err != nil {
		return nil, repository.MapError("get order lines", "order", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.PriceAtSale); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapError("get order lines", "order", err)
	}
	return &o, nil
}

func (r *postgresRepo) SumTotals(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM orders`).Scan(&total); err != nil {
		r.logger.Error("order repo: sum totals", zap.Error(err))
		return decimal.Zero, repository.MapError("sum order totals", "order", err)
	}
	return total, nil
}
