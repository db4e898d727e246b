package product

import (
	"context"

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

// NewPostgres returns a Repository running on db, which may be the pool or an open transaction.
func NewPostgres(db repository.DBTX, logger *zap.Logger) Repository {
	return &postgresRepo{db: db, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, name, price, stock_quantity, created_at
FROM products
ORDER BY id
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, repository.MapError("list products", "product", err)
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.Error(err))
		return nil, repository.MapError("list products", "product", err)
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
SELECT id, name, price, stock_quantity, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.db.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.CreatedAt)
	if err != nil {
		return nil, repository.MapError("get product", "product", err)
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, name string, price decimal.Decimal, stock int) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, price, stock_quantity)
VALUES ($1, $2, $3)
RETURNING id, name, price, stock_quantity, created_at
`
	var p domain.Product
	err := r.db.QueryRow(ctx, q, name, price, stock).Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.CreatedAt)
	if err != nil {
		r.logger.Warn("product repo: create", zap.String("name", name), zap.Error(err))
		return nil, repository.MapError("create product", "product "+name, err)
	}
	r.logger.Info("product repo: created", zap.Int64("product_id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

// AddStock increases stock in a single statement so it never races the guarded decrement.
func (r *postgresRepo) AddStock(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	const q = `
UPDATE products
SET stock_quantity = stock_quantity + $1
WHERE id = $2
RETURNING id, name, price, stock_quantity, created_at
`
	var p domain.Product
	err := r.db.QueryRow(ctx, q, qty, id).Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity, &p.CreatedAt)
	if err != nil {
		return nil, repository.MapError("add stock", "product", err)
	}
	r.logger.Info("product repo: stock added", zap.Int64("product_id", id), zap.Int("added", qty), zap.Int("stock", p.StockQuantity))
	return &p, nil
}

// DecrementIfAvailable is the guarded decrement: the check and the write are one
// statement, so it returns 0 rows when stock is short or the product is unknown.
func (r *postgresRepo) DecrementIfAvailable(ctx context.Context, id int64, qty int) (int64, error) {
	const q = `
UPDATE products
SET stock_quantity = stock_quantity - $1
WHERE id = $2 AND stock_quantity >= $1
`
	tag, err := r.db.Exec(ctx, q, qty, id)
	if err != nil {
		r.logger.Error("product repo: decrement", zap.Int64("product_id", id), zap.Int("qty", qty), zap.Error(err))
		return 0, repository.MapError("decrement stock", "product", err)
	}
	return tag.RowsAffected(), nil
}
