package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

func (r *postgresRepo) GetByMobile(ctx context.Context, mobile string) (*domain.Customer, error) {
	const q = `
SELECT id, name, mobile_number, email, created_at
FROM customers
WHERE mobile_number = $1
LIMIT 1
`
	var c domain.Customer
	err := r.db.QueryRow(ctx, q, mobile).Scan(&c.ID, &c.Name, &c.MobileNumber, &c.Email, &c.CreatedAt)
	if err != nil {
		return nil, repository.MapError("find customer", "customer", err)
	}
	return &c, nil
}

func (r *postgresRepo) Create(ctx context.Context, name, mobile string, email *string) (int64, error) {
	const q = `
INSERT INTO customers (name, mobile_number, email)
VALUES ($1, $2, $3)
ON CONFLICT (mobile_number) DO NOTHING
RETURNING id
`
	var id int64
	if err := r.db.QueryRow(ctx, q, name, mobile, email).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// another transaction registered the same mobile first
			return 0, domain.ErrAlreadyExists
		}
		r.logger.Warn("customer repo: create", zap.String("mobile", mobile), zap.Error(err))
		return 0, repository.MapError("create customer", "customer "+mobile, err)
	}
	r.logger.Info("customer repo: created", zap.Int64("customer_id", id), zap.String("mobile", mobile))
	return id, nil
}
