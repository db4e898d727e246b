package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"superstore/internal/domain"
	"superstore/internal/logging"
	"superstore/internal/repository/user"
)

type productSeed struct {
	Name  string
	Price string
	Stock int
}

var demoProducts = []productSeed{
	{Name: "Pen", Price: "10.00", Stock: 100},
	{Name: "Book", Price: "150.00", Stock: 20},
	{Name: "Notebook", Price: "45.50", Stock: 50},
}

// Users carries the demo operator passwords.
type Users struct {
	CashierPassword string
	AdminPassword   string
}

// Hasher turns a password into the stored hash.
type Hasher func(password string) (string, error)

// Apply inserts demo products and operators for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool, users Users, hash Hasher, logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	for _, p := range demoProducts {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	return SeedUsers(ctx, user.NewPostgres(pool, logger), users, hash)
}

// SeedUsers upserts the cashier and admin accounts into repo.
func SeedUsers(ctx context.Context, repo user.Repository, users Users, hash Hasher) error {
	for _, u := range []struct {
		name     string
		password string
		role     domain.Role
	}{
		{"cashier", users.CashierPassword, domain.RoleBilling},
		{"admin", users.AdminPassword, domain.RoleAdmin},
	} {
		if u.password == "" {
			return fmt.Errorf("seed user %s: empty password", u.name)
		}
		h, err := hash(u.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.name, err)
		}
		if _, err := repo.Upsert(ctx, u.name, h, u.role); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.name, err)
		}
	}
	return nil
}

// Products returns the demo catalog for in-process stores.
func Products() []domain.Product {
	out := make([]domain.Product, 0, len(demoProducts))
	for _, p := range demoProducts {
		out = append(out, domain.Product{Name: p.Name, Price: decimal.RequireFromString(p.Price), StockQuantity: p.Stock})
	}
	return out
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (name, price, stock_quantity)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE
SET price = EXCLUDED.price
`
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, q, p.Name, price, p.Stock); err != nil {
		return err
	}
	return nil
}
