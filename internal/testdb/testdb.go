// Package testdb provides a migrated Postgres pool for integration tests.
//
// TEST_DB_DSN points the tests at an existing database. Without it a
// postgres:16-alpine container is started once per test binary; tests are
// skipped when no container provider is reachable.
package testdb

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"superstore/internal/migrate"
)

var (
	once   sync.Once
	dsn    string
	setupE error
)

// Pool returns a pool on a freshly truncated, fully migrated database.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	if os.Getenv("TEST_DB_DSN") == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}
	once.Do(func() { dsn, setupE = resolveDSN(ctx) })
	if setupE != nil {
		t.Skipf("postgres unavailable: %v", setupE)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	Reset(ctx, t, pool)
	return pool
}

// Reset empties every table and restarts identities.
func Reset(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, customers, products, tokens, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func resolveDSN(ctx context.Context) (string, error) {
	if v := os.Getenv("TEST_DB_DSN"); v != "" {
		return v, nil
	}
	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("superstore_test"),
		postgres.WithUsername("superstore"),
		postgres.WithPassword("superstore"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return "", err
	}
	return ctr.ConnectionString(ctx, "sslmode=disable")
}
