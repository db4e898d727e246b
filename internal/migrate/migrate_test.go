package migrate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"superstore/internal/migrate"
	"superstore/internal/testdb"
)

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(t)

	require.NoError(t, migrate.Apply(ctx, pool))

	var n int
	err := pool.QueryRow(ctx, `
SELECT count(*) FROM information_schema.tables
WHERE table_schema = 'public' AND table_name IN ('products', 'customers', 'orders', 'order_items', 'users', 'tokens')
`).Scan(&n)
	require.NoError(t, err)
	require.Equal(t, 6, n)
}

func TestSchema_RejectsNegativeStock(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(t)

	_, err := pool.Exec(ctx, `INSERT INTO products (name, price, stock_quantity) VALUES ('Pen', 10, -1)`)
	require.Error(t, err)
}
