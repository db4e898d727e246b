package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superstore/internal/domain"
	"superstore/internal/testdb"
)

func TestPostgres_CreateListAndDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testdb.Pool(t), nil)

	pen, err := repo.Create(ctx, "Pen", decimal.RequireFromString("10.00"), 5)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Book", decimal.RequireFromString("150.00"), 2)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "Pen", decimal.RequireFromString("11.00"), 1)
	var integrity *domain.IntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, pen.ID, list[0].ID)
	assert.True(t, list[0].Price.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, "Book", list[1].Name)
}

func TestPostgres_GuardedDecrement(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testdb.Pool(t), nil)

	p, err := repo.Create(ctx, "Pen", decimal.RequireFromString("10.00"), 5)
	require.NoError(t, err)

	n, err := repo.DecrementIfAvailable(ctx, p.ID, 6)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.DecrementIfAvailable(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.DecrementIfAvailable(ctx, 999, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)
}

func TestPostgres_AddStock(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testdb.Pool(t), nil)

	p, err := repo.Create(ctx, "Pen", decimal.RequireFromString("10.00"), 1)
	require.NoError(t, err)

	updated, err := repo.AddStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.StockQuantity)

	_, err = repo.AddStock(ctx, 12345, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
