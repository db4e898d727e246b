package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superstore/internal/domain"
	"superstore/internal/testdb"
)

func TestPostgres_CreateAndGetByMobile(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testdb.Pool(t), nil)

	_, err := repo.GetByMobile(ctx, "9876543210")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	email := "asha@example.com"
	id, err := repo.Create(ctx, "Asha", "9876543210", &email)
	require.NoError(t, err)

	got, err := repo.GetByMobile(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Asha", got.Name)
	require.NotNil(t, got.Email)
	assert.Equal(t, email, *got.Email)

	noEmail, err := repo.Create(ctx, "Ravi", "9000000001", nil)
	require.NoError(t, err)
	ravi, err := repo.GetByMobile(ctx, "9000000001")
	require.NoError(t, err)
	assert.Equal(t, noEmail, ravi.ID)
	assert.Nil(t, ravi.Email)
}

func TestPostgres_MobileIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testdb.Pool(t), nil)

	_, err := repo.Create(ctx, "Asha", "9876543210", nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Someone Else", "9876543210", nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}
