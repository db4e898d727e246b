package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"superstore/internal/domain"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError("op", "product", nil))
	assert.ErrorIs(t, MapError("op", "product", pgx.ErrNoRows), domain.ErrNotFound)

	dup := MapError("create", "product", &pgconn.PgError{Code: "23505"})
	var integrity *domain.IntegrityError
	assert.ErrorAs(t, dup, &integrity)
	assert.ErrorIs(t, dup, domain.ErrAlreadyExists)
	assert.Equal(t, "product", integrity.Entity)

	check := MapError("create", "product", &pgconn.PgError{Code: "23514", Message: "violates check"})
	assert.ErrorAs(t, check, &integrity)

	auth := MapError("list", "product", &pgconn.PgError{Code: "28P01"})
	var unavailable *domain.StorageUnavailableError
	assert.ErrorAs(t, auth, &unavailable)
	assert.Equal(t, "list", unavailable.Op)

	deadlock := MapError("decrement stock", "product", &pgconn.PgError{Code: "40P01"})
	assert.ErrorAs(t, deadlock, &unavailable)
	assert.Equal(t, "decrement stock", unavailable.Op)

	overflow := MapError("add stock", "product", &pgconn.PgError{Code: "22003", Message: "integer out of range"})
	var validation *domain.ValidationError
	assert.ErrorAs(t, overflow, &validation)
	assert.Equal(t, "product", validation.Field)
	assert.Equal(t, "integer out of range", validation.Reason)

	numeric := MapError("create order", "order", &pgconn.PgError{Code: "22003", ColumnName: "total_amount"})
	assert.ErrorAs(t, numeric, &validation)
	assert.Equal(t, "total_amount", validation.Field)

	timeout := MapError("list", "product", context.DeadlineExceeded)
	assert.ErrorAs(t, timeout, &unavailable)

	other := errors.New("boom")
	assert.Equal(t, other, MapError("op", "product", other))
}
