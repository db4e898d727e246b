// Package repository holds the pieces shared by the Postgres repositories.
package repository

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"superstore/internal/domain"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx, so a repository
// can run either on the pool or inside a caller's transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgFKViolation     = "23503"
	pgDeadlock        = "40P01"
	pgSerialization   = "40001"
	pgDataException   = "22"
)

// MapError translates driver errors into the domain taxonomy.
// pgx.ErrNoRows becomes domain.ErrNotFound; constraint violations become
// *domain.IntegrityError; out-of-range or malformed values (class 22) become
// *domain.ValidationError; connectivity failures become *domain.StorageUnavailableError.
func MapError(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &domain.IntegrityError{Entity: entity, Detail: "already exists", Err: domain.ErrAlreadyExists}
		case pgCheckViolation, pgFKViolation:
			return &domain.IntegrityError{Entity: entity, Detail: pgErr.Message, Err: err}
		case pgDeadlock, pgSerialization:
			// the transaction was aborted by the server and can be retried as a whole
			return &domain.StorageUnavailableError{Op: op, Err: err}
		}
		if strings.HasPrefix(pgErr.Code, pgDataException) {
			field := pgErr.ColumnName
			if field == "" {
				field = entity
			}
			return &domain.ValidationError{Field: field, Reason: pgErr.Message}
		}
		// insufficient privilege / invalid authorization
		if pgErr.Code == "42501" || strings.HasPrefix(pgErr.Code, "28") || strings.HasPrefix(pgErr.Code, "08") {
			return &domain.StorageUnavailableError{Op: op, Err: err}
		}
		return err
	}
	if IsConnectivity(err) {
		return &domain.StorageUnavailableError{Op: op, Err: err}
	}
	return err
}

// IsConnectivity reports whether err means the database could not be reached.
func IsConnectivity(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || pgconn.SafeToRetry(err)
}
