package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"superstore/internal/domain"
)

const (
	minConns    = 8
	pingTimeout = 5 * time.Second
)

// Connect opens the shared pool every repository and checkout unit draws
// from. An unreachable or refusing server surfaces as
// *domain.StorageUnavailableError so callers can report it without
// inspecting driver errors.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute
	// one connection per in-flight checkout; keep room for concurrent terminals
	if cfg.MaxConns < minConns {
		cfg.MaxConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &domain.StorageUnavailableError{Op: "connect", Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, &domain.StorageUnavailableError{Op: "ping", Err: err}
	}

	return pool, nil
}
