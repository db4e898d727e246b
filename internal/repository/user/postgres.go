package user

import (
	"context"

	"superstore/internal/domain"
	"superstore/internal/repository"
)

type postgresRepo struct {
	db repository.DBTX
}

func NewPostgres(db repository.DBTX) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `
SELECT id, username, password_hash, role, created_at
FROM users
WHERE username = $1
`
	return scanUser(r.db.QueryRow(ctx, q, username))
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `
SELECT id, username, password_hash, role, created_at
FROM users
WHERE id = $1
`
	return scanUser(r.db.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Upsert(ctx context.Context, username, passwordHash string, role domain.Role) (*domain.User, error) {
	const q = `
INSERT INTO users (username, password_hash, role)
VALUES ($1, $2, $3)
ON CONFLICT (username) DO UPDATE
SET password_hash = EXCLUDED.password_hash,
    role = EXCLUDED.role
RETURNING id, username, password_hash, role, created_at
`
	return scanUser(r.db.QueryRow(ctx, q, username, passwordHash, string(role)))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return nil, repository.MapError("get user", "user", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}
