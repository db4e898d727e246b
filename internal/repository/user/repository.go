package user

import (
	"context"

	"superstore/internal/domain"
)

// Repository looks up store operators.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Upsert(ctx context.Context, username, passwordHash string, role domain.Role) (*domain.User, error)
}
