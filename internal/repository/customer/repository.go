package customer

import (
	"context"

	"superstore/internal/domain"
)

// Repository persists and fetches customers. The mobile number is the lookup key.
type Repository interface {
	GetByMobile(ctx context.Context, mobile string) (*domain.Customer, error)
	Create(ctx context.Context, name, mobile string, email *string) (int64, error)
}
