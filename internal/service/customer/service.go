// Package customer resolves the shopper at the till to a stored customer record.
package customer

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"superstore/internal/domain"
	"superstore/internal/logging"
)

const mobileLength = 10

// Input is the customer detail typed in at checkout.
type Input struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	Email  string `json:"email,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (in Input) Normalize() Input {
	return Input{
		Name:   strings.TrimSpace(in.Name),
		Mobile: strings.TrimSpace(in.Mobile),
		Email:  strings.TrimSpace(in.Email),
	}
}

// Validate rejects a blank name or a mobile that is not exactly ten digits.
func (in Input) Validate() error {
	n := in.Normalize()
	if n.Name == "" {
		return domain.NewValidationError("name", "customer name is required")
	}
	if !validMobile(n.Mobile) {
		return domain.NewValidationError("mobile", "mobile number must be exactly 10 digits")
	}
	return nil
}

func validMobile(s string) bool {
	if len(s) != mobileLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Store is the part of a unit of work the resolver needs.
type Store interface {
	FindCustomerByMobile(ctx context.Context, mobile string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, name, mobile string, email *string) (int64, error)
}

// Resolver maps a mobile number to a customer, creating one on first visit.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver returns a Resolver.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logging.OrNop(logger)}
}

// Resolve returns the stored customer for in.Mobile. A returning customer keeps
// the stored name whatever name was typed. A new customer is created with the
// given details; a blank email is stored as absent.
//
// store must be the caller's open unit of work so that a customer created here
// disappears if the order is rolled back.
func (r *Resolver) Resolve(ctx context.Context, store Store, in Input) (*domain.Customer, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := store.FindCustomerByMobile(ctx, in.Mobile)
	switch {
	case err == nil:
		r.logger.Debug("customer: returning", zap.Int64("customer_id", existing.ID), zap.String("mobile", in.Mobile))
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	var email *string
	if in.Email != "" {
		email = &in.Email
	}
	id, err := store.CreateCustomer(ctx, in.Name, in.Mobile, email)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// registered concurrently by another till
		return store.FindCustomerByMobile(ctx, in.Mobile)
	}
	if err != nil {
		return nil, err
	}
	r.logger.Info("customer: created", zap.Int64("customer_id", id), zap.String("mobile", in.Mobile))
	return &domain.Customer{ID: id, Name: in.Name, MobileNumber: in.Mobile, Email: email}, nil
}
