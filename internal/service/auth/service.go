// Package auth verifies operator credentials and issues access tokens.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"superstore/internal/domain"
	"superstore/internal/logging"
	tokenrepo "superstore/internal/repository/token"
	userrepo "superstore/internal/repository/user"
)

// Service handles operator login and token lookups.
type Service struct {
	users  userrepo.Repository
	tokens *tokenManager
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a Service issuing tokens valid for ttl.
func New(users userrepo.Repository, tokens tokenrepo.Repository, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		users:  users,
		tokens: newTokenManager(tokens),
		ttl:    ttl,
		logger: logging.OrNop(logger),
	}
}

// HashPassword returns the bcrypt hash stored for an operator.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Authenticate checks username and password and that the account holds role.
// Unknown users, wrong passwords and role mismatches all yield domain.ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("auth: unknown user", zap.String("username", username))
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("auth: bad password", zap.String("username", username))
		return nil, domain.ErrUnauthorized
	}
	if u.Role != role {
		s.logger.Info("auth: role mismatch", zap.String("username", username), zap.String("role", string(role)))
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// IssueToken stores a fresh access token for u.
func (s *Service) IssueToken(ctx context.Context, u *domain.User) (string, error) {
	return s.tokens.Issue(ctx, u.ID, s.ttl)
}

// LookupByToken returns the operator bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// TTLSeconds exposes the token lifetime in seconds.
func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
