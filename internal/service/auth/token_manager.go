package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"superstore/internal/domain"
	tokenrepo "superstore/internal/repository/token"
)

const issueAttempts = 5

type tokenManager struct {
	repo tokenrepo.Repository
	now  func() time.Time
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{
		repo: repo,
		now:  time.Now,
	}
}

func (m *tokenManager) Issue(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	expiresAt := m.now().Add(ttl)
	for i := 0; i < issueAttempts; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

// Validate returns the owner of a live token. Expired tokens are removed.
func (m *tokenManager) Validate(ctx context.Context, token string) (int64, bool) {
	meta, err := m.repo.Get(ctx, token)
	if err != nil {
		return 0, false
	}
	if m.now().After(meta.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return 0, false
	}
	return meta.UserID, true
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
