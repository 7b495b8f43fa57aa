package guest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Service hands out short-lived tokens that identify guest shoppers
// before they register. The token maps to a cart owner key, so a guest
// cart survives across requests without a user account.
type Service struct {
	tokens *tokenManager
	ttl    time.Duration
}

func New() *Service {
	return &Service{
		tokens: newTokenManager(),
		ttl:    3 * time.Hour,
	}
}

// Issue creates a fresh guest identity and returns its token and cart
// owner key.
func (s *Service) Issue(ctx context.Context) (token, ownerKey string, err error) {
	ownerKey = "guest:" + uuid.NewString()
	token, err = s.tokens.Issue(ownerKey, s.ttl)
	if err != nil {
		return "", "", err
	}
	return token, ownerKey, nil
}

// LookupByToken resolves a guest token back to its cart owner key.
func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	ownerKey, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return ownerKey, nil
}

func (s *Service) TTLSeconds() int {
	return int(s.ttl.Seconds())
}
