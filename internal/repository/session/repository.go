package session

import (
	"context"
	"time"
)

// Session is an issued auth token bound to a user.
type Session struct {
	Token     string
	UserID    string
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteByUser removes every session for the user, invalidating any
	// active login when the account is deleted.
	DeleteByUser(ctx context.Context, userID string) error
}
