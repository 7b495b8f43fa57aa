package cart

import (
	"context"

	"milsabores/internal/domain"
)

// Repository persists carts as per-owner documents. Owner keys are opaque:
// user-scoped or guest-scoped, the cart does not care which.
type Repository interface {
	// Load returns the stored lines for the owner. A missing or corrupt
	// document yields an empty cart, never an error the caller must
	// handle.
	Load(ctx context.Context, owner string) ([]domain.LineItem, error)
	Save(ctx context.Context, owner string, lines []domain.LineItem) error
	Delete(ctx context.Context, owner string) error
}
