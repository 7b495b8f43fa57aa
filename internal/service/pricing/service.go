package pricing

import (
	"context"
	"errors"

	"milsabores/internal/clock"
	"milsabores/internal/discount"
	"milsabores/internal/domain"
	"milsabores/internal/eligibility"
)

// Service prices carts. Stored carts always keep raw catalog prices; the
// discount engine runs on read, so re-pricing never compounds on its own
// output.
type Service struct {
	carts cartRepo
	users userRepo
	clock clock.Clock
}

type cartRepo interface {
	Load(ctx context.Context, owner string) ([]domain.LineItem, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

func New(carts cartRepo, users userRepo, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{carts: carts, users: users, clock: clk}
}

// PricedCart is the discount engine's output plus totals. Subtotal is the
// pre-discount sum, Total the sum after rules applied.
type PricedCart struct {
	Lines    []domain.LineItem `json:"lines"`
	Subtotal int64             `json:"subtotal"`
	Total    int64             `json:"total"`
}

// PriceCart loads the owner's cart and applies the discount rules for the
// given user. An empty userID is a guest: the cart comes back unpriced,
// since discounts require a resolved profile. A non-empty userID that does
// not resolve returns domain.ErrNotFound.
func (s *Service) PriceCart(ctx context.Context, owner, userID, manualCode string) (*PricedCart, error) {
	lines, err := s.carts.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	subtotal := domain.Subtotal(lines)

	if userID == "" {
		return &PricedCart{Lines: lines, Subtotal: subtotal, Total: subtotal}, nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	elig := eligibility.Evaluate(u, now)
	priced := discount.Apply(lines, elig, manualCode, now)
	return &PricedCart{
		Lines:    priced,
		Subtotal: subtotal,
		Total:    domain.Subtotal(priced),
	}, nil
}

// ActiveDiscounts lists the discounts currently active for the user, for
// display. It shares the engine's predicates, so it cannot drift from what
// PriceCart applies.
func (s *Service) ActiveDiscounts(ctx context.Context, userID string) ([]domain.ActiveDiscount, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return discount.Active(eligibility.Evaluate(u, s.clock.Now()), s.clock.Now()), nil
}
