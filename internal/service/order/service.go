package order

import (
	"context"
	"errors"

	"milsabores/internal/domain"
	orderrepo "milsabores/internal/repository/order"
	"milsabores/internal/service/pricing"

	"github.com/google/uuid"
)

var (
	// ErrEmptyCart is returned when checking out an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProfileRequired is returned when a guest attempts checkout.
	ErrProfileRequired = errors.New("a logged-in profile is required to place an order")
)

// Service turns priced carts into orders.
type Service struct {
	repo    orderrepo.Repository
	pricing pricer
	carts   cartRepo
}

type pricer interface {
	PriceCart(ctx context.Context, owner, userID, manualCode string) (*pricing.PricedCart, error)
}

type cartRepo interface {
	Delete(ctx context.Context, owner string) error
}

func New(repo orderrepo.Repository, pricer pricer, carts cartRepo) *Service {
	return &Service{repo: repo, pricing: pricer, carts: carts}
}

// Checkout prices the owner's cart for the user, persists the snapshot as
// an order and clears the cart.
func (s *Service) Checkout(ctx context.Context, owner, userID, manualCode string) (*domain.Order, error) {
	if userID == "" {
		return nil, ErrProfileRequired
	}
	priced, err := s.pricing.PriceCart(ctx, owner, userID, manualCode)
	if err != nil {
		return nil, err
	}
	if len(priced.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	created, err := s.repo.Create(ctx, domain.Order{
		ID:       uuid.NewString(),
		UserID:   userID,
		Lines:    priced.Lines,
		Subtotal: priced.Subtotal,
		Total:    priced.Total,
		Status:   "confirmed",
	})
	if err != nil {
		return nil, err
	}
	if err := s.carts.Delete(ctx, owner); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns an order by id, scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}
