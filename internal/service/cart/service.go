package cart

import (
	"context"

	cartagg "milsabores/internal/cart"
	"milsabores/internal/domain"
	cartrepo "milsabores/internal/repository/cart"
)

// Service bridges the in-memory cart aggregate and its persistence. Each
// operation loads the owner's stored lines, runs the aggregate operation and
// writes back the result when anything changed.
type Service struct {
	repo     cartrepo.Repository
	products productRepo
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

// View is a cart presented to callers.
type View struct {
	Lines    []domain.LineItem `json:"lines"`
	Subtotal int64             `json:"subtotal"`
}

// catalogAdapter satisfies the aggregate's synchronous catalog lookup with
// the request-scoped repository.
type catalogAdapter struct {
	ctx      context.Context
	products productRepo
}

func (a catalogAdapter) ProductByID(id string) *domain.Product {
	if a.products == nil {
		return nil
	}
	p, err := a.products.GetByID(a.ctx, id)
	if err != nil {
		return nil
	}
	return p
}

// Get returns the owner's cart. A missing or corrupt stored cart reads as
// empty.
func (s *Service) Get(ctx context.Context, owner string) (*View, error) {
	agg, err := s.restore(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &View{Lines: agg.Lines(), Subtotal: agg.Subtotal()}, nil
}

// AddProduct adds a catalog product by id.
func (s *Service) AddProduct(ctx context.Context, owner, productID string, quantity int) (*View, error) {
	return s.mutate(ctx, owner, func(agg *cartagg.Cart) error {
		return agg.Add(cartagg.FromCatalogID(productID), quantity)
	})
}

// AddInline adds caller-supplied product data.
func (s *Service) AddInline(ctx context.Context, owner string, p cartagg.InlineProduct, quantity int) (*View, error) {
	return s.mutate(ctx, owner, func(agg *cartagg.Cart) error {
		return agg.Add(cartagg.FromInlineProduct(p), quantity)
	})
}

// UpdateQuantity shifts a line's quantity by delta, removing the line when
// it reaches zero.
func (s *Service) UpdateQuantity(ctx context.Context, owner, productID string, delta int) (*View, error) {
	return s.mutate(ctx, owner, func(agg *cartagg.Cart) error {
		agg.UpdateQuantity(productID, delta)
		return nil
	})
}

// Remove deletes a line; absent ids are a no-op.
func (s *Service) Remove(ctx context.Context, owner, productID string) (*View, error) {
	return s.mutate(ctx, owner, func(agg *cartagg.Cart) error {
		agg.Remove(productID)
		return nil
	})
}

// Clear drops the owner's cart entirely.
func (s *Service) Clear(ctx context.Context, owner string) error {
	return s.repo.Delete(ctx, owner)
}

func (s *Service) restore(ctx context.Context, owner string) (*cartagg.Cart, error) {
	lines, err := s.repo.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return cartagg.Restore(catalogAdapter{ctx: ctx, products: s.products}, lines), nil
}

func (s *Service) mutate(ctx context.Context, owner string, op func(*cartagg.Cart) error) (*View, error) {
	agg, err := s.restore(ctx, owner)
	if err != nil {
		return nil, err
	}

	var latest []domain.LineItem
	changed := false
	agg.OnChange(func(lines []domain.LineItem) {
		latest = lines
		changed = true
	})

	if err := op(agg); err != nil {
		return nil, err
	}
	if changed {
		if err := s.repo.Save(ctx, owner, latest); err != nil {
			return nil, err
		}
	}
	return &View{Lines: agg.Lines(), Subtotal: agg.Subtotal()}, nil
}
