// Package cart implements the in-memory cart aggregate: an ordered sequence
// of line items unique by product id, mutated only through operations that
// keep quantities positive. Rendering and persistence live elsewhere;
// interested parties subscribe through OnChange.
package cart

import (
	"milsabores/internal/domain"
	"milsabores/internal/money"
)

// Catalog resolves products referenced by id.
type Catalog interface {
	ProductByID(id string) *domain.Product
}

// InlineProduct carries product data supplied directly by the caller
// instead of a catalog reference. Price accepts either plain digits or a
// formatted currency string ("$45.000"); it is normalized on insertion and
// unparseable input becomes 0.
type InlineProduct struct {
	ID       string
	Name     string
	Price    string
	Image    string
	Category string
}

// ItemRef identifies what to add: a catalog id or an inline product.
// Construct one with FromCatalogID or FromInlineProduct.
type ItemRef struct {
	catalogID string
	inline    *InlineProduct
}

// FromCatalogID references a product to be resolved against the catalog.
func FromCatalogID(id string) ItemRef {
	return ItemRef{catalogID: id}
}

// FromInlineProduct wraps caller-supplied product data.
func FromInlineProduct(p InlineProduct) ItemRef {
	return ItemRef{inline: &p}
}

// Cart is the aggregate root. It is not safe for concurrent use; a cart
// belongs to a single session.
type Cart struct {
	catalog   Catalog
	lines     []domain.LineItem
	observers []func([]domain.LineItem)
}

// New returns an empty cart. catalog may be nil when only inline adds are
// expected.
func New(catalog Catalog) *Cart {
	return &Cart{catalog: catalog}
}

// Restore rebuilds a cart from persisted lines, dropping any line that
// violates the positive-quantity invariant.
func Restore(catalog Catalog, lines []domain.LineItem) *Cart {
	c := New(catalog)
	for _, li := range lines {
		if li.Quantity < 1 || li.ProductID == "" {
			continue
		}
		c.lines = append(c.lines, li)
	}
	return c
}

// OnChange registers a callback fired after every successful mutation with
// a copy of the current lines.
func (c *Cart) OnChange(fn func([]domain.LineItem)) {
	c.observers = append(c.observers, fn)
}

// Add resolves the reference and merges it into the cart: an existing line
// with the same product id gets its quantity incremented, otherwise a new
// line is appended. quantity values below 1 default to 1. Unknown catalog
// ids return domain.ErrNotFound.
func (c *Cart) Add(ref ItemRef, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	var line domain.LineItem
	switch {
	case ref.inline != nil:
		line = domain.LineItem{
			ProductID: ref.inline.ID,
			Name:      ref.inline.Name,
			Price:     money.ParsePrice(ref.inline.Price),
			Image:     ref.inline.Image,
			Category:  ref.inline.Category,
		}
	case ref.catalogID != "":
		if c.catalog == nil {
			return domain.ErrNotFound
		}
		p := c.catalog.ProductByID(ref.catalogID)
		if p == nil {
			return domain.ErrNotFound
		}
		line = domain.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.Image,
			Category:  p.Category,
		}
	default:
		return domain.ErrNotFound
	}

	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantity += quantity
			c.notify()
			return nil
		}
	}
	line.Quantity = quantity
	c.lines = append(c.lines, line)
	c.notify()
	return nil
}

// UpdateQuantity adds delta to the item's quantity. A result of zero or
// less removes the line entirely; a missing product id is a no-op.
func (c *Cart) UpdateQuantity(productID string, delta int) {
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		c.lines[i].Quantity += delta
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		c.notify()
		return
	}
}

// Remove deletes the line if present. Absent ids are not an error.
func (c *Cart) Remove(productID string) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.notify()
			return
		}
	}
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []domain.LineItem {
	out := make([]domain.LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal is the sum of price times quantity over all lines.
func (c *Cart) Subtotal() int64 {
	return domain.Subtotal(c.lines)
}

// Len reports the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) notify() {
	if len(c.observers) == 0 {
		return
	}
	snapshot := c.Lines()
	for _, fn := range c.observers {
		fn(snapshot)
	}
}
