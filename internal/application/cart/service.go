package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
)

const (
	// taxBasisPoints is the flat sales-tax rate applied to the subtotal.
	taxBasisPoints = 500 // 5%

	// bulkDiscountBasisPoints kicks in once the subtotal crosses the
	// threshold.
	bulkDiscountBasisPoints = 200 // 2%
	bulkDiscountThreshold   = 100_00

	cartTTL = 72 * time.Hour
)

type Store interface {
	Put(ctx context.Context, c *domain.Cart) error
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	GetActiveByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Delete(ctx context.Context, cartID string) error
}

type ProductGetter interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
}

type Service interface {
	Active(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, req domain.AddCartItemRequest) (*domain.Cart, error)
	UpdateItem(ctx context.Context, userID, productID string, req domain.UpdateCartItemRequest) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
	Checkout(ctx context.Context, userID string) (*domain.Cart, error)
}

type service struct {
	carts    Store
	products ProductGetter
	now      func() time.Time
}

func NewService(carts Store, products ProductGetter) Service {
	return &service{carts: carts, products: products, now: time.Now}
}

// ComputeTotals derives the money fields from the items alone. It is the only
// place totals are calculated; callers run it immediately before every save.
func ComputeTotals(items []domain.CartItem) domain.CartTotals {
	var subtotal int64
	for _, it := range items {
		subtotal += it.Price * int64(it.Quantity)
	}
	var discount int64
	if subtotal >= bulkDiscountThreshold {
		discount = subtotal * bulkDiscountBasisPoints / 10_000
	}
	taxable := subtotal - discount
	tax := taxable * taxBasisPoints / 10_000
	return domain.CartTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    taxable + tax,
	}
}

// Active returns the user's open cart, creating an empty one on first use.
func (s *service) Active(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.carts.GetActiveByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	expires := now.Add(cartTTL)
	c = &domain.Cart{
		CartID:    id.New(),
		UserID:    userID,
		Status:    domain.CartActive,
		Items:     []domain.CartItem{},
		ExpiresAt: &expires,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.carts.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return c, nil
}

// AddItem puts a product line in the cart, merging quantities on repeat adds.
// The line price is the product's current effective price.
func (s *service) AddItem(ctx context.Context, userID string, req domain.AddCartItemRequest) (*domain.Cart, error) {
	p, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product not found: %w", domain.ErrBadRequest)
		}
		return nil, err
	}
	if !p.Enable {
		return nil, fmt.Errorf("product is unavailable: %w", domain.ErrBadRequest)
	}

	c, err := s.Active(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.Currency == "" {
		c.Currency = p.Currency
	} else if c.Currency != p.Currency {
		return nil, fmt.Errorf("cart currency is %s: %w", c.Currency, domain.ErrBadRequest)
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == req.ProductID {
			c.Items[i].Quantity += req.Quantity
			c.Items[i].Price = p.EffectivePrice()
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, domain.CartItem{
			ProductID: req.ProductID,
			Name:      p.Name,
			Quantity:  req.Quantity,
			Price:     p.EffectivePrice(),
		})
	}
	return s.save(ctx, c)
}

// UpdateItem sets a line's quantity; zero removes the line.
func (s *service) UpdateItem(ctx context.Context, userID, productID string, req domain.UpdateCartItemRequest) (*domain.Cart, error) {
	c, err := s.carts.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("item not in cart: %w", domain.ErrNotFound)
	}
	if req.Quantity == 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		c.Items[idx].Quantity = req.Quantity
	}
	return s.save(ctx, c)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	return s.UpdateItem(ctx, userID, productID, domain.UpdateCartItemRequest{Quantity: 0})
}

func (s *service) Clear(ctx context.Context, userID string) error {
	c, err := s.carts.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.carts.Delete(ctx, c.CartID)
}

// Checkout freezes the cart for payment. Empty carts cannot check out.
func (s *service) Checkout(ctx context.Context, userID string) (*domain.Cart, error) {
	c, err := s.carts.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", domain.ErrBadRequest)
	}
	c.Status = domain.CartCheckout
	return s.save(ctx, c)
}

func (s *service) save(ctx context.Context, c *domain.Cart) (*domain.Cart, error) {
	c.Totals = ComputeTotals(c.Items)
	c.UpdatedAt = s.now().UTC()
	if err := s.carts.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return c, nil
}
