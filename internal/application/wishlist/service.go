package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
)

const maxWishlistsPerUser = 10

type Store interface {
	Put(ctx context.Context, w *domain.Wishlist) error
	Get(ctx context.Context, wishlistID string) (*domain.Wishlist, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Wishlist, error)
	Delete(ctx context.Context, wishlistID string) error
}

type ProductGetter interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
}

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateWishlistRequest) (*domain.Wishlist, error)
	Get(ctx context.Context, userID, wishlistID string) (*domain.Wishlist, error)
	ListMine(ctx context.Context, userID string) ([]domain.Wishlist, error)
	AddItem(ctx context.Context, userID, wishlistID string, req domain.AddWishlistItemRequest) (*domain.Wishlist, error)
	RemoveItem(ctx context.Context, userID, wishlistID, productID string) (*domain.Wishlist, error)
	Delete(ctx context.Context, userID, wishlistID string) error
}

type service struct {
	wishlists Store
	products  ProductGetter
	now       func() time.Time
}

func NewService(wishlists Store, products ProductGetter) Service {
	return &service{wishlists: wishlists, products: products, now: time.Now}
}

// Create adds a named list. The user's first list becomes the default.
func (s *service) Create(ctx context.Context, userID string, req domain.CreateWishlistRequest) (*domain.Wishlist, error) {
	existing, err := s.wishlists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= maxWishlistsPerUser {
		return nil, fmt.Errorf("wishlist limit reached: %w", domain.ErrBadRequest)
	}
	for _, w := range existing {
		if w.Name == req.Name {
			return nil, fmt.Errorf("wishlist %q already exists: %w", req.Name, domain.ErrConflict)
		}
	}

	now := s.now().UTC()
	w := &domain.Wishlist{
		WishlistID: id.New(),
		UserID:     userID,
		Name:       req.Name,
		IsDefault:  len(existing) == 0,
		IsPublic:   req.IsPublic,
		Items:      []domain.WishlistItem{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.wishlists.Put(ctx, w); err != nil {
		return nil, fmt.Errorf("create wishlist: %w", err)
	}
	return w, nil
}

// Get fetches a list. Private lists are visible only to their owner.
func (s *service) Get(ctx context.Context, userID, wishlistID string) (*domain.Wishlist, error) {
	w, err := s.wishlists.Get(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID && !w.IsPublic {
		return nil, domain.ErrForbidden
	}
	return w, nil
}

func (s *service) ListMine(ctx context.Context, userID string) ([]domain.Wishlist, error) {
	return s.wishlists.ListByUser(ctx, userID)
}

func (s *service) AddItem(ctx context.Context, userID, wishlistID string, req domain.AddWishlistItemRequest) (*domain.Wishlist, error) {
	w, err := s.owned(ctx, userID, wishlistID)
	if err != nil {
		return nil, err
	}
	if _, err := s.products.Get(ctx, req.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product not found: %w", domain.ErrBadRequest)
		}
		return nil, err
	}
	for _, it := range w.Items {
		if it.ProductID == req.ProductID {
			return nil, fmt.Errorf("product already on the list: %w", domain.ErrConflict)
		}
	}

	w.Items = append(w.Items, domain.WishlistItem{
		ProductID:   req.ProductID,
		TargetPrice: req.TargetPrice,
		AddedAt:     s.now().UTC(),
	})
	w.UpdatedAt = s.now().UTC()
	if err := s.wishlists.Put(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) RemoveItem(ctx context.Context, userID, wishlistID, productID string) (*domain.Wishlist, error) {
	w, err := s.owned(ctx, userID, wishlistID)
	if err != nil {
		return nil, err
	}
	items := make([]domain.WishlistItem, 0, len(w.Items))
	found := false
	for _, it := range w.Items {
		if it.ProductID == productID {
			found = true
			continue
		}
		items = append(items, it)
	}
	if !found {
		return nil, fmt.Errorf("product not on the list: %w", domain.ErrNotFound)
	}
	w.Items = items
	w.UpdatedAt = s.now().UTC()
	if err := s.wishlists.Put(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) Delete(ctx context.Context, userID, wishlistID string) error {
	if _, err := s.owned(ctx, userID, wishlistID); err != nil {
		return err
	}
	return s.wishlists.Delete(ctx, wishlistID)
}

func (s *service) owned(ctx context.Context, userID, wishlistID string) (*domain.Wishlist, error) {
	w, err := s.wishlists.Get(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return w, nil
}
