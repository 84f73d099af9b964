package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	s3infra "github.com/freshcart/freshcart-api/internal/infrastructure/s3"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
	"github.com/freshcart/freshcart-api/internal/pkg/slug"
)

type ProductStore interface {
	Put(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, productID string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	SearchByName(ctx context.Context, term string, limit int32) ([]domain.Product, error)
	Update(ctx context.Context, productID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, productID string) error
}

type CategoryStore interface {
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
	ListSubtree(ctx context.Context, rootID string) ([]domain.Category, error)
}

// ImageStore is the object-storage slice used for product images.
type ImageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service interface {
	Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	Get(ctx context.Context, productID string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	Search(ctx context.Context, term string, limit int32) ([]domain.Product, error)
	Update(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error)
	AddImage(ctx context.Context, productID, filename string, r io.Reader, alt string, primary bool) (*domain.Product, error)
	RemoveImage(ctx context.Context, productID, key string) (*domain.Product, error)
	Delete(ctx context.Context, productID string) error
}

type service struct {
	products   ProductStore
	categories CategoryStore
	images     ImageStore
	now        func() time.Time
}

func NewService(products ProductStore, categories CategoryStore, images ImageStore) Service {
	return &service{products: products, categories: categories, images: images, now: time.Now}
}

func (s *service) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if _, err := s.categories.Get(ctx, req.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("category not found: %w", domain.ErrBadRequest)
		}
		return nil, err
	}
	if _, err := s.products.GetBySKU(ctx, req.SKU); err == nil {
		return nil, fmt.Errorf("sku %q already in use: %w", req.SKU, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	sl := slug.Make(req.Name)
	if sl == "" {
		return nil, fmt.Errorf("name produces an empty slug: %w", domain.ErrBadRequest)
	}
	if existing, err := s.products.GetBySlug(ctx, sl); err == nil && existing != nil {
		// Same display name, different SKU. Disambiguate with the short id tail.
		pid := id.New()
		sl = sl + "-" + pid[len(pid)-6:]
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Product{
		ProductID:          id.New(),
		Name:               req.Name,
		Slug:               sl,
		Description:        req.Description,
		CategoryID:         req.CategoryID,
		SupplierID:         req.SupplierID,
		SKU:                req.SKU,
		Price:              req.Price,
		Currency:           req.Currency,
		DiscountPercentage: req.DiscountPercentage,
		Unit:               req.Unit,
		Images:             []domain.ProductImage{},
		IsSeasonal:         req.IsSeasonal,
		Seasons:            req.Seasons,
		Enable:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.products.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, productID string) (*domain.Product, error) {
	return s.products.Get(ctx, productID)
}

func (s *service) GetBySlug(ctx context.Context, sl string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, sl)
}

// ListByCategory returns the products of the category and of every category
// beneath it, so browsing "Produce" surfaces products filed under "Fruits".
func (s *service) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return nil, err
	}
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	descendants, err := s.categories.ListSubtree(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	for _, d := range descendants {
		more, err := s.products.ListByCategory(ctx, d.CategoryID)
		if err != nil {
			return nil, err
		}
		products = append(products, more...)
	}
	return products, nil
}

func (s *service) Search(ctx context.Context, term string, limit int32) ([]domain.Product, error) {
	if len(term) < 2 {
		return nil, fmt.Errorf("search term too short: %w", domain.ErrBadRequest)
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.products.SearchByName(ctx, term, limit)
}

func (s *service) Update(ctx context.Context, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CategoryID != nil {
		if _, err := s.categories.Get(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("category not found: %w", domain.ErrBadRequest)
			}
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.SupplierID != nil {
		updates["supplier_id"] = *req.SupplierID
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.DiscountPercentage != nil {
		updates["discount_percentage"] = *req.DiscountPercentage
	}
	if req.Enable != nil {
		updates["enable"] = *req.Enable
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.products.Update(ctx, productID, updates); err != nil {
		return nil, err
	}
	return s.products.Get(ctx, productID)
}

// AddImage uploads the file and appends an image record. The first image on a
// product, or one flagged primary, becomes the primary; at most one image is
// primary at a time.
func (s *service) AddImage(ctx context.Context, productID, filename string, r io.Reader, alt string, primary bool) (*domain.Product, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s", productID, filename)
	url, err := s.images.Upload(ctx, key, r, s3infra.DetectContentType(filename))
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	images := append([]domain.ProductImage{}, p.Images...)
	if primary || len(images) == 0 {
		for i := range images {
			images[i].IsPrimary = false
		}
		primary = true
	}
	images = append(images, domain.ProductImage{Key: key, URL: url, Alt: alt, IsPrimary: primary})

	if err := s.products.Update(ctx, productID, map[string]interface{}{"images": images}); err != nil {
		return nil, err
	}
	return s.products.Get(ctx, productID)
}

// RemoveImage deletes the object and drops the record. If the primary image
// was removed the first remaining image is promoted.
func (s *service) RemoveImage(ctx context.Context, productID, key string) (*domain.Product, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	images := make([]domain.ProductImage, 0, len(p.Images))
	removedPrimary := false
	found := false
	for _, img := range p.Images {
		if img.Key == key {
			found = true
			removedPrimary = img.IsPrimary
			continue
		}
		images = append(images, img)
	}
	if !found {
		return nil, fmt.Errorf("image not found: %w", domain.ErrNotFound)
	}
	if removedPrimary && len(images) > 0 {
		images[0].IsPrimary = true
	}

	if err := s.images.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("delete image object: %w", err)
	}
	if err := s.products.Update(ctx, productID, map[string]interface{}{"images": images}); err != nil {
		return nil, err
	}
	return s.products.Get(ctx, productID)
}

func (s *service) Delete(ctx context.Context, productID string) error {
	if _, err := s.products.Get(ctx, productID); err != nil {
		return err
	}
	return s.products.SoftDelete(ctx, productID)
}
