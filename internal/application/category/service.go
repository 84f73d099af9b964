package category

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
	"github.com/freshcart/freshcart-api/internal/pkg/slug"
)

type Store interface {
	Put(ctx context.Context, c *domain.Category) error
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListByParent(ctx context.Context, parentID string) ([]domain.Category, error)
	CountChildren(ctx context.Context, parentID string) (int, error)
	ListAll(ctx context.Context) ([]domain.Category, error)
	ListSubtree(ctx context.Context, rootID string) ([]domain.Category, error)
	Update(ctx context.Context, categoryID string, updates map[string]interface{}) error
	Delete(ctx context.Context, categoryID string) error
}

// ProductCounter is the slice of the product store the category service needs
// for delete guards and statistics.
type ProductCounter interface {
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}

type Service interface {
	Create(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error)
	Get(ctx context.Context, categoryID string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Category, error)
	Subcategories(ctx context.Context, categoryID string) ([]domain.Category, error)
	Tree(ctx context.Context) ([]*domain.CategoryNode, error)
	Path(ctx context.Context, categoryID string) ([]domain.Category, error)
	Stats(ctx context.Context, categoryID string) (*domain.CategoryStats, error)
	Update(ctx context.Context, categoryID string, req domain.UpdateCategoryRequest) (*domain.Category, error)
	Move(ctx context.Context, categoryID string, req domain.MoveCategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, categoryID string) error
}

type service struct {
	categories Store
	products   ProductCounter
	now        func() time.Time
}

func NewService(categories Store, products ProductCounter) Service {
	return &service{categories: categories, products: products, now: time.Now}
}

// Create inserts a category under the given parent, deriving slug, ancestors
// and level. Slugs are unique across the whole tree.
func (s *service) Create(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error) {
	sl := slug.Make(req.Name)
	if sl == "" {
		return nil, fmt.Errorf("name produces an empty slug: %w", domain.ErrBadRequest)
	}
	if _, err := s.categories.GetBySlug(ctx, sl); err == nil {
		return nil, fmt.Errorf("category %q already exists: %w", sl, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	ancestors := []string{}
	level := 0
	if req.Parent != nil {
		parent, err := s.categories.Get(ctx, *req.Parent)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("parent category: %w", domain.ErrNotFound)
			}
			return nil, err
		}
		ancestors = append(append(ancestors, parent.Ancestors...), parent.CategoryID)
		level = parent.Level + 1
	}

	now := s.now().UTC()
	c := &domain.Category{
		CategoryID:  id.New(),
		Name:        req.Name,
		Slug:        sl,
		Description: req.Description,
		Parent:      req.Parent,
		Ancestors:   ancestors,
		Level:       level,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, categoryID string) (*domain.Category, error) {
	return s.categories.Get(ctx, categoryID)
}

func (s *service) GetBySlug(ctx context.Context, sl string) (*domain.Category, error) {
	return s.categories.GetBySlug(ctx, sl)
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	all, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return all, nil
	}
	out := all[:0]
	for _, c := range all {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *service) Subcategories(ctx context.Context, categoryID string) ([]domain.Category, error) {
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.categories.ListByParent(ctx, categoryID)
}

// Tree assembles the full hierarchy in memory. Orphans (nodes whose parent
// is missing) surface as extra roots rather than disappearing.
func (s *service) Tree(ctx context.Context) ([]*domain.CategoryNode, error) {
	all, err := s.categories.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*domain.CategoryNode, len(all))
	for i := range all {
		nodes[all[i].CategoryID] = &domain.CategoryNode{Category: all[i], Children: []*domain.CategoryNode{}}
	}
	var roots []*domain.CategoryNode
	for _, n := range nodes {
		if n.Parent != nil {
			if parent, ok := nodes[*n.Parent]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	sortTree(roots)
	return roots, nil
}

func sortTree(nodes []*domain.CategoryNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		sortTree(n.Children)
	}
}

// Path returns the chain from root to the category itself, in order.
func (s *service) Path(ctx context.Context, categoryID string) ([]domain.Category, error) {
	c, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	path := make([]domain.Category, 0, len(c.Ancestors)+1)
	for _, aid := range c.Ancestors {
		a, err := s.categories.Get(ctx, aid)
		if err != nil {
			return nil, fmt.Errorf("resolve ancestor %s: %w", aid, err)
		}
		path = append(path, *a)
	}
	return append(path, *c), nil
}

func (s *service) Stats(ctx context.Context, categoryID string) (*domain.CategoryStats, error) {
	path, err := s.Path(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	c := path[len(path)-1]
	// Product count covers the whole subtree: a parent category reports the
	// products filed under any of its descendants too.
	products, err := s.products.CountByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	descendants, err := s.categories.ListSubtree(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	for _, d := range descendants {
		n, err := s.products.CountByCategory(ctx, d.CategoryID)
		if err != nil {
			return nil, err
		}
		products += n
	}
	children, err := s.categories.CountChildren(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return &domain.CategoryStats{
		ProductCount:     products,
		SubcategoryCount: children,
		Level:            c.Level,
		Path:             path,
	}, nil
}

// Update changes name, description or active flag. Renames re-derive the
// slug and keep it unique.
func (s *service) Update(ctx context.Context, categoryID string, req domain.UpdateCategoryRequest) (*domain.Category, error) {
	c, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != c.Name {
		sl := slug.Make(*req.Name)
		if sl == "" {
			return nil, fmt.Errorf("name produces an empty slug: %w", domain.ErrBadRequest)
		}
		if sl != c.Slug {
			if existing, err := s.categories.GetBySlug(ctx, sl); err == nil && existing.CategoryID != categoryID {
				return nil, fmt.Errorf("category %q already exists: %w", sl, domain.ErrConflict)
			} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
		}
		updates["name"] = *req.Name
		updates["slug"] = sl
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.categories.Update(ctx, categoryID, updates); err != nil {
		return nil, err
	}
	return s.categories.Get(ctx, categoryID)
}

// Move re-parents a category. Moving under the node's own subtree is
// rejected; the ancestors and level of every descendant are rewritten to
// match the new position.
func (s *service) Move(ctx context.Context, categoryID string, req domain.MoveCategoryRequest) (*domain.Category, error) {
	c, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	newAncestors := []string{}
	newLevel := 0
	if req.NewParent != nil {
		if *req.NewParent == categoryID {
			return nil, domain.ErrCircularReference
		}
		parent, err := s.categories.Get(ctx, *req.NewParent)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("new parent: %w", domain.ErrNotFound)
			}
			return nil, err
		}
		for _, aid := range parent.Ancestors {
			if aid == categoryID {
				return nil, domain.ErrCircularReference
			}
		}
		newAncestors = append(append(newAncestors, parent.Ancestors...), parent.CategoryID)
		newLevel = parent.Level + 1
	}

	err = s.categories.Update(ctx, categoryID, map[string]interface{}{
		"parent":    req.NewParent,
		"ancestors": newAncestors,
		"level":     newLevel,
	})
	if err != nil {
		return nil, err
	}

	// Rewrite the subtree: each descendant keeps its chain below the moved
	// node and inherits the moved node's new prefix above it.
	descendants, err := s.categories.ListSubtree(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	oldDepth := len(c.Ancestors)
	prefix := append(append([]string{}, newAncestors...), categoryID)
	for _, d := range descendants {
		suffix := d.Ancestors[oldDepth+1:]
		ancestors := append(append([]string{}, prefix...), suffix...)
		err := s.categories.Update(ctx, d.CategoryID, map[string]interface{}{
			"ancestors": ancestors,
			"level":     len(ancestors),
		})
		if err != nil {
			return nil, fmt.Errorf("rewrite descendant %s: %w", d.CategoryID, err)
		}
	}

	return s.categories.Get(ctx, categoryID)
}

// Delete removes a leaf category with no products.
func (s *service) Delete(ctx context.Context, categoryID string) error {
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return err
	}
	children, err := s.categories.CountChildren(ctx, categoryID)
	if err != nil {
		return err
	}
	if children > 0 {
		return domain.ErrHasSubcategories
	}
	products, err := s.products.CountByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if products > 0 {
		return domain.ErrHasProducts
	}
	return s.categories.Delete(ctx, categoryID)
}
