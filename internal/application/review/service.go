package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
)

type Store interface {
	Put(ctx context.Context, rev *domain.Review) error
	Get(ctx context.Context, reviewID string) (*domain.Review, error)
	GetByUserProduct(ctx context.Context, userID, productID string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID, status string) ([]domain.Review, error)
	Update(ctx context.Context, reviewID string, updates map[string]interface{}) error
	Delete(ctx context.Context, reviewID string) error
}

type ProductStore interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Update(ctx context.Context, productID string, updates map[string]interface{}) error
}

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateReviewRequest) (*domain.Review, error)
	Get(ctx context.Context, reviewID string) (*domain.Review, error)
	ListApproved(ctx context.Context, productID string) ([]domain.Review, error)
	ListPending(ctx context.Context, productID string) ([]domain.Review, error)
	Moderate(ctx context.Context, reviewID string, req domain.ModerateReviewRequest) (*domain.Review, error)
	Vote(ctx context.Context, reviewID string, helpful bool) (*domain.Review, error)
	Delete(ctx context.Context, userID, reviewID string, isAdmin bool) error
}

type service struct {
	reviews  Store
	products ProductStore
	now      func() time.Time
}

func NewService(reviews Store, products ProductStore) Service {
	return &service{reviews: reviews, products: products, now: time.Now}
}

// Create files a pending review. One review per (user, product); the rating
// only counts toward the product aggregate once approved.
func (s *service) Create(ctx context.Context, userID string, req domain.CreateReviewRequest) (*domain.Review, error) {
	if _, err := s.products.Get(ctx, req.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product not found: %w", domain.ErrBadRequest)
		}
		return nil, err
	}
	if _, err := s.reviews.GetByUserProduct(ctx, userID, req.ProductID); err == nil {
		return nil, fmt.Errorf("you already reviewed this product: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	rev := &domain.Review{
		ReviewID:  id.New(),
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     req.Title,
		Content:   req.Content,
		Status:    domain.ReviewPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Put(ctx, rev); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return rev, nil
}

func (s *service) Get(ctx context.Context, reviewID string) (*domain.Review, error) {
	return s.reviews.Get(ctx, reviewID)
}

func (s *service) ListApproved(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.reviews.ListByProduct(ctx, productID, domain.ReviewApproved)
}

func (s *service) ListPending(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.reviews.ListByProduct(ctx, productID, domain.ReviewPending)
}

// Moderate approves or rejects a pending review. Approval recomputes the
// product's rating aggregate; moderation is one-shot.
func (s *service) Moderate(ctx context.Context, reviewID string, req domain.ModerateReviewRequest) (*domain.Review, error) {
	rev, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rev.Status != domain.ReviewPending {
		return nil, fmt.Errorf("review already moderated: %w", domain.ErrConflict)
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Status == domain.ReviewRejected {
		updates["rejection_reason"] = req.RejectionReason
	}
	if err := s.reviews.Update(ctx, reviewID, updates); err != nil {
		return nil, err
	}
	if req.Status == domain.ReviewApproved {
		if err := s.recomputeRating(ctx, rev.ProductID); err != nil {
			return nil, err
		}
	}
	return s.reviews.Get(ctx, reviewID)
}

// Vote bumps a review's helpful/not-helpful tally.
func (s *service) Vote(ctx context.Context, reviewID string, helpful bool) (*domain.Review, error) {
	rev, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rev.Status != domain.ReviewApproved {
		return nil, fmt.Errorf("review is not published: %w", domain.ErrBadRequest)
	}
	updates := map[string]interface{}{}
	if helpful {
		updates["helpful"] = rev.Helpful + 1
	} else {
		updates["not_helpful"] = rev.NotHelpful + 1
	}
	if err := s.reviews.Update(ctx, reviewID, updates); err != nil {
		return nil, err
	}
	return s.reviews.Get(ctx, reviewID)
}

// Delete removes a review. Owners can delete their own; admins any. Removing
// an approved review recomputes the product aggregate.
func (s *service) Delete(ctx context.Context, userID, reviewID string, isAdmin bool) error {
	rev, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return err
	}
	if rev.UserID != userID && !isAdmin {
		return domain.ErrForbidden
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return err
	}
	if rev.Status == domain.ReviewApproved {
		return s.recomputeRating(ctx, rev.ProductID)
	}
	return nil
}

// recomputeRating rebuilds the denormalized average from the approved set.
func (s *service) recomputeRating(ctx context.Context, productID string) error {
	approved, err := s.reviews.ListByProduct(ctx, productID, domain.ReviewApproved)
	if err != nil {
		return err
	}
	var rating domain.Rating
	if n := len(approved); n > 0 {
		sum := 0
		for _, r := range approved {
			sum += r.Rating
		}
		rating.Count = n
		rating.Average = math.Round(float64(sum)/float64(n)*10) / 10
	}
	return s.products.Update(ctx, productID, map[string]interface{}{"rating": rating})
}
