package review

import (
	"context"
	"errors"
	"testing"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockReviewStore struct{ mock.Mock }

func (m *mockReviewStore) Put(ctx context.Context, rev *domain.Review) error {
	return m.Called(ctx, rev).Error(0)
}
func (m *mockReviewStore) Get(ctx context.Context, reviewID string) (*domain.Review, error) {
	args := m.Called(ctx, reviewID)
	if r, _ := args.Get(0).(*domain.Review); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockReviewStore) GetByUserProduct(ctx context.Context, userID, productID string) (*domain.Review, error) {
	args := m.Called(ctx, userID, productID)
	if r, _ := args.Get(0).(*domain.Review); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockReviewStore) ListByProduct(ctx context.Context, productID, status string) ([]domain.Review, error) {
	args := m.Called(ctx, productID, status)
	revs, _ := args.Get(0).([]domain.Review)
	return revs, args.Error(1)
}
func (m *mockReviewStore) Update(ctx context.Context, reviewID string, updates map[string]interface{}) error {
	return m.Called(ctx, reviewID, updates).Error(0)
}
func (m *mockReviewStore) Delete(ctx context.Context, reviewID string) error {
	return m.Called(ctx, reviewID).Error(0)
}

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProductStore) Update(ctx context.Context, productID string, updates map[string]interface{}) error {
	return m.Called(ctx, productID, updates).Error(0)
}

func pending() *domain.Review {
	return &domain.Review{
		ReviewID: "r1", ProductID: "p1", UserID: "u1",
		Rating: 4, Status: domain.ReviewPending,
	}
}

// --- Create ---

func TestCreate_SecondReviewSameProduct_Conflict(t *testing.T) {
	rs := &mockReviewStore{}
	ps := &mockProductStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Product{ProductID: "p1"}, nil)
	rs.On("GetByUserProduct", mock.Anything, "u1", "p1").Return(pending(), nil)

	svc := NewService(rs, ps)
	_, err := svc.Create(context.Background(), "u1", domain.CreateReviewRequest{ProductID: "p1", Rating: 5})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCreate_StartsPending(t *testing.T) {
	rs := &mockReviewStore{}
	ps := &mockProductStore{}
	ps.On("Get", mock.Anything, "p1").Return(&domain.Product{ProductID: "p1"}, nil)
	rs.On("GetByUserProduct", mock.Anything, "u1", "p1").Return(nil, domain.ErrNotFound)
	rs.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.Status == domain.ReviewPending && r.Rating == 5
	})).Return(nil)

	svc := NewService(rs, ps)
	rev, err := svc.Create(context.Background(), "u1", domain.CreateReviewRequest{ProductID: "p1", Rating: 5})

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewPending, rev.Status)
	rs.AssertExpectations(t)
}

// --- Moderate ---

func TestModerate_Approve_RecomputesProductRating(t *testing.T) {
	rs := &mockReviewStore{}
	ps := &mockProductStore{}
	rs.On("Get", mock.Anything, "r1").Return(pending(), nil)
	rs.On("Update", mock.Anything, "r1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m["status"] == domain.ReviewApproved
	})).Return(nil)
	rs.On("ListByProduct", mock.Anything, "p1", domain.ReviewApproved).Return([]domain.Review{
		{Rating: 4}, {Rating: 5}, {Rating: 4},
	}, nil)
	ps.On("Update", mock.Anything, "p1", mock.MatchedBy(func(m map[string]interface{}) bool {
		r, ok := m["rating"].(domain.Rating)
		return ok && r.Count == 3 && r.Average == 4.3
	})).Return(nil)

	svc := NewService(rs, ps)
	_, err := svc.Moderate(context.Background(), "r1", domain.ModerateReviewRequest{Status: domain.ReviewApproved})

	require.NoError(t, err)
	rs.AssertExpectations(t)
	ps.AssertExpectations(t)
}

func TestModerate_Reject_SkipsAggregate(t *testing.T) {
	rs := &mockReviewStore{}
	ps := &mockProductStore{}
	rs.On("Get", mock.Anything, "r1").Return(pending(), nil)
	rs.On("Update", mock.Anything, "r1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m["status"] == domain.ReviewRejected && m["rejection_reason"] == "spam"
	})).Return(nil)

	svc := NewService(rs, ps)
	_, err := svc.Moderate(context.Background(), "r1", domain.ModerateReviewRequest{
		Status: domain.ReviewRejected, RejectionReason: "spam",
	})

	require.NoError(t, err)
	ps.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerate_AlreadyModerated_Conflict(t *testing.T) {
	rs := &mockReviewStore{}
	rev := pending()
	rev.Status = domain.ReviewApproved
	rs.On("Get", mock.Anything, "r1").Return(rev, nil)

	svc := NewService(rs, nil)
	_, err := svc.Moderate(context.Background(), "r1", domain.ModerateReviewRequest{Status: domain.ReviewApproved})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// --- Delete ---

func TestDelete_NotOwnerNotAdmin_Forbidden(t *testing.T) {
	rs := &mockReviewStore{}
	rs.On("Get", mock.Anything, "r1").Return(pending(), nil)

	svc := NewService(rs, nil)
	err := svc.Delete(context.Background(), "someone-else", "r1", false)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestDelete_ApprovedReview_RecomputesAggregate(t *testing.T) {
	rs := &mockReviewStore{}
	ps := &mockProductStore{}
	rev := pending()
	rev.Status = domain.ReviewApproved
	rs.On("Get", mock.Anything, "r1").Return(rev, nil)
	rs.On("Delete", mock.Anything, "r1").Return(nil)
	rs.On("ListByProduct", mock.Anything, "p1", domain.ReviewApproved).Return([]domain.Review{}, nil)
	ps.On("Update", mock.Anything, "p1", mock.MatchedBy(func(m map[string]interface{}) bool {
		r, ok := m["rating"].(domain.Rating)
		return ok && r.Count == 0 && r.Average == 0
	})).Return(nil)

	svc := NewService(rs, ps)
	err := svc.Delete(context.Background(), "u1", "r1", false)

	require.NoError(t, err)
	rs.AssertExpectations(t)
	ps.AssertExpectations(t)
}
