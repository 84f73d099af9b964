package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) Put(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProductStore) Get(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProductStore) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProductStore) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProductStore) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	args := m.Called(ctx, categoryID)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}
func (m *mockProductStore) SearchByName(ctx context.Context, term string, limit int32) ([]domain.Product, error) {
	args := m.Called(ctx, term, limit)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}
func (m *mockProductStore) Update(ctx context.Context, productID string, updates map[string]interface{}) error {
	return m.Called(ctx, productID, updates).Error(0)
}
func (m *mockProductStore) SoftDelete(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

type mockCategoryStore struct{ mock.Mock }

func (m *mockCategoryStore) Get(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if c, _ := args.Get(0).(*domain.Category); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCategoryStore) ListSubtree(ctx context.Context, rootID string) ([]domain.Category, error) {
	args := m.Called(ctx, rootID)
	cats, _ := args.Get(0).([]domain.Category)
	return cats, args.Error(1)
}

type mockImageStore struct{ mock.Mock }

func (m *mockImageStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockImageStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// --- ListByCategory ---

func TestListByCategory_IncludesSubtreeProducts(t *testing.T) {
	ps := &mockProductStore{}
	cs := &mockCategoryStore{}
	cs.On("Get", mock.Anything, "c-produce").Return(&domain.Category{CategoryID: "c-produce"}, nil)
	cs.On("ListSubtree", mock.Anything, "c-produce").Return([]domain.Category{
		{CategoryID: "c-fruits"},
		{CategoryID: "c-apples"},
	}, nil)
	ps.On("ListByCategory", mock.Anything, "c-produce").Return([]domain.Product{{ProductID: "p1"}}, nil)
	ps.On("ListByCategory", mock.Anything, "c-fruits").Return([]domain.Product{{ProductID: "p2"}}, nil)
	ps.On("ListByCategory", mock.Anything, "c-apples").Return([]domain.Product{{ProductID: "p3"}, {ProductID: "p4"}}, nil)

	svc := NewService(ps, cs, nil)
	products, err := svc.ListByCategory(context.Background(), "c-produce")

	require.NoError(t, err)
	require.Len(t, products, 4)
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ProductID
	}
	assert.ElementsMatch(t, []string{"p1", "p2", "p3", "p4"}, ids)
	ps.AssertExpectations(t)
}

func TestListByCategory_LeafListsOnlyItself(t *testing.T) {
	ps := &mockProductStore{}
	cs := &mockCategoryStore{}
	cs.On("Get", mock.Anything, "c-apples").Return(&domain.Category{CategoryID: "c-apples"}, nil)
	cs.On("ListSubtree", mock.Anything, "c-apples").Return([]domain.Category{}, nil)
	ps.On("ListByCategory", mock.Anything, "c-apples").Return([]domain.Product{{ProductID: "p3"}}, nil)

	svc := NewService(ps, cs, nil)
	products, err := svc.ListByCategory(context.Background(), "c-apples")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p3", products[0].ProductID)
}

func TestListByCategory_UnknownCategory(t *testing.T) {
	ps := &mockProductStore{}
	cs := &mockCategoryStore{}
	cs.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := NewService(ps, cs, nil)
	_, err := svc.ListByCategory(context.Background(), "ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	ps.AssertNotCalled(t, "ListByCategory", mock.Anything, mock.Anything)
}
