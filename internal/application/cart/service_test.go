package cart

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

type mockCartStore struct{ mock.Mock }

func (m *mockCartStore) Put(ctx context.Context, c *domain.Cart) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCartStore) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID)
	if c, _ := args.Get(0).(*domain.Cart); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCartStore) GetActiveByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if c, _ := args.Get(0).(*domain.Cart); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCartStore) Delete(ctx context.Context, cartID string) error {
	return m.Called(ctx, cartID).Error(0)
}

type mockProducts struct{ mock.Mock }

func (m *mockProducts) Get(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func apples() *domain.Product {
	return &domain.Product{
		ProductID: "p-apples", Name: "Apples", Price: 250, Currency: "USD",
		Unit: "kg", Enable: true,
	}
}

// --- ComputeTotals ---

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.Equal(t, domain.CartTotals{}, totals)
}

func TestComputeTotals_SubtotalAndTax(t *testing.T) {
	totals := ComputeTotals([]domain.CartItem{
		{ProductID: "a", Quantity: 2, Price: 250},
		{ProductID: "b", Quantity: 1, Price: 500},
	})
	assert.Equal(t, int64(1000), totals.Subtotal)
	assert.Equal(t, int64(0), totals.Discount)
	assert.Equal(t, int64(50), totals.Tax)
	assert.Equal(t, int64(1050), totals.Total)
}

func TestComputeTotals_BulkDiscountAboveThreshold(t *testing.T) {
	totals := ComputeTotals([]domain.CartItem{
		{ProductID: "a", Quantity: 10, Price: 1000},
	})
	assert.Equal(t, int64(10000), totals.Subtotal)
	assert.Equal(t, int64(200), totals.Discount)
	assert.Equal(t, int64(490), totals.Tax) // 5% of 9800
	assert.Equal(t, int64(10290), totals.Total)
}

// --- AddItem ---

func TestAddItem_CreatesCartOnFirstUse(t *testing.T) {
	cs := &mockCartStore{}
	ps := &mockProducts{}
	ps.On("Get", mock.Anything, "p-apples").Return(apples(), nil)
	cs.On("GetActiveByUser", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	cs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	svc := NewService(cs, ps)
	c, err := svc.AddItem(context.Background(), "u1", domain.AddCartItemRequest{
		ProductID: "p-apples", Quantity: 2,
	})

	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, int64(250), c.Items[0].Price)
	assert.Equal(t, int64(500), c.Totals.Subtotal)
	assert.Equal(t, "USD", c.Currency)
}

func TestAddItem_MergesRepeatAdds(t *testing.T) {
	cs := &mockCartStore{}
	ps := &mockProducts{}
	ps.On("Get", mock.Anything, "p-apples").Return(apples(), nil)
	cs.On("GetActiveByUser", mock.Anything, "u1").Return(&domain.Cart{
		CartID: "c1", UserID: "u1", Status: domain.CartActive, Currency: "USD",
		Items: []domain.CartItem{{ProductID: "p-apples", Name: "Apples", Quantity: 1, Price: 250}},
	}, nil)
	cs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Cart")).Return(nil)

	svc := NewService(cs, ps)
	c, err := svc.AddItem(context.Background(), "u1", domain.AddCartItemRequest{
		ProductID: "p-apples", Quantity: 3,
	})

	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
}

func TestAddItem_DiscountedProduct_CapturesEffectivePrice(t *testing.T) {
	cs := &mockCartStore{}
	ps := &mockProducts{}
	p := apples()
	p.DiscountPercentage = 20
	ps.On("Get", mock.Anything, "p-apples").Return(p, nil)
	cs.On("GetActiveByUser", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	cs.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(cs, ps)
	c, err := svc.AddItem(context.Background(), "u1", domain.AddCartItemRequest{
		ProductID: "p-apples", Quantity: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(200), c.Items[0].Price)
}

func TestAddItem_DisabledProduct_Rejected(t *testing.T) {
	cs := &mockCartStore{}
	ps := &mockProducts{}
	p := apples()
	p.Enable = false
	ps.On("Get", mock.Anything, "p-apples").Return(p, nil)

	svc := NewService(cs, ps)
	_, err := svc.AddItem(context.Background(), "u1", domain.AddCartItemRequest{
		ProductID: "p-apples", Quantity: 1,
	})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestAddItem_CurrencyMismatch_Rejected(t *testing.T) {
	cs := &mockCartStore{}
	ps := &mockProducts{}
	ps.On("Get", mock.Anything, "p-apples").Return(apples(), nil)
	cs.On("GetActiveByUser", mock.Anything, "u1").Return(&domain.Cart{
		CartID: "c1", UserID: "u1", Status: domain.CartActive, Currency: "EUR",
	}, nil)

	svc := NewService(cs, ps)
	_, err := svc.AddItem(context.Background(), "u1", domain.AddCartItemRequest{
		ProductID: "p-apples", Quantity: 1,
	})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- UpdateItem / Checkout ---

func TestUpdateItem_ZeroQuantityRemovesLine(t *testing.T) {
	cs := &mockCartStore{}
	cs.On("GetActiveByUser", mock.Anything, "u1").Return(&domain.Cart{
		CartID: "c1", UserID: "u1", Status: domain.CartActive, Currency: "USD",
		Items: []domain.CartItem{{ProductID: "p-apples", Quantity: 2, Price: 250}},
	}, nil)
	cs.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(cs, nil)
	c, err := svc.UpdateItem(context.Background(), "u1", "p-apples", domain.UpdateCartItemRequest{Quantity: 0})

	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, int64(0), c.Totals.Total)
}

func TestUpdateItem_UnknownLine(t *testing.T) {
	cs := &mockCartStore{}
	cs.On("GetActiveByUser", mock.Anything, "u1").Return(&domain.Cart{
		CartID: "c1", UserID: "u1", Status: domain.CartActive,
	}, nil)

	svc := NewService(cs, nil)
	_, err := svc.UpdateItem(context.Background(), "u1", "ghost", domain.UpdateCartItemRequest{Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCheckout_EmptyCart_Rejected(t *testing.T) {
	cs := &mockCartStore{}
	cs.On("GetActiveByUser", mock.Anything, "u1").Return(&domain.Cart{
		CartID: "c1", UserID: "u1", Status: domain.CartActive,
	}, nil)

	svc := NewService(cs, nil)
	_, err := svc.Checkout(context.Background(), "u1")
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCheckout_FreezesCart(t *testing.T) {
	cs := &mockCartStore{}
	cs.On("GetActiveByUser", mock.Anything, "u1").Return(&domain.Cart{
		CartID: "c1", UserID: "u1", Status: domain.CartActive, Currency: "USD",
		Items: []domain.CartItem{{ProductID: "p-apples", Quantity: 2, Price: 250}},
	}, nil)
	cs.On("Put", mock.Anything, mock.MatchedBy(func(c *domain.Cart) bool {
		return c.Status == domain.CartCheckout && c.Totals.Total > 0
	})).Return(nil)

	svc := NewService(cs, nil)
	c, err := svc.Checkout(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, domain.CartCheckout, c.Status)
	cs.AssertExpectations(t)
}
