package payment

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

type mockPaymentStore struct{ mock.Mock }

func (m *mockPaymentStore) Put(ctx context.Context, p *domain.Payment) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPaymentStore) Get(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if p, _ := args.Get(0).(*domain.Payment); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPaymentStore) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	args := m.Called(ctx, userID)
	ps, _ := args.Get(0).([]domain.Payment)
	return ps, args.Error(1)
}
func (m *mockPaymentStore) Update(ctx context.Context, paymentID string, updates map[string]interface{}) error {
	return m.Called(ctx, paymentID, updates).Error(0)
}

type mockCartStore struct{ mock.Mock }

func (m *mockCartStore) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID)
	if c, _ := args.Get(0).(*domain.Cart); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCartStore) Put(ctx context.Context, c *domain.Cart) error {
	return m.Called(ctx, c).Error(0)
}

func checkoutCart() *domain.Cart {
	return &domain.Cart{
		CartID: "c1", UserID: "u1", Status: domain.CartCheckout, Currency: "USD",
		Items:  []domain.CartItem{{ProductID: "p1", Quantity: 2, Price: 500}},
		Totals: domain.CartTotals{Subtotal: 1000, Tax: 50, Total: 1050},
	}
}

func codRegistry() *Registry { return NewRegistry(NewCODProvider()) }

// --- Create ---

func TestCreate_AmountComesFromCart(t *testing.T) {
	pst := &mockPaymentStore{}
	cst := &mockCartStore{}
	cst.On("Get", mock.Anything, "c1").Return(checkoutCart(), nil)
	pst.On("Put", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Amount == 1050 && p.Status == domain.PaymentAuthorized && p.ProviderOrderID != ""
	})).Return(nil)

	svc := NewService(pst, cst, codRegistry())
	p, err := svc.Create(context.Background(), "u1", domain.CreatePaymentRequest{
		CartID: "c1", Method: "cod", Provider: "cod",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1050), p.Amount)
	pst.AssertExpectations(t)
}

func TestCreate_ActiveCart_Rejected(t *testing.T) {
	cst := &mockCartStore{}
	c := checkoutCart()
	c.Status = domain.CartActive
	cst.On("Get", mock.Anything, "c1").Return(c, nil)

	svc := NewService(nil, cst, codRegistry())
	_, err := svc.Create(context.Background(), "u1", domain.CreatePaymentRequest{
		CartID: "c1", Method: "cod", Provider: "cod",
	})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestCreate_ForeignCart_Forbidden(t *testing.T) {
	cst := &mockCartStore{}
	cst.On("Get", mock.Anything, "c1").Return(checkoutCart(), nil)

	svc := NewService(nil, cst, codRegistry())
	_, err := svc.Create(context.Background(), "intruder", domain.CreatePaymentRequest{
		CartID: "c1", Method: "cod", Provider: "cod",
	})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCreate_UnknownProvider(t *testing.T) {
	cst := &mockCartStore{}
	cst.On("Get", mock.Anything, "c1").Return(checkoutCart(), nil)

	svc := NewService(nil, cst, codRegistry())
	_, err := svc.Create(context.Background(), "u1", domain.CreatePaymentRequest{
		CartID: "c1", Method: "card", Provider: "stripe",
	})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- Capture ---

func TestCapture_ConvertsCart(t *testing.T) {
	pst := &mockPaymentStore{}
	cst := &mockCartStore{}
	pst.On("Get", mock.Anything, "pay1").Return(&domain.Payment{
		PaymentID: "pay1", UserID: "u1", CartID: "c1",
		Amount: 1050, Provider: "cod", Status: domain.PaymentAuthorized,
	}, nil)
	pst.On("Update", mock.Anything, "pay1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m["status"] == domain.PaymentCaptured
	})).Return(nil)
	cst.On("Get", mock.Anything, "c1").Return(checkoutCart(), nil)
	cst.On("Put", mock.Anything, mock.MatchedBy(func(c *domain.Cart) bool {
		return c.Status == domain.CartConverted
	})).Return(nil)

	svc := NewService(pst, cst, codRegistry())
	_, err := svc.Capture(context.Background(), "pay1")

	require.NoError(t, err)
	pst.AssertExpectations(t)
	cst.AssertExpectations(t)
}

func TestCapture_WrongState_Conflict(t *testing.T) {
	pst := &mockPaymentStore{}
	pst.On("Get", mock.Anything, "pay1").Return(&domain.Payment{
		PaymentID: "pay1", Provider: "cod", Status: domain.PaymentCaptured,
	}, nil)

	svc := NewService(pst, nil, codRegistry())
	_, err := svc.Capture(context.Background(), "pay1")
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

// --- Refund ---

func TestRefund_ExceedsCaptured_Rejected(t *testing.T) {
	pst := &mockPaymentStore{}
	pst.On("Get", mock.Anything, "pay1").Return(&domain.Payment{
		PaymentID: "pay1", Provider: "cod", Status: domain.PaymentCaptured,
		Amount: 1000, RefundAmount: 800,
	}, nil)

	svc := NewService(pst, nil, codRegistry())
	_, err := svc.Refund(context.Background(), "pay1", domain.RefundPaymentRequest{Amount: 300, Reason: "damaged"})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestRefund_FullAmount_Terminal(t *testing.T) {
	pst := &mockPaymentStore{}
	pst.On("Get", mock.Anything, "pay1").Return(&domain.Payment{
		PaymentID: "pay1", Provider: "cod", Status: domain.PaymentCaptured, Amount: 1000,
	}, nil)
	pst.On("Update", mock.Anything, "pay1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m["status"] == domain.PaymentRefunded && m["refund_amount"] == int64(1000)
	})).Return(nil)

	svc := NewService(pst, nil, codRegistry())
	_, err := svc.Refund(context.Background(), "pay1", domain.RefundPaymentRequest{Amount: 1000, Reason: "order cancelled"})

	require.NoError(t, err)
	pst.AssertExpectations(t)
}
