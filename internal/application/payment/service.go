package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
)

type Store interface {
	Put(ctx context.Context, p *domain.Payment) error
	Get(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
	Update(ctx context.Context, paymentID string, updates map[string]interface{}) error
}

type CartStore interface {
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	Put(ctx context.Context, c *domain.Cart) error
}

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreatePaymentRequest) (*domain.Payment, error)
	Get(ctx context.Context, userID, paymentID string, isAdmin bool) (*domain.Payment, error)
	ListMine(ctx context.Context, userID string) ([]domain.Payment, error)
	Capture(ctx context.Context, paymentID string) (*domain.Payment, error)
	Refund(ctx context.Context, paymentID string, req domain.RefundPaymentRequest) (*domain.Payment, error)
}

type service struct {
	payments  Store
	carts     CartStore
	providers *Registry
	now       func() time.Time
}

func NewService(payments Store, carts CartStore, providers *Registry) Service {
	return &service{payments: payments, carts: carts, providers: providers, now: time.Now}
}

// Create authorizes a payment for a checked-out cart. The amount always comes
// from the cart totals, never from the request.
func (s *service) Create(ctx context.Context, userID string, req domain.CreatePaymentRequest) (*domain.Payment, error) {
	c, err := s.carts.Get(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if c.Status != domain.CartCheckout {
		return nil, fmt.Errorf("cart is not checked out: %w", domain.ErrBadRequest)
	}

	provider, err := s.providers.Get(req.Provider)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Payment{
		PaymentID: id.New(),
		UserID:    userID,
		CartID:    c.CartID,
		Amount:    c.Totals.Total,
		Currency:  c.Currency,
		Method:    req.Method,
		Provider:  provider.Name(),
		Status:    domain.PaymentCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	orderID, err := provider.Authorize(ctx, p)
	if err != nil {
		p.Status = domain.PaymentFailed
		p.FailureCode = "authorize_failed"
		if perr := s.payments.Put(ctx, p); perr != nil {
			return nil, perr
		}
		return nil, fmt.Errorf("authorize payment: %w", err)
	}
	p.ProviderOrderID = orderID
	p.Status = domain.PaymentAuthorized
	if err := s.payments.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("store payment: %w", err)
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, userID, paymentID string, isAdmin bool) (*domain.Payment, error) {
	p, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID && !isAdmin {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *service) ListMine(ctx context.Context, userID string) ([]domain.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

// Capture settles an authorized payment and converts the cart.
func (s *service) Capture(ctx context.Context, paymentID string) (*domain.Payment, error) {
	p, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentAuthorized {
		return nil, fmt.Errorf("payment is %s, not authorized: %w", p.Status, domain.ErrConflict)
	}
	provider, err := s.providers.Get(p.Provider)
	if err != nil {
		return nil, err
	}

	providerPaymentID, err := provider.Capture(ctx, p)
	if err != nil {
		uerr := s.payments.Update(ctx, paymentID, map[string]interface{}{
			"status":       domain.PaymentFailed,
			"failure_code": "capture_failed",
		})
		if uerr != nil {
			return nil, uerr
		}
		return nil, fmt.Errorf("capture payment: %w", err)
	}

	err = s.payments.Update(ctx, paymentID, map[string]interface{}{
		"status":              domain.PaymentCaptured,
		"provider_payment_id": providerPaymentID,
	})
	if err != nil {
		return nil, err
	}

	if c, cerr := s.carts.Get(ctx, p.CartID); cerr == nil {
		c.Status = domain.CartConverted
		c.UpdatedAt = s.now().UTC()
		if perr := s.carts.Put(ctx, c); perr != nil {
			return nil, perr
		}
	} else if !errors.Is(cerr, domain.ErrNotFound) {
		return nil, cerr
	}

	return s.payments.Get(ctx, paymentID)
}

// Refund reverses part or all of a captured payment. Cumulative refunds may
// not exceed the captured amount; a full refund is terminal.
func (s *service) Refund(ctx context.Context, paymentID string, req domain.RefundPaymentRequest) (*domain.Payment, error) {
	p, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentCaptured {
		return nil, fmt.Errorf("payment is %s, not captured: %w", p.Status, domain.ErrConflict)
	}
	if p.RefundAmount+req.Amount > p.Amount {
		return nil, fmt.Errorf("refund exceeds captured amount: %w", domain.ErrBadRequest)
	}
	provider, err := s.providers.Get(p.Provider)
	if err != nil {
		return nil, err
	}
	if err := provider.Refund(ctx, p, req.Amount, req.Reason); err != nil {
		return nil, fmt.Errorf("refund payment: %w", err)
	}

	updates := map[string]interface{}{
		"refund_amount": p.RefundAmount + req.Amount,
		"refund_reason": req.Reason,
	}
	if p.RefundAmount+req.Amount == p.Amount {
		updates["status"] = domain.PaymentRefunded
	}
	if err := s.payments.Update(ctx, paymentID, updates); err != nil {
		return nil, err
	}
	return s.payments.Get(ctx, paymentID)
}
