package payment

import (
	"context"
	"fmt"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
)

// Provider abstracts one payment gateway. Authorize opens an order with the
// gateway, Capture settles it, Refund reverses up to the captured amount.
type Provider interface {
	Name() string
	Authorize(ctx context.Context, p *domain.Payment) (providerOrderID string, err error)
	Capture(ctx context.Context, p *domain.Payment) (providerPaymentID string, err error)
	Refund(ctx context.Context, p *domain.Payment, amount int64, reason string) error
}

// Registry resolves providers by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown payment provider %q: %w", name, domain.ErrBadRequest)
	}
	return p, nil
}

// codProvider handles cash-on-delivery: there is no gateway, so authorize
// and capture just mint local references.
type codProvider struct{}

// NewCODProvider returns the built-in cash-on-delivery provider.
func NewCODProvider() Provider { return codProvider{} }

func (codProvider) Name() string { return "cod" }

func (codProvider) Authorize(ctx context.Context, p *domain.Payment) (string, error) {
	return "cod-" + id.New(), nil
}

func (codProvider) Capture(ctx context.Context, p *domain.Payment) (string, error) {
	return "cod-" + id.New(), nil
}

func (codProvider) Refund(ctx context.Context, p *domain.Payment, amount int64, reason string) error {
	// Cash refunds are settled at the door; nothing to call.
	return nil
}
