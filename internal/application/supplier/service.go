package supplier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
)

type Store interface {
	Put(ctx context.Context, s *domain.Supplier) error
	Get(ctx context.Context, supplierID string) (*domain.Supplier, error)
	GetByCode(ctx context.Context, code string) (*domain.Supplier, error)
	ListAll(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, supplierID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, supplierID string) error
}

type Service interface {
	Create(ctx context.Context, req domain.CreateSupplierRequest) (*domain.Supplier, error)
	Get(ctx context.Context, supplierID string) (*domain.Supplier, error)
	List(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, supplierID string, req domain.UpdateSupplierRequest) (*domain.Supplier, error)
	Delete(ctx context.Context, supplierID string) error
}

type service struct {
	suppliers Store
	now       func() time.Time
}

func NewService(suppliers Store) Service {
	return &service{suppliers: suppliers, now: time.Now}
}

func (s *service) Create(ctx context.Context, req domain.CreateSupplierRequest) (*domain.Supplier, error) {
	code := strings.ToUpper(req.Code)
	if _, err := s.suppliers.GetByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("supplier code %q already in use: %w", code, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	sup := &domain.Supplier{
		SupplierID: id.New(),
		Code:       code,
		Name:       req.Name,
		Email:      strings.ToLower(req.Email),
		Phone:      req.Phone,
		Address:    req.Address,
		LeadDays:   req.LeadDays,
		Enable:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.suppliers.Put(ctx, sup); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return sup, nil
}

func (s *service) Get(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	return s.suppliers.Get(ctx, supplierID)
}

func (s *service) List(ctx context.Context) ([]domain.Supplier, error) {
	return s.suppliers.ListAll(ctx)
}

func (s *service) Update(ctx context.Context, supplierID string, req domain.UpdateSupplierRequest) (*domain.Supplier, error) {
	if _, err := s.suppliers.Get(ctx, supplierID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(*req.Email)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.LeadDays != nil {
		updates["lead_days"] = *req.LeadDays
	}
	if req.Enable != nil {
		updates["enable"] = *req.Enable
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.suppliers.Update(ctx, supplierID, updates); err != nil {
		return nil, err
	}
	return s.suppliers.Get(ctx, supplierID)
}

func (s *service) Delete(ctx context.Context, supplierID string) error {
	if _, err := s.suppliers.Get(ctx, supplierID); err != nil {
		return err
	}
	return s.suppliers.SoftDelete(ctx, supplierID)
}
