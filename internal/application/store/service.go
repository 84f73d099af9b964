package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
)

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

type Repo interface {
	Put(ctx context.Context, s *domain.Store) error
	Get(ctx context.Context, storeID string) (*domain.Store, error)
	GetByCode(ctx context.Context, code string) (*domain.Store, error)
	ListAll(ctx context.Context) ([]domain.Store, error)
	Update(ctx context.Context, storeID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, storeID string) error
}

type Service interface {
	Create(ctx context.Context, req domain.CreateStoreRequest) (*domain.Store, error)
	Get(ctx context.Context, storeID string) (*domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
	Update(ctx context.Context, storeID string, req domain.UpdateStoreRequest) (*domain.Store, error)
	SetHours(ctx context.Context, storeID string, hours map[string]domain.StoreHours) (*domain.Store, error)
	Delete(ctx context.Context, storeID string) error
}

type service struct {
	stores Repo
	now    func() time.Time
}

func NewService(stores Repo) Service {
	return &service{stores: stores, now: time.Now}
}

func (s *service) Create(ctx context.Context, req domain.CreateStoreRequest) (*domain.Store, error) {
	code := strings.ToUpper(req.Code)
	if _, err := s.stores.GetByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("store code %q already in use: %w", code, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	st := &domain.Store{
		StoreID:    id.New(),
		Code:       code,
		Name:       req.Name,
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    strings.ToUpper(req.Country),
		Phone:      req.Phone,
		Email:      strings.ToLower(req.Email),
		Enable:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.stores.Put(ctx, st); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return st, nil
}

func (s *service) Get(ctx context.Context, storeID string) (*domain.Store, error) {
	return s.stores.Get(ctx, storeID)
}

func (s *service) List(ctx context.Context) ([]domain.Store, error) {
	return s.stores.ListAll(ctx)
}

func (s *service) Update(ctx context.Context, storeID string, req domain.UpdateStoreRequest) (*domain.Store, error) {
	if _, err := s.stores.Get(ctx, storeID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Street != nil {
		updates["street"] = *req.Street
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(*req.Email)
	}
	if req.Enable != nil {
		updates["enable"] = *req.Enable
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.stores.Update(ctx, storeID, updates); err != nil {
		return nil, err
	}
	return s.stores.Get(ctx, storeID)
}

// SetHours replaces the weekly opening hours. Keys are lowercase weekday
// names; windows are "HH:MM" with open strictly before close.
func (s *service) SetHours(ctx context.Context, storeID string, hours map[string]domain.StoreHours) (*domain.Store, error) {
	if _, err := s.stores.Get(ctx, storeID); err != nil {
		return nil, err
	}
	normalized := make(map[string]domain.StoreHours, len(hours))
	for day, h := range hours {
		d := strings.ToLower(day)
		if !weekdays[d] {
			return nil, fmt.Errorf("unknown weekday %q: %w", day, domain.ErrBadRequest)
		}
		if _, err := time.Parse("15:04", h.Open); err != nil {
			return nil, fmt.Errorf("bad opening time %q: %w", h.Open, domain.ErrBadRequest)
		}
		if _, err := time.Parse("15:04", h.Close); err != nil {
			return nil, fmt.Errorf("bad closing time %q: %w", h.Close, domain.ErrBadRequest)
		}
		if h.Open >= h.Close {
			return nil, fmt.Errorf("opening window %s-%s is empty: %w", h.Open, h.Close, domain.ErrBadRequest)
		}
		normalized[d] = h
	}
	if err := s.stores.Update(ctx, storeID, map[string]interface{}{"hours": normalized}); err != nil {
		return nil, err
	}
	return s.stores.Get(ctx, storeID)
}

func (s *service) Delete(ctx context.Context, storeID string) error {
	if _, err := s.stores.Get(ctx, storeID); err != nil {
		return err
	}
	return s.stores.SoftDelete(ctx, storeID)
}
