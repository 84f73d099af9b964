package warehouse

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
	Put(ctx context.Context, w *domain.Warehouse) error
	Get(ctx context.Context, warehouseID string) (*domain.Warehouse, error)
	GetByCode(ctx context.Context, code string) (*domain.Warehouse, error)
	ListAll(ctx context.Context) ([]domain.Warehouse, error)
	Update(ctx context.Context, warehouseID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, warehouseID string) error
}

// InventoryCounter guards deletion: a warehouse that still holds stock
// records cannot be removed.
type InventoryCounter interface {
	ListByWarehouse(ctx context.Context, warehouseID string) ([]domain.InventoryRecord, error)
}

type Service interface {
	Create(ctx context.Context, req domain.CreateWarehouseRequest) (*domain.Warehouse, error)
	Get(ctx context.Context, warehouseID string) (*domain.Warehouse, error)
	List(ctx context.Context) ([]domain.Warehouse, error)
	Update(ctx context.Context, warehouseID string, req domain.UpdateWarehouseRequest) (*domain.Warehouse, error)
	Delete(ctx context.Context, warehouseID string) error
}

type service struct {
	warehouses Store
	inventory  InventoryCounter
	now        func() time.Time
}

func NewService(warehouses Store, inventory InventoryCounter) Service {
	return &service{warehouses: warehouses, inventory: inventory, now: time.Now}
}

func (s *service) Create(ctx context.Context, req domain.CreateWarehouseRequest) (*domain.Warehouse, error) {
	code := strings.ToUpper(req.Code)
	if _, err := s.warehouses.GetByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("warehouse code %q already in use: %w", code, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	w := &domain.Warehouse{
		WarehouseID: id.New(),
		Code:        code,
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Country:     strings.ToUpper(req.Country),
		Capacity:    req.Capacity,
		Enable:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.warehouses.Put(ctx, w); err != nil {
		return nil, fmt.Errorf("create warehouse: %w", err)
	}
	return w, nil
}

func (s *service) Get(ctx context.Context, warehouseID string) (*domain.Warehouse, error) {
	return s.warehouses.Get(ctx, warehouseID)
}

func (s *service) List(ctx context.Context) ([]domain.Warehouse, error) {
	return s.warehouses.ListAll(ctx)
}

func (s *service) Update(ctx context.Context, warehouseID string, req domain.UpdateWarehouseRequest) (*domain.Warehouse, error) {
	if _, err := s.warehouses.Get(ctx, warehouseID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Enable != nil {
		updates["enable"] = *req.Enable
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.warehouses.Update(ctx, warehouseID, updates); err != nil {
		return nil, err
	}
	return s.warehouses.Get(ctx, warehouseID)
}

func (s *service) Delete(ctx context.Context, warehouseID string) error {
	if _, err := s.warehouses.Get(ctx, warehouseID); err != nil {
		return err
	}
	recs, err := s.inventory.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return err
	}
	for _, r := range recs {
		if r.Available > 0 || r.Reserved > 0 || r.Committed > 0 {
			return fmt.Errorf("warehouse still holds stock: %w", domain.ErrBadRequest)
		}
	}
	return s.warehouses.SoftDelete(ctx, warehouseID)
}
