package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/pkg/id"
)

// movementLogCap bounds the embedded audit log; older entries roll off.
const movementLogCap = 50

type Store interface {
	Put(ctx context.Context, rec *domain.InventoryRecord) error
	Get(ctx context.Context, inventoryID string) (*domain.InventoryRecord, error)
	GetByProductWarehouse(ctx context.Context, productID, warehouseID string) (*domain.InventoryRecord, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.InventoryRecord, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]domain.InventoryRecord, error)
	Update(ctx context.Context, inventoryID string, updates map[string]interface{}) error
}

type ProductGetter interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
}

type WarehouseGetter interface {
	Get(ctx context.Context, warehouseID string) (*domain.Warehouse, error)
}

type Service interface {
	Create(ctx context.Context, req domain.CreateInventoryRequest) (*domain.InventoryRecord, error)
	Get(ctx context.Context, inventoryID string) (*domain.InventoryRecord, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.InventoryRecord, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]domain.InventoryRecord, error)
	LowStock(ctx context.Context, warehouseID string) ([]domain.InventoryRecord, error)
	Adjust(ctx context.Context, inventoryID, userID string, req domain.AdjustStockRequest) (*domain.InventoryRecord, error)
	Reserve(ctx context.Context, inventoryID string, req domain.ReserveStockRequest) (*domain.InventoryRecord, error)
	Release(ctx context.Context, inventoryID string, req domain.ReserveStockRequest) (*domain.InventoryRecord, error)
	Commit(ctx context.Context, inventoryID string, req domain.ReserveStockRequest) (*domain.InventoryRecord, error)
}

type service struct {
	inventory  Store
	products   ProductGetter
	warehouses WarehouseGetter
	now        func() time.Time
}

func NewService(inventory Store, products ProductGetter, warehouses WarehouseGetter) Service {
	return &service{inventory: inventory, products: products, warehouses: warehouses, now: time.Now}
}

// Create opens a stock record for a (product, warehouse) pair. One record
// per pair.
func (s *service) Create(ctx context.Context, req domain.CreateInventoryRequest) (*domain.InventoryRecord, error) {
	if _, err := s.products.Get(ctx, req.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product not found: %w", domain.ErrBadRequest)
		}
		return nil, err
	}
	if _, err := s.warehouses.Get(ctx, req.WarehouseID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("warehouse not found: %w", domain.ErrBadRequest)
		}
		return nil, err
	}
	if _, err := s.inventory.GetByProductWarehouse(ctx, req.ProductID, req.WarehouseID); err == nil {
		return nil, fmt.Errorf("inventory record already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	rec := &domain.InventoryRecord{
		InventoryID:      id.New(),
		ProductID:        req.ProductID,
		WarehouseID:      req.WarehouseID,
		SKU:              req.SKU,
		Available:        req.Available,
		ReorderThreshold: req.ReorderThreshold,
		Movements:        []domain.StockMovement{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Available > 0 {
		rec.Movements = append(rec.Movements, domain.StockMovement{
			Quantity:  req.Available,
			Reason:    domain.MovementReceipt,
			Reference: "initial",
			Timestamp: now,
		})
	}
	if err := s.inventory.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("create inventory record: %w", err)
	}
	return rec, nil
}

func (s *service) Get(ctx context.Context, inventoryID string) (*domain.InventoryRecord, error) {
	return s.inventory.Get(ctx, inventoryID)
}

func (s *service) ListByProduct(ctx context.Context, productID string) ([]domain.InventoryRecord, error) {
	return s.inventory.ListByProduct(ctx, productID)
}

func (s *service) ListByWarehouse(ctx context.Context, warehouseID string) ([]domain.InventoryRecord, error) {
	if _, err := s.warehouses.Get(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.inventory.ListByWarehouse(ctx, warehouseID)
}

// LowStock filters a warehouse's records down to those at or below their
// reorder threshold.
func (s *service) LowStock(ctx context.Context, warehouseID string) ([]domain.InventoryRecord, error) {
	recs, err := s.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	low := recs[:0]
	for _, r := range recs {
		if r.LowStock() {
			low = append(low, r)
		}
	}
	return low, nil
}

// Adjust applies a signed stock movement to available stock. Stock can never
// go negative.
func (s *service) Adjust(ctx context.Context, inventoryID, userID string, req domain.AdjustStockRequest) (*domain.InventoryRecord, error) {
	rec, err := s.inventory.Get(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	next := rec.Available + req.Quantity
	if next < 0 {
		return nil, fmt.Errorf("insufficient stock: have %d, adjusting by %d: %w",
			rec.Available, req.Quantity, domain.ErrBadRequest)
	}

	movements := append(rec.Movements, domain.StockMovement{
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Reference: req.Reference,
		UserID:    userID,
		Timestamp: s.now().UTC(),
	})
	if len(movements) > movementLogCap {
		movements = movements[len(movements)-movementLogCap:]
	}

	err = s.inventory.Update(ctx, inventoryID, map[string]interface{}{
		"available": next,
		"movements": movements,
	})
	if err != nil {
		return nil, err
	}
	return s.inventory.Get(ctx, inventoryID)
}

// Reserve moves stock from available to reserved for an open cart.
func (s *service) Reserve(ctx context.Context, inventoryID string, req domain.ReserveStockRequest) (*domain.InventoryRecord, error) {
	rec, err := s.inventory.Get(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if rec.Available < req.Quantity {
		return nil, fmt.Errorf("insufficient stock: %d available, %d requested: %w",
			rec.Available, req.Quantity, domain.ErrBadRequest)
	}
	err = s.inventory.Update(ctx, inventoryID, map[string]interface{}{
		"available": rec.Available - req.Quantity,
		"reserved":  rec.Reserved + req.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return s.inventory.Get(ctx, inventoryID)
}

// Release returns reserved stock to available when a cart lapses.
func (s *service) Release(ctx context.Context, inventoryID string, req domain.ReserveStockRequest) (*domain.InventoryRecord, error) {
	rec, err := s.inventory.Get(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if rec.Reserved < req.Quantity {
		return nil, fmt.Errorf("release exceeds reservation: %d reserved, %d requested: %w",
			rec.Reserved, req.Quantity, domain.ErrBadRequest)
	}
	err = s.inventory.Update(ctx, inventoryID, map[string]interface{}{
		"available": rec.Available + req.Quantity,
		"reserved":  rec.Reserved - req.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return s.inventory.Get(ctx, inventoryID)
}

// Commit converts reserved stock into committed stock at order confirmation.
func (s *service) Commit(ctx context.Context, inventoryID string, req domain.ReserveStockRequest) (*domain.InventoryRecord, error) {
	rec, err := s.inventory.Get(ctx, inventoryID)
	if err != nil {
		return nil, err
	}
	if rec.Reserved < req.Quantity {
		return nil, fmt.Errorf("commit exceeds reservation: %d reserved, %d requested: %w",
			rec.Reserved, req.Quantity, domain.ErrBadRequest)
	}
	err = s.inventory.Update(ctx, inventoryID, map[string]interface{}{
		"reserved":  rec.Reserved - req.Quantity,
		"committed": rec.Committed + req.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return s.inventory.Get(ctx, inventoryID)
}
