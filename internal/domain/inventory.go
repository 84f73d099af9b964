package domain

import "time"

// Stock movement reasons.
const (
	MovementReceipt    = "receipt"
	MovementSale       = "sale"
	MovementReturn     = "return"
	MovementDamage     = "damage"
	MovementAdjustment = "adjustment"
)

// StockMovement is one audit entry in an inventory record's movement log.
type StockMovement struct {
	Quantity  int       `json:"quantity" dynamodbav:"quantity"` // signed
	Reason    string    `json:"reason" dynamodbav:"reason"`
	Reference string    `json:"reference,omitempty" dynamodbav:"reference"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Timestamp time.Time `json:"timestamp" dynamodbav:"timestamp"`
}

// InventoryRecord tracks stock of one product in one warehouse.
// Available is sellable stock; Reserved is held by open carts/orders;
// Committed is allocated to confirmed orders awaiting shipment.
type InventoryRecord struct {
	InventoryID string `json:"id" dynamodbav:"inventory_id"`
	ProductID   string `json:"product_id" dynamodbav:"product_id"`
	WarehouseID string `json:"warehouse_id" dynamodbav:"warehouse_id"`
	SKU         string `json:"sku" dynamodbav:"sku"`

	Available int `json:"available" dynamodbav:"available"`
	Reserved  int `json:"reserved" dynamodbav:"reserved"`
	Committed int `json:"committed" dynamodbav:"committed"`

	ReorderThreshold int `json:"reorder_threshold" dynamodbav:"reorder_threshold"`

	Movements []StockMovement `json:"movements,omitempty" dynamodbav:"movements"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// LowStock reports whether available stock has fallen to the reorder threshold.
func (r *InventoryRecord) LowStock() bool {
	return r.Available <= r.ReorderThreshold
}

type CreateInventoryRequest struct {
	ProductID        string `json:"product_id" validate:"required"`
	WarehouseID      string `json:"warehouse_id" validate:"required"`
	SKU              string `json:"sku" validate:"required"`
	Available        int    `json:"available" validate:"gte=0"`
	ReorderThreshold int    `json:"reorder_threshold" validate:"gte=0"`
}

type AdjustStockRequest struct {
	Quantity  int    `json:"quantity" validate:"required"`
	Reason    string `json:"reason" validate:"required,oneof=receipt sale return damage adjustment"`
	Reference string `json:"reference"`
}

type ReserveStockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}
