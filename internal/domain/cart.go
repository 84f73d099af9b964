package domain

import "time"

// Cart statuses.
const (
	CartActive    = "active"
	CartCheckout  = "checkout"
	CartAbandoned = "abandoned"
	CartConverted = "converted"
)

// CartItem is one product line in a cart. Price is the effective unit price
// captured at the time the item was added or last updated.
type CartItem struct {
	ProductID string `json:"product_id" dynamodbav:"product_id"`
	Name      string `json:"name" dynamodbav:"name"`
	Quantity  int    `json:"quantity" dynamodbav:"quantity"`
	Price     int64  `json:"price" dynamodbav:"price"`
}

// CartTotals holds the derived money fields. They are recomputed by a pure
// function immediately before every save, never by storage hooks.
type CartTotals struct {
	Subtotal int64 `json:"subtotal" dynamodbav:"subtotal"`
	Tax      int64 `json:"tax" dynamodbav:"tax"`
	Discount int64 `json:"discount" dynamodbav:"discount"`
	Total    int64 `json:"total" dynamodbav:"total"`
}

type Cart struct {
	CartID   string     `json:"id" dynamodbav:"cart_id"`
	UserID   string     `json:"user_id" dynamodbav:"user_id"`
	StoreID  *string    `json:"store_id,omitempty" dynamodbav:"store_id"`
	Status   string     `json:"status" dynamodbav:"status"`
	Items    []CartItem `json:"items" dynamodbav:"items"`
	Currency string     `json:"currency" dynamodbav:"currency"`
	Totals   CartTotals `json:"totals" dynamodbav:"totals"`

	ExpiresAt *time.Time `json:"expires_at,omitempty" dynamodbav:"expires_at"`
	CreatedAt time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=99"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=0,lte=99"`
}
