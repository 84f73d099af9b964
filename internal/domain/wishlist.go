package domain

import "time"

// WishlistItem is one saved product with an optional price-alert target.
type WishlistItem struct {
	ProductID   string    `json:"product_id" dynamodbav:"product_id"`
	TargetPrice *int64    `json:"target_price,omitempty" dynamodbav:"target_price"`
	AddedAt     time.Time `json:"added_at" dynamodbav:"added_at"`
}

type Wishlist struct {
	WishlistID string         `json:"id" dynamodbav:"wishlist_id"`
	UserID     string         `json:"user_id" dynamodbav:"user_id"`
	Name       string         `json:"name" dynamodbav:"name"`
	IsDefault  bool           `json:"is_default" dynamodbav:"is_default"`
	IsPublic   bool           `json:"is_public" dynamodbav:"is_public"`
	Items      []WishlistItem `json:"items" dynamodbav:"items"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateWishlistRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	IsPublic bool   `json:"is_public"`
}

type AddWishlistItemRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	TargetPrice *int64 `json:"target_price" validate:"omitempty,gt=0"`
}
