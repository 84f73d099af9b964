package domain

import "time"

// ProductImage is one stored image reference. Key is the S3 object key.
type ProductImage struct {
	Key       string `json:"key" dynamodbav:"key"`
	URL       string `json:"url" dynamodbav:"url"`
	Alt       string `json:"alt,omitempty" dynamodbav:"alt"`
	IsPrimary bool   `json:"is_primary" dynamodbav:"is_primary"`
}

// Rating is the denormalized review aggregate on a product, recomputed when a
// review is approved or removed.
type Rating struct {
	Average float64 `json:"average" dynamodbav:"average"`
	Count   int     `json:"count" dynamodbav:"count"`
}

type Product struct {
	ProductID   string  `json:"id" dynamodbav:"product_id"`
	Name        string  `json:"name" dynamodbav:"name"`
	Slug        string  `json:"slug" dynamodbav:"slug"`
	Description string  `json:"description,omitempty" dynamodbav:"description"`
	CategoryID  string  `json:"category_id" dynamodbav:"category_id"`
	SupplierID  *string `json:"supplier_id,omitempty" dynamodbav:"supplier_id"`
	SKU         string  `json:"sku" dynamodbav:"sku"`

	Price              int64  `json:"price" dynamodbav:"price"` // minor currency units
	Currency           string `json:"currency" dynamodbav:"currency"`
	DiscountPercentage int    `json:"discount_percentage" dynamodbav:"discount_percentage"`
	Unit               string `json:"unit" dynamodbav:"unit"` // kg, piece, litre, ...

	Images []ProductImage `json:"images" dynamodbav:"images"`
	Rating Rating         `json:"rating" dynamodbav:"rating"`

	IsSeasonal bool     `json:"is_seasonal" dynamodbav:"is_seasonal"`
	Seasons    []string `json:"seasons,omitempty" dynamodbav:"seasons"`

	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// EffectivePrice applies the discount, rounding down to the minor unit.
func (p *Product) EffectivePrice() int64 {
	if p.DiscountPercentage <= 0 {
		return p.Price
	}
	return p.Price - p.Price*int64(p.DiscountPercentage)/100
}

type CreateProductRequest struct {
	Name               string  `json:"name" validate:"required,min=2,max=200"`
	Description        string  `json:"description" validate:"max=2000"`
	CategoryID         string  `json:"category_id" validate:"required"`
	SupplierID         *string `json:"supplier_id"`
	SKU                string  `json:"sku" validate:"required"`
	Price              int64   `json:"price" validate:"required,gt=0"`
	Currency           string  `json:"currency" validate:"required,iso4217"`
	DiscountPercentage int     `json:"discount_percentage" validate:"gte=0,lte=90"`
	Unit               string  `json:"unit" validate:"required"`
	IsSeasonal         bool    `json:"is_seasonal"`
	Seasons            []string `json:"seasons"`
}

type UpdateProductRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=2,max=200"`
	Description        *string `json:"description" validate:"omitempty,max=2000"`
	CategoryID         *string `json:"category_id"`
	SupplierID         *string `json:"supplier_id"`
	Price              *int64  `json:"price" validate:"omitempty,gt=0"`
	DiscountPercentage *int    `json:"discount_percentage" validate:"omitempty,gte=0,lte=90"`
	Enable             *bool   `json:"enable"`
}
