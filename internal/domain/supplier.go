package domain

import "time"

type Supplier struct {
	SupplierID string `json:"id" dynamodbav:"supplier_id"`
	Code       string `json:"code" dynamodbav:"code"` // unique, uppercase
	Name       string `json:"name" dynamodbav:"name"`
	Email      string `json:"email" dynamodbav:"email"`
	Phone      string `json:"phone,omitempty" dynamodbav:"phone"`
	Address    string `json:"address,omitempty" dynamodbav:"address"`
	LeadDays   int    `json:"lead_days" dynamodbav:"lead_days"`

	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateSupplierRequest struct {
	Code     string `json:"code" validate:"required,alphanum,max=16"`
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LeadDays int    `json:"lead_days" validate:"gte=0"`
}

type UpdateSupplierRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	LeadDays *int    `json:"lead_days" validate:"omitempty,gte=0"`
	Enable   *bool   `json:"enable"`
}
