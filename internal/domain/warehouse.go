package domain

import "time"

type Warehouse struct {
	WarehouseID string `json:"id" dynamodbav:"warehouse_id"`
	Code        string `json:"code" dynamodbav:"code"` // unique, uppercase
	Name        string `json:"name" dynamodbav:"name"`
	Address     string `json:"address" dynamodbav:"address"`
	City        string `json:"city" dynamodbav:"city"`
	Country     string `json:"country" dynamodbav:"country"`
	Capacity    int    `json:"capacity" dynamodbav:"capacity"` // storage units

	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateWarehouseRequest struct {
	Code     string `json:"code" validate:"required,alphanum,max=16"`
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	Country  string `json:"country" validate:"required,iso3166_1_alpha2"`
	Capacity int    `json:"capacity" validate:"gt=0"`
}

type UpdateWarehouseRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=200"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Capacity *int    `json:"capacity" validate:"omitempty,gt=0"`
	Enable   *bool   `json:"enable"`
}
