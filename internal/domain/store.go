package domain

import "time"

// StoreHours is one weekday's opening window, "HH:MM" local time.
type StoreHours struct {
	Open  string `json:"open" dynamodbav:"open"`
	Close string `json:"close" dynamodbav:"close"`
}

type Store struct {
	StoreID string `json:"id" dynamodbav:"store_id"`
	Code    string `json:"code" dynamodbav:"code"` // unique, uppercase
	Name    string `json:"name" dynamodbav:"name"`

	Street     string `json:"street" dynamodbav:"street"`
	City       string `json:"city" dynamodbav:"city"`
	PostalCode string `json:"postal_code" dynamodbav:"postal_code"`
	Country    string `json:"country" dynamodbav:"country"`

	Phone string `json:"phone,omitempty" dynamodbav:"phone"`
	Email string `json:"email,omitempty" dynamodbav:"email"`

	Hours map[string]StoreHours `json:"hours,omitempty" dynamodbav:"hours"` // keyed by weekday name

	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateStoreRequest struct {
	Code       string `json:"code" validate:"required,alphanum,max=16"`
	Name       string `json:"name" validate:"required,min=2,max=200"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
	Phone      string `json:"phone"`
	Email      string `json:"email" validate:"omitempty,email"`
}

type UpdateStoreRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=200"`
	Street *string `json:"street"`
	City   *string `json:"city"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Enable *bool   `json:"enable"`
}
