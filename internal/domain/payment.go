package domain

import "time"

// Payment statuses, in lifecycle order. Refunded and failed are terminal.
const (
	PaymentCreated    = "created"
	PaymentAuthorized = "authorized"
	PaymentCaptured   = "captured"
	PaymentRefunded   = "refunded"
	PaymentFailed     = "failed"
)

type Payment struct {
	PaymentID string `json:"id" dynamodbav:"payment_id"`
	UserID    string `json:"user_id" dynamodbav:"user_id"`
	CartID    string `json:"cart_id" dynamodbav:"cart_id"`

	Amount   int64  `json:"amount" dynamodbav:"amount"`
	Currency string `json:"currency" dynamodbav:"currency"`
	Method   string `json:"method" dynamodbav:"method"` // card, upi, cod, ...

	Provider          string `json:"provider" dynamodbav:"provider"`
	ProviderOrderID   string `json:"provider_order_id,omitempty" dynamodbav:"provider_order_id"`
	ProviderPaymentID string `json:"provider_payment_id,omitempty" dynamodbav:"provider_payment_id"`

	Status       string `json:"status" dynamodbav:"status"`
	FailureCode  string `json:"failure_code,omitempty" dynamodbav:"failure_code"`
	RefundAmount int64  `json:"refund_amount,omitempty" dynamodbav:"refund_amount"`
	RefundReason string `json:"refund_reason,omitempty" dynamodbav:"refund_reason"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreatePaymentRequest struct {
	CartID   string `json:"cart_id" validate:"required"`
	Method   string `json:"method" validate:"required,oneof=card upi netbanking cod"`
	Provider string `json:"provider" validate:"required"`
}

type RefundPaymentRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,max=500"`
}
