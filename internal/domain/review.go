package domain

import "time"

// Review moderation statuses.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Review is one user's rating of one product. At most one review exists per
// (user, product) pair; a repeat submission is a conflict.
type Review struct {
	ReviewID  string `json:"id" dynamodbav:"review_id"`
	ProductID string `json:"product_id" dynamodbav:"product_id"`
	UserID    string `json:"user_id" dynamodbav:"user_id"`

	Rating  int    `json:"rating" dynamodbav:"rating"` // 1..5
	Title   string `json:"title,omitempty" dynamodbav:"title"`
	Content string `json:"content,omitempty" dynamodbav:"content"`

	Status          string `json:"status" dynamodbav:"status"`
	RejectionReason string `json:"rejection_reason,omitempty" dynamodbav:"rejection_reason"`
	IsVerified      bool   `json:"is_verified" dynamodbav:"is_verified"` // verified purchase

	Helpful    int `json:"helpful" dynamodbav:"helpful"`
	NotHelpful int `json:"not_helpful" dynamodbav:"not_helpful"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title     string `json:"title" validate:"max=150"`
	Content   string `json:"content" validate:"max=3000"`
}

type ModerateReviewRequest struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected"`
	RejectionReason string `json:"rejection_reason" validate:"max=500"`
}
