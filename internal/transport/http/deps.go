package http

import (
	"github.com/freshcart/freshcart-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/freshcart/freshcart-api/internal/infrastructure/jwt"
	s3infra "github.com/freshcart/freshcart-api/internal/infrastructure/s3"
	"github.com/freshcart/freshcart-api/internal/infrastructure/smtp"
	"github.com/freshcart/freshcart-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo      *dynamo.UserRepo
	CategoryRepo  *dynamo.CategoryRepo
	ProductRepo   *dynamo.ProductRepo
	InventoryRepo *dynamo.InventoryRepo
	SupplierRepo  *dynamo.SupplierRepo
	WarehouseRepo *dynamo.WarehouseRepo
	CartRepo      *dynamo.CartRepo
	WishlistRepo  *dynamo.WishlistRepo
	ReviewRepo    *dynamo.ReviewRepo
	StoreRepo     *dynamo.StoreRepo
	PaymentRepo   *dynamo.PaymentRepo
	OTPRepo       *dynamo.OTPRepo
	RateLimitRepo *dynamo.RateLimitRepo
	S3Store       *s3infra.Store
	Mailer        smtp.Mailer
	SMSSender     sns.SMSSender
	JWTProvider   *jwtinfra.Provider
}
