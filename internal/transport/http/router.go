package http

import (
	"net/http"
	"time"

	"github.com/freshcart/freshcart-api/internal/application/cart"
	"github.com/freshcart/freshcart-api/internal/application/catalog"
	"github.com/freshcart/freshcart-api/internal/application/category"
	"github.com/freshcart/freshcart-api/internal/application/inventory"
	"github.com/freshcart/freshcart-api/internal/application/notify"
	"github.com/freshcart/freshcart-api/internal/application/otp"
	"github.com/freshcart/freshcart-api/internal/application/payment"
	"github.com/freshcart/freshcart-api/internal/application/review"
	storeapp "github.com/freshcart/freshcart-api/internal/application/store"
	"github.com/freshcart/freshcart-api/internal/application/supplier"
	"github.com/freshcart/freshcart-api/internal/application/user"
	"github.com/freshcart/freshcart-api/internal/application/warehouse"
	"github.com/freshcart/freshcart-api/internal/application/wishlist"
	"github.com/freshcart/freshcart-api/internal/config"
	"github.com/freshcart/freshcart-api/internal/domain"
	"github.com/freshcart/freshcart-api/internal/transport/http/handler"
	appmiddleware "github.com/freshcart/freshcart-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 10 requests/second, burst of 20 — a coarse per-IP screen for everything.
	generalRL := appmiddleware.NewRateLimiter(rate.Limit(10), 20)
	r.Use(generalRL.Limit)

	// Fixed-window limits for the credential endpoints, shared across
	// instances through the counter store.
	loginRL := appmiddleware.NewWindowLimiter(deps.RateLimitRepo, "login", 15*time.Minute, 5, appmiddleware.KeyByIPAndEmail)
	registerRL := appmiddleware.NewWindowLimiter(deps.RateLimitRepo, "register", time.Hour, 3, appmiddleware.KeyByIP)
	verifyRL := appmiddleware.NewWindowLimiter(deps.RateLimitRepo, "verify", time.Hour, 3, appmiddleware.KeyByIPAndEmail)
	refreshRL := appmiddleware.NewWindowLimiter(deps.RateLimitRepo, "refresh", 15*time.Minute, 10, appmiddleware.KeyByIP)

	otpSvc := otp.NewService(deps.OTPRepo, cfg.OTPExpiry, cfg.OTPMaxAttempts)
	notifier := notify.NewDispatcher(deps.Mailer, deps.SMSSender)
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:         deps.UserRepo,
		OTP:              otpSvc,
		Notifier:         notifier,
		JWTProvider:      deps.JWTProvider,
		JWTExpiry:        cfg.JWTExpiry,
		RefreshTokenDur:  cfg.RefreshTokenTTL,
		LockoutThreshold: cfg.LockoutThreshold,
		LockoutDuration:  cfg.LockoutDuration,
	})
	categorySvc := category.NewService(deps.CategoryRepo, deps.ProductRepo)
	catalogSvc := catalog.NewService(deps.ProductRepo, deps.CategoryRepo, deps.S3Store)
	inventorySvc := inventory.NewService(deps.InventoryRepo, deps.ProductRepo, deps.WarehouseRepo)
	supplierSvc := supplier.NewService(deps.SupplierRepo)
	warehouseSvc := warehouse.NewService(deps.WarehouseRepo, deps.InventoryRepo)
	cartSvc := cart.NewService(deps.CartRepo, deps.ProductRepo)
	wishlistSvc := wishlist.NewService(deps.WishlistRepo, deps.ProductRepo)
	reviewSvc := review.NewService(deps.ReviewRepo, deps.ProductRepo)
	storeSvc := storeapp.NewService(deps.StoreRepo)
	providers := payment.NewRegistry(payment.NewCODProvider())
	paymentSvc := payment.NewService(deps.PaymentRepo, deps.CartRepo, providers)

	secureCookies := cfg.AppEnv == "production"

	healthH := handler.NewHealthHandler(deps.RateLimitRepo)
	userH := handler.NewUserHandler(userSvc, cfg.RefreshTokenTTL, secureCookies)
	categoryH := handler.NewCategoryHandler(categorySvc)
	productH := handler.NewProductHandler(catalogSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	supplierH := handler.NewSupplierHandler(supplierSvc)
	warehouseH := handler.NewWarehouseHandler(warehouseSvc)
	cartH := handler.NewCartHandler(cartSvc)
	wishlistH := handler.NewWishlistHandler(wishlistSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	storeH := handler.NewStoreHandler(storeSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health/live", healthH.Live)
		r.Get("/health/ready", healthH.Ready)

		r.With(registerRL.Limit).Post("/users/register", userH.Register)
		r.With(verifyRL.Limit).Post("/users/verify/email", userH.VerifyEmail)
		r.With(verifyRL.Limit).Post("/users/verify/phone", userH.VerifyPhone)
		r.With(verifyRL.Limit).Post("/users/resend-otp", userH.ResendOTP)
		r.With(loginRL.Limit).Post("/users/login", userH.Login)
		r.With(refreshRL.Limit).Post("/users/refresh-token", userH.Refresh)

		r.Get("/categories", categoryH.List)
		r.Get("/categories/tree", categoryH.Tree)
		r.Get("/categories/slug/{slug}", categoryH.GetBySlug)
		r.Get("/categories/{id}", categoryH.Get)
		r.Get("/categories/{id}/subcategories", categoryH.Subcategories)
		r.Get("/categories/{id}/path", categoryH.Path)
		r.Get("/categories/{id}/stats", categoryH.Stats)
		r.Get("/categories/{id}/products", productH.ListByCategory)

		r.Get("/products/search", productH.Search)
		r.Get("/products/slug/{slug}", productH.GetBySlug)
		r.Get("/products/{id}", productH.Get)
		r.Get("/products/{id}/reviews", reviewH.ListApproved)

		r.Get("/stores", storeH.List)
		r.Get("/stores/{id}", storeH.Get)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/users/logout", userH.Logout)
			r.Get("/users/me", userH.Me)
			r.Put("/users/me", userH.UpdateMe)
			r.Post("/users/change-password", userH.ChangePassword)

			r.Get("/carts/active", cartH.Get)
			r.Post("/carts/items", cartH.AddItem)
			r.Put("/carts/items/{productID}", cartH.UpdateItem)
			r.Delete("/carts/items/{productID}", cartH.RemoveItem)
			r.Delete("/carts", cartH.Clear)
			r.Post("/carts/checkout", cartH.Checkout)

			r.Post("/wishlists", wishlistH.Create)
			r.Get("/wishlists", wishlistH.ListMine)
			r.Get("/wishlists/{id}", wishlistH.Get)
			r.Post("/wishlists/{id}/items", wishlistH.AddItem)
			r.Delete("/wishlists/{id}/items/{productID}", wishlistH.RemoveItem)
			r.Delete("/wishlists/{id}", wishlistH.Delete)

			r.Post("/reviews", reviewH.Create)
			r.Get("/reviews/{id}", reviewH.Get)
			r.Post("/reviews/{id}/vote", reviewH.Vote)
			r.Delete("/reviews/{id}", reviewH.Delete)

			r.Post("/payments", paymentH.Create)
			r.Get("/payments", paymentH.ListMine)
			r.Get("/payments/{id}", paymentH.Get)

			// Catalog and stock management
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleManager))

				r.Post("/products", productH.Create)
				r.Put("/products/{id}", productH.Update)
				r.Post("/products/{id}/images", productH.UploadImage)
				r.Delete("/products/{id}/images", productH.DeleteImage)
				r.Delete("/products/{id}", productH.Delete)

				r.Post("/inventory", inventoryH.Create)
				r.Get("/inventory/{id}", inventoryH.Get)
				r.Get("/inventory/product/{id}", inventoryH.ListByProduct)
				r.Get("/inventory/warehouse/{id}", inventoryH.ListByWarehouse)
				r.Get("/inventory/warehouse/{id}/low-stock", inventoryH.LowStock)
				r.Post("/inventory/{id}/adjust", inventoryH.Adjust)
				r.Post("/inventory/{id}/reserve", inventoryH.Reserve)
				r.Post("/inventory/{id}/release", inventoryH.Release)
				r.Post("/inventory/{id}/commit", inventoryH.Commit)

				r.Post("/suppliers", supplierH.Create)
				r.Get("/suppliers", supplierH.List)
				r.Get("/suppliers/{id}", supplierH.Get)
				r.Put("/suppliers/{id}", supplierH.Update)
				r.Delete("/suppliers/{id}", supplierH.Delete)

				r.Post("/warehouses", warehouseH.Create)
				r.Get("/warehouses", warehouseH.List)
				r.Get("/warehouses/{id}", warehouseH.Get)
				r.Put("/warehouses/{id}", warehouseH.Update)
				r.Delete("/warehouses/{id}", warehouseH.Delete)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/categories", categoryH.Create)
				r.Put("/categories/{id}", categoryH.Update)
				r.Put("/categories/{id}/move", categoryH.Move)
				r.Delete("/categories/{id}", categoryH.Delete)

				r.Post("/stores", storeH.Create)
				r.Put("/stores/{id}", storeH.Update)
				r.Put("/stores/{id}/hours", storeH.SetHours)
				r.Delete("/stores/{id}", storeH.Delete)

				r.Get("/products/{id}/reviews/pending", reviewH.ListPending)
				r.Put("/reviews/{id}/moderate", reviewH.Moderate)

				r.Post("/payments/{id}/capture", paymentH.Capture)
				r.Post("/payments/{id}/refund", paymentH.Refund)

				r.Get("/users", userH.List)
				r.Get("/users/{id}", userH.Get)
				r.Put("/users/{id}", userH.AdminUpdate)
				r.Delete("/users/{id}", userH.Delete)
			})
		})
	})

	return r
}
