package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshcart/freshcart-api/internal/config"
	"github.com/freshcart/freshcart-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/freshcart/freshcart-api/internal/infrastructure/jwt"
	s3infra "github.com/freshcart/freshcart-api/internal/infrastructure/s3"
	"github.com/freshcart/freshcart-api/internal/infrastructure/smtp"
	"github.com/freshcart/freshcart-api/internal/infrastructure/sns"
	transporthttp "github.com/freshcart/freshcart-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if cfg.AppEnv != "production" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	slog.SetDefault(logger)

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		slog.Error("JWT provider not available", "err", err)
		os.Exit(1)
	}

	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — phone verification degrades without it).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		slog.Warn("SNS sender not available", "err", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:      dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		CategoryRepo:  dynamo.NewCategoryRepo(dynamoClient, cfg.DynamoTables.Categories),
		ProductRepo:   dynamo.NewProductRepo(dynamoClient, cfg.DynamoTables.Products),
		InventoryRepo: dynamo.NewInventoryRepo(dynamoClient, cfg.DynamoTables.Inventory),
		SupplierRepo:  dynamo.NewSupplierRepo(dynamoClient, cfg.DynamoTables.Suppliers),
		WarehouseRepo: dynamo.NewWarehouseRepo(dynamoClient, cfg.DynamoTables.Warehouses),
		CartRepo:      dynamo.NewCartRepo(dynamoClient, cfg.DynamoTables.Carts),
		WishlistRepo:  dynamo.NewWishlistRepo(dynamoClient, cfg.DynamoTables.Wishlists),
		ReviewRepo:    dynamo.NewReviewRepo(dynamoClient, cfg.DynamoTables.Reviews),
		StoreRepo:     dynamo.NewStoreRepo(dynamoClient, cfg.DynamoTables.Stores),
		PaymentRepo:   dynamo.NewPaymentRepo(dynamoClient, cfg.DynamoTables.Payments),
		OTPRepo:       dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPs),
		RateLimitRepo: dynamo.NewRateLimitRepo(dynamoClient, cfg.DynamoTables.RateLimits),
		S3Store:       s3Store,
		Mailer:        mailer,
		SMSSender:     smsSender,
		JWTProvider:   jwtProvider,
	}

	// The credential endpoints sit behind store-backed limiters that fail open
	// on counter errors, so the counter table must be answering before the
	// first request is accepted.
	readyCtx, readyCancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = deps.RateLimitRepo.Ready(readyCtx)
	readyCancel()
	if err != nil {
		slog.Error("rate-limit counter store not ready", "err", err)
		os.Exit(1)
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
