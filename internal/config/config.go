package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	RefreshTokenTTL   time.Duration

	OTPExpiry      time.Duration
	OTPMaxAttempts int

	LockoutThreshold int
	LockoutDuration  time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users      string
	Categories string
	Products   string
	Inventory  string
	Suppliers  string
	Warehouses string
	Carts      string
	Wishlists  string
	Reviews    string
	Stores     string
	Payments   string
	OTPs       string
	RateLimits string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:      getEnv("DYNAMO_TABLE_USERS", "users"),
			Categories: getEnv("DYNAMO_TABLE_CATEGORIES", "categories"),
			Products:   getEnv("DYNAMO_TABLE_PRODUCTS", "products"),
			Inventory:  getEnv("DYNAMO_TABLE_INVENTORY", "inventory"),
			Suppliers:  getEnv("DYNAMO_TABLE_SUPPLIERS", "suppliers"),
			Warehouses: getEnv("DYNAMO_TABLE_WAREHOUSES", "warehouses"),
			Carts:      getEnv("DYNAMO_TABLE_CARTS", "carts"),
			Wishlists:  getEnv("DYNAMO_TABLE_WISHLISTS", "wishlists"),
			Reviews:    getEnv("DYNAMO_TABLE_REVIEWS", "reviews"),
			Stores:     getEnv("DYNAMO_TABLE_STORES", "stores"),
			Payments:   getEnv("DYNAMO_TABLE_PAYMENTS", "payments"),
			OTPs:       getEnv("DYNAMO_TABLE_OTPS", "otps"),
			RateLimits: getEnv("DYNAMO_TABLE_RATE_LIMITS", "rate_limits"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "freshcart-product-images"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_MINUTES", 15)) * time.Minute,
		RefreshTokenTTL:   time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		OTPExpiry:      time.Duration(getEnvInt("OTP_EXPIRY_MINUTES", 10)) * time.Minute,
		OTPMaxAttempts: getEnvInt("OTP_MAX_ATTEMPTS", 3),

		LockoutThreshold: getEnvInt("LOGIN_LOCKOUT_THRESHOLD", 5),
		LockoutDuration:  time.Duration(getEnvInt("LOGIN_LOCKOUT_HOURS", 2)) * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@freshcart.example"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Validate rejects configurations the process cannot safely start with,
// so a bad deploy fails at boot instead of at first request.
func (c *Config) Validate() error {
	if c.OTPExpiry <= 0 {
		return fmt.Errorf("OTP_EXPIRY_MINUTES must be positive")
	}
	if c.OTPMaxAttempts <= 0 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be positive")
	}
	if c.LockoutThreshold <= 0 {
		return fmt.Errorf("LOGIN_LOCKOUT_THRESHOLD must be positive")
	}
	if c.JWTExpiry <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token expiries must be positive")
	}
	if c.AppEnv == "production" && c.AWSAccessKeyID == "" {
		return fmt.Errorf("AWS credentials are required in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
