package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the loaded configuration
type Config struct {
	Port string
	Env  string

	// Backend REST API
	APIBaseURL         string
	RequestTimeout     time.Duration
	APIRateLimit       float64
	APIRateBurst       int
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration

	// Stripe
	StripePublishableKey string
	StripeSecretKey      string
	StripeSecretName     string // Secrets Manager name, used when StripeSecretKey is empty

	// Session cookie
	CredentialCookie string
	CookieSecure     bool

	RedisURL        string
	ProductCacheTTL time.Duration

	InvoiceBucket string

	CloudWatchEnabled   bool
	CloudWatchLogGroup  string
	CloudWatchNamespace string

	OTLPEndpoint string
}

// Load reads .env (when present) and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "3000"),
		Env:                  getEnv("APP_ENV", "development"),
		APIBaseURL:           strings.TrimSuffix(getEnv("API_URL", "http://localhost:5045/api"), "/"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripeSecretName:     os.Getenv("STRIPE_SECRET_NAME"),
		CredentialCookie:     getEnv("CREDENTIAL_COOKIE", "token"),
		RedisURL:             os.Getenv("REDIS_URL"),
		InvoiceBucket:        os.Getenv("INVOICE_BUCKET"),
		CloudWatchLogGroup:   getEnv("CLOUDWATCH_LOG_GROUP", "/pharmacy/storefront"),
		CloudWatchNamespace:  getEnv("CLOUDWATCH_NAMESPACE", "PharmacyStorefront"),
		OTLPEndpoint:         os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.BreakerOpenTimeout, err = getDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = getDuration("PRODUCT_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.APIRateLimit, err = strconv.ParseFloat(getEnv("API_RATE_LIMIT", "20"), 64); err != nil {
		return nil, fmt.Errorf("invalid API_RATE_LIMIT: %w", err)
	}
	if cfg.APIRateBurst, err = strconv.Atoi(getEnv("API_RATE_BURST", "40")); err != nil {
		return nil, fmt.Errorf("invalid API_RATE_BURST: %w", err)
	}
	failures, err := strconv.ParseUint(getEnv("BREAKER_MAX_FAILURES", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_MAX_FAILURES: %w", err)
	}
	cfg.BreakerMaxFailures = uint32(failures)
	cfg.CookieSecure = getEnv("COOKIE_SECURE", "false") == "true"
	cfg.CloudWatchEnabled = os.Getenv("CLOUDWATCH_ENABLED") == "true"

	if cfg.StripeSecretKey == "" && cfg.StripeSecretName == "" {
		return nil, fmt.Errorf("missing required environment variables: STRIPE_SECRET_KEY or STRIPE_SECRET_NAME")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
