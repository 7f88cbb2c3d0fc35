package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/yashrajoria/pharmacy-storefront/cache"
	"github.com/yashrajoria/pharmacy-storefront/clients"
	"github.com/yashrajoria/pharmacy-storefront/config"
	"github.com/yashrajoria/pharmacy-storefront/controllers"
	"github.com/yashrajoria/pharmacy-storefront/logger"
	"github.com/yashrajoria/pharmacy-storefront/middleware"
	awspkg "github.com/yashrajoria/pharmacy-storefront/pkg/aws"
	"github.com/yashrajoria/pharmacy-storefront/routes"
	"github.com/yashrajoria/pharmacy-storefront/services"
	"github.com/yashrajoria/pharmacy-storefront/tracing"
)

const serviceName = "pharmacy-storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	zapLogger := logger.Initialize(cfg.Env)

	// ── AWS: CloudWatch Logs + Metrics, Secrets Manager, S3 ──
	var awsCfg sdkaws.Config
	needAWS := cfg.CloudWatchEnabled || cfg.InvoiceBucket != "" || cfg.StripeSecretKey == ""
	if needAWS {
		awsCfg, err = awspkg.LoadAWSConfig(ctx, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to load AWS config", zap.Error(err))
		}
	}

	var metricsClient *awspkg.MetricsClient
	if cfg.CloudWatchEnabled {
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.CloudWatchLogGroup, serviceName, true)
		if err != nil {
			zapLogger.Warn("CloudWatch Logs init failed", zap.Error(err))
		} else {
			zapLogger = logger.InitializeWithWriter(cfg.Env, cwLogs)
			zapLogger.Info("CloudWatch Logs enabled", zap.String("log_group", cfg.CloudWatchLogGroup))
		}
		metricsClient = awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, true)
	}
	defer func() { _ = zapLogger.Sync() }()

	stripeKey := cfg.StripeSecretKey
	if stripeKey == "" {
		secrets := awspkg.NewSecretsClient(awsCfg)
		stripeKey, err = secrets.GetSecretField(ctx, cfg.StripeSecretName, awspkg.StripeKeyField)
		if err != nil {
			zapLogger.Fatal("Failed to load Stripe secret", zap.String("secret", cfg.StripeSecretName), zap.Error(err))
		}
	}

	// ── Tracing ──
	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.OTLPEndpoint, cfg.Env, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// ── Backend API pipeline ──
	api := clients.NewAPIClient(clients.Options{
		BaseURL:            cfg.APIBaseURL,
		Timeout:            cfg.RequestTimeout,
		RateLimit:          cfg.APIRateLimit,
		RateBurst:          cfg.APIRateBurst,
		BreakerMaxFailures: cfg.BreakerMaxFailures,
		BreakerOpenTimeout: cfg.BreakerOpenTimeout,
	}, zapLogger)
	api.OnAuthExpired(func() {
		go func() {
			mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsClient.RecordCount(mctx, awspkg.MetricAuthExpired, nil)
		}()
	})

	deps := controllers.Dependencies{
		API:                  api,
		Tokenizer:            clients.NewStripeTokenizer(stripeKey, zapLogger),
		StripePublishableKey: cfg.StripePublishableKey,
		Logger:               zapLogger,
	}
	if metricsClient != nil {
		deps.Metrics = metricsClient
	}

	// Redis (optional - product list cache)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("Invalid REDIS_URL", zap.Error(err))
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		deps.ProductCache = cache.NewRedisProductCache(redisClient, cfg.ProductCacheTTL)
		zapLogger.Info("Connected to Redis, product cache enabled")
	}

	if cfg.InvoiceBucket != "" {
		deps.Archive = awspkg.NewInvoiceArchive(awspkg.NewS3Client(awsCfg), cfg.InvoiceBucket)
		zapLogger.Info("Invoice archive enabled", zap.String("bucket", cfg.InvoiceBucket))
	}

	ctrl := controllers.NewStorefrontController(deps)
	r, err := routes.NewEngine(ctrl, routes.EngineOptions{
		ServiceName:  serviceName,
		CookieName:   cfg.CredentialCookie,
		CookieSecure: cfg.CookieSecure,
		LoginLimiter: middleware.NewRateLimiter(rate.Every(time.Minute/10), 5, 10*time.Minute),
		Metrics:      metricsClient,
		Logger:       zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Storefront listening", zap.String("port", cfg.Port), zap.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down storefront")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown error", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zapLogger.Error("Tracing shutdown error", zap.Error(err))
	}
}

var _ services.MetricsRecorder = (*awspkg.MetricsClient)(nil)
