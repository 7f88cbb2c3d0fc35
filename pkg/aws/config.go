package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"
)

// LoadAWSConfig loads the default AWS config. When AWS_ENDPOINT is set (LocalStack)
// every client built from the config targets that URL instead of AWS.
func LoadAWSConfig(ctx context.Context, logger *zap.Logger) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = os.Getenv("AWS_REGION")
	}

	if endpoint := os.Getenv("AWS_ENDPOINT"); endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
		logger.Info("Using custom AWS endpoint",
			zap.String("endpoint", endpoint),
			zap.String("region", cfg.Region))
	}

	return cfg, nil
}

// usePathStyle is required by LocalStack and harmless against AWS.
func usePathStyle(cfg sdkaws.Config) bool {
	return cfg.BaseEndpoint != nil
}
