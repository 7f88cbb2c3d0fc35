package services

import (
	"context"

	"go.uber.org/zap"
)

// MetricsRecorder is satisfied by the CloudWatch metrics client.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

type noopRecorder struct{}

func (noopRecorder) RecordCount(context.Context, string, map[string]string) error { return nil }

func recorderOrNoop(r MetricsRecorder) MetricsRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

func recordCount(ctx context.Context, r MetricsRecorder, logger *zap.Logger, name string, dims map[string]string) {
	if err := r.RecordCount(ctx, name, dims); err != nil {
		logger.Warn("Failed to record metric", zap.String("metric", name), zap.Error(err))
	}
}
