package services

import (
	"context"
	"time"

	"model-promotion-service/internal/core/domain"
	ports "model-promotion-service/internal/core/ports/output"
)

type EndpointMetricsService struct {
	metrics ports.MetricsClient
}

func NewEndpointMetricsService(metrics ports.MetricsClient) *EndpointMetricsService {
	return &EndpointMetricsService{metrics: metrics}
}

// EndpointMetrics returns invocation metrics for a deployed endpoint over
// the given range, defaulting to the last hour.
func (s *EndpointMetricsService) EndpointMetrics(ctx context.Context, endpointName string, start, end time.Time) (*ports.EndpointMetrics, error) {
	if s.metrics == nil || !s.metrics.IsAvailable() {
		return nil, domain.ErrMetricsNotAvailable
	}

	if end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() {
		start = end.Add(-time.Hour)
	}
	if !start.Before(end) {
		return nil, domain.ErrInvalidTimeRange
	}

	return s.metrics.EndpointMetrics(ctx, endpointName, ports.TimeRange{
		Start: start,
		End:   end,
		Step:  time.Minute,
	})
}
