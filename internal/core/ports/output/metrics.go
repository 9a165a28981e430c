package ports

import (
	"context"
	"time"
)

type TimeRange struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

// EndpointMetrics summarizes invocation traffic for one endpoint over a
// time range.
type EndpointMetrics struct {
	EndpointName    string  `json:"endpoint_name"`
	InvocationCount float64 `json:"invocation_count"`
	LatencyP50Ms    float64 `json:"latency_p50_ms"`
	LatencyP99Ms    float64 `json:"latency_p99_ms"`
	ErrorRate       float64 `json:"error_rate"`
}

type MetricsClient interface {
	IsAvailable() bool
	EndpointMetrics(ctx context.Context, endpointName string, tr TimeRange) (*EndpointMetrics, error)
}
