package prometheus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"model-promotion-service/internal/config"
	ports "model-promotion-service/internal/core/ports/output"
)

type prometheusClient struct {
	baseURL string
	client  *http.Client
	enabled bool
}

// NewMetricsClient creates a Prometheus-backed metrics client adapter
func NewMetricsClient(cfg *config.PrometheusConfig) ports.MetricsClient {
	if !cfg.Enabled {
		return &prometheusClient{enabled: false}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &prometheusClient{
		baseURL: cfg.URL,
		enabled: true,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *prometheusClient) IsAvailable() bool {
	if !c.enabled {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/-/healthy", nil)
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Prometheus API response structures
type promResponse struct {
	Status string   `json:"status"`
	Data   promData `json:"data"`
}

type promData struct {
	ResultType string       `json:"resultType"`
	Result     []promResult `json:"result"`
}

type promResult struct {
	Metric map[string]string `json:"metric"`
	Value  []interface{}     `json:"value"` // [timestamp, value]
}

func (c *prometheusClient) instantQuery(ctx context.Context, promQL string, at time.Time) (float64, error) {
	params := url.Values{}
	params.Set("query", promQL)
	params.Set("time", strconv.FormatInt(at.Unix(), 10))

	reqURL := fmt.Sprintf("%s/api/v1/query?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var promResp promResponse
	if err := json.NewDecoder(resp.Body).Decode(&promResp); err != nil {
		return 0, err
	}

	if promResp.Status != "success" {
		return 0, fmt.Errorf("prometheus query failed: %s", promResp.Status)
	}

	return firstValue(promResp.Data.Result), nil
}

func firstValue(result []promResult) float64 {
	for _, r := range result {
		if len(r.Value) >= 2 {
			valStr, _ := r.Value[1].(string)
			val, _ := strconv.ParseFloat(valStr, 64)
			return val
		}
	}
	return 0
}

// EndpointMetrics summarizes invocation traffic for one endpoint over the
// range. Querying an unknown endpoint yields zeros, not an error.
func (c *prometheusClient) EndpointMetrics(ctx context.Context, endpointName string, tr ports.TimeRange) (*ports.EndpointMetrics, error) {
	window := tr.End.Sub(tr.Start)
	if window <= 0 {
		window = time.Hour
	}
	rangeStr := fmt.Sprintf("%ds", int64(window.Seconds()))

	invocations, err := c.instantQuery(ctx, fmt.Sprintf(
		`sum(increase(endpoint_invocations_total{endpoint="%s"}[%s]))`,
		endpointName, rangeStr), tr.End)
	if err != nil {
		return nil, fmt.Errorf("query invocation count: %w", err)
	}

	p50, err := c.instantQuery(ctx, fmt.Sprintf(
		`histogram_quantile(0.50, sum(rate(endpoint_latency_seconds_bucket{endpoint="%s"}[%s])) by (le)) * 1000`,
		endpointName, rangeStr), tr.End)
	if err != nil {
		return nil, fmt.Errorf("query latency p50: %w", err)
	}

	p99, err := c.instantQuery(ctx, fmt.Sprintf(
		`histogram_quantile(0.99, sum(rate(endpoint_latency_seconds_bucket{endpoint="%s"}[%s])) by (le)) * 1000`,
		endpointName, rangeStr), tr.End)
	if err != nil {
		return nil, fmt.Errorf("query latency p99: %w", err)
	}

	errorRate, err := c.instantQuery(ctx, fmt.Sprintf(
		`sum(rate(endpoint_invocation_errors_total{endpoint="%s"}[%s])) / sum(rate(endpoint_invocations_total{endpoint="%s"}[%s]))`,
		endpointName, rangeStr, endpointName, rangeStr), tr.End)
	if err != nil {
		return nil, fmt.Errorf("query error rate: %w", err)
	}

	return &ports.EndpointMetrics{
		EndpointName:    endpointName,
		InvocationCount: invocations,
		LatencyP50Ms:    p50,
		LatencyP99Ms:    p99,
		ErrorRate:       errorRate,
	}, nil
}
