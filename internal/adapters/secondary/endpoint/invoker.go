package endpoint

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"model-promotion-service/internal/core/ports/output"
)

// invoker sends inference payloads to a single serving endpoint over HTTP.
// The endpoint URL is resolved once at construction; the gateway process
// stays bound to it for its lifetime.
type invoker struct {
	httpClient  *http.Client
	endpointURL string
}

func NewInvoker(endpointURL string, timeout time.Duration) ports.EndpointInvoker {
	return &invoker{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpointURL: endpointURL,
	}
}

func (c *invoker) Invoke(ctx context.Context, body []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/invocations", c.endpointURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create endpoint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.WithFields(log.Fields{
		"url":  url,
		"size": len(body),
	}).Debug("invoking endpoint")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("endpoint request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read endpoint response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, respBody)
	}

	return respBody, nil
}
