package ports

import "context"

// EndpointInvoker sends an inference payload to the deployed endpoint the
// gateway is bound to and returns the raw response body. The binding is
// resolved once at process start, not per call.
type EndpointInvoker interface {
	Invoke(ctx context.Context, body []byte) ([]byte, error)
}
