package ports

import "context"

// ArtifactStore reads and writes opaque blobs at a storage location. The
// scoring runtime fetches its model artifact through this port; the registry
// uploads sample payloads through it.
type ArtifactStore interface {
	// Fetch returns the blob at uri. A missing blob is an error; the blob is
	// treated as read-only by all callers.
	Fetch(ctx context.Context, uri string) ([]byte, error)
	// Upload stores content and returns the resolved URI.
	Upload(ctx context.Context, key string, content []byte) (string, error)
}
