package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"model-promotion-service/internal/core/ports/output"
)

// artifactStore serves model blobs from the local filesystem. It backs the
// scoring runtime when the artifact is baked into the image or mounted at a
// fixed path.
type artifactStore struct {
	baseDir string
}

func NewArtifactStore(baseDir string) ports.ArtifactStore {
	return &artifactStore{baseDir: baseDir}
}

func (s *artifactStore) Fetch(ctx context.Context, uri string) ([]byte, error) {
	path := s.resolve(uri)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return content, nil
}

func (s *artifactStore) Upload(ctx context.Context, key string, content []byte) (string, error) {
	path := filepath.Join(s.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(path, content, os.FileMode(0644)); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	return path, nil
}

func (s *artifactStore) resolve(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.baseDir, path)
}
