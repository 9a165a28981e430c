package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"model-promotion-service/internal/config"
	"model-promotion-service/internal/core/ports/output"
)

// artifactStore reads and writes model blobs in an S3-compatible bucket.
// URIs are s3://bucket/key; Upload resolves bare keys against the configured
// bucket.
type artifactStore struct {
	client *awss3.Client
	bucket string
	logger *logrus.Logger
}

func NewArtifactStore(cfg *config.S3Config, logger *logrus.Logger) (ports.ArtifactStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
			o.UsePathStyle = true
		}
	})

	return &artifactStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

func (s *artifactStore) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := s.split(uri)
	if err != nil {
		return nil, err
	}

	object, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", uri, err)
	}
	defer object.Body.Close()

	content, err := io.ReadAll(object.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", uri, err)
	}
	return content, nil
}

func (s *artifactStore) Upload(ctx context.Context, key string, content []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	uri := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	s.logger.WithFields(logrus.Fields{
		"uri":  uri,
		"size": len(content),
	}).Debug("Uploaded artifact")
	return uri, nil
}

// split resolves an s3://bucket/key URI. A bare key falls back to the
// configured bucket.
func (s *artifactStore) split(uri string) (string, string, error) {
	if !strings.HasPrefix(uri, "s3://") {
		return s.bucket, strings.TrimPrefix(uri, "/"), nil
	}
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q", uri)
	}
	return bucket, key, nil
}
