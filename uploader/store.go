package uploader

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// objectStore is the subset of bucket operations the uploader needs
type objectStore interface {
	// Write stores data as object
	Write(ctx context.Context, object string, data []byte, chunkSize int) error

	// Compose concatenates sources, in order, into dst
	Compose(ctx context.Context, dst string, sources []string) error

	// Size returns the stored size of object
	Size(ctx context.Context, object string) (int64, error)

	// Delete removes object
	Delete(ctx context.Context, object string) error

	Close() error
}

// gcsStore is the objectStore backed by a GCS bucket
type gcsStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// newGCSStore creates a gRPC storage client for config.Bucket
func newGCSStore(ctx context.Context, config GCSUploadConfig) (*gcsStore, error) {
	opts := []option.ClientOption{
		option.WithGRPCConnectionPool(config.GRPCPoolSize),
	}
	if config.Endpoint != "" {
		opts = append(opts,
			option.WithEndpoint(config.Endpoint),
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}

	client, err := storage.NewGRPCClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &gcsStore{
		client: client,
		bucket: client.Bucket(config.Bucket),
	}, nil
}

func (s *gcsStore) Write(ctx context.Context, object string, data []byte, chunkSize int) error {
	w := s.bucket.Object(object).NewWriter(ctx)
	w.ChunkSize = chunkSize
	w.ContentType = "text/plain"

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write error: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close error: %w", err)
	}
	return nil
}

func (s *gcsStore) Compose(ctx context.Context, dst string, sources []string) error {
	handles := make([]*storage.ObjectHandle, len(sources))
	for i, src := range sources {
		handles[i] = s.bucket.Object(src)
	}

	// GCS atomically combines all sources in order
	composer := s.bucket.Object(dst).ComposerFrom(handles...)
	composer.ContentType = "text/plain"

	if _, err := composer.Run(ctx); err != nil {
		return fmt.Errorf("compose failed: %w", err)
	}
	return nil
}

func (s *gcsStore) Size(ctx context.Context, object string) (int64, error) {
	attrs, err := s.bucket.Object(object).Attrs(ctx)
	if err != nil {
		return 0, fmt.Errorf("attrs error: %w", err)
	}
	return attrs.Size, nil
}

func (s *gcsStore) Delete(ctx context.Context, object string) error {
	return s.bucket.Object(object).Delete(ctx)
}

func (s *gcsStore) Close() error {
	return s.client.Close()
}
