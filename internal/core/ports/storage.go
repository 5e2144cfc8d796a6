package ports

import "context"

// ObjectStore persists serialized reports in an S3-compatible service.
// The engine never calls it directly; the application layer hands the
// finished report over.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, bucket, key string) error
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	EnsureBucket(ctx context.Context, bucket string) error
	ListBuckets(ctx context.Context) ([]string, error)
}
