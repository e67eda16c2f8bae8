package storage

import (
	"context"
	"io"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/base"
)

// ObjectStorage defines the interface for object storage operations.
// This interface abstracts the underlying storage implementation,
// allowing the same crawl to mirror into a local directory tree or an
// S3 bucket.
type ObjectStorage interface {
	// Put stores an object in the specified bucket with the given key
	Put(ctx context.Context, bucket, key string, reader io.Reader, metadata ObjectMetadata) error

	// Get retrieves an object from the specified bucket by key
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// Stat returns information about an object, or nil info when the
	// object does not exist
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// Exists checks if an object exists in the specified bucket
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// Delete removes an object from the specified bucket
	Delete(ctx context.Context, bucket, key string) error

	// EnsureDir guarantees that a directory-like prefix exists.
	// Filesystem backends create real directories; object stores treat
	// this as a no-op.
	EnsureDir(ctx context.Context, bucket, prefix string) error

	// CreateBucket creates a new bucket if it doesn't exist
	CreateBucket(ctx context.Context, bucket string) error
}

type StorageFactory interface {
	base.Factory[ObjectStorage]
}
