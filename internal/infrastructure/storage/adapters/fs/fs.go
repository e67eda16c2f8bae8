package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
)

// Storage implements ObjectStorage using the local filesystem.
// Objects live at {basePath}/{bucket}/{key} with no bookkeeping files
// next to them, so the mirrored tree contains exactly the downloaded
// artifacts.
type Storage struct {
	basePath string
	logger   observability.Logger
	metrics  observability.Metrics
}

// NewStorage creates a new filesystem-based object storage
func NewStorage(basePath string, logger observability.Logger, metrics observability.Metrics) (storage.ObjectStorage, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		logger.Error("Failed to create base path", "path", basePath, "error", err)
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	logger.Info("Filesystem storage initialized", "base_path", basePath)
	metrics.IncrementCounter("storage.filesystem.initialized", nil)

	return &Storage{
		basePath: basePath,
		logger:   logger.WithFields(map[string]interface{}{"component": "filesystem_storage"}),
		metrics:  metrics.WithTags(map[string]string{"storage": "filesystem"}),
	}, nil
}

// Put stores an object
func (s *Storage) Put(ctx context.Context, bucket, key string, reader io.Reader, metadata storage.ObjectMetadata) error {
	startTime := time.Now()
	s.logger.Info("Storing object", "bucket", bucket, "key", key)
	s.metrics.IncrementCounter("storage.put.attempts", map[string]string{"bucket": bucket})

	objectPath := s.getObjectPath(bucket, key)

	// Create parent directory if needed
	if err := os.MkdirAll(filepath.Dir(objectPath), 0755); err != nil {
		s.logger.Error("Failed to create parent directory", "bucket", bucket, "key", key, "error", err)
		s.metrics.IncrementCounter("storage.put.errors", map[string]string{"bucket": bucket, "error": "mkdir"})
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Write object data
	file, err := os.Create(objectPath)
	if err != nil {
		s.logger.Error("Failed to create file", "path", objectPath, "error", err)
		s.metrics.IncrementCounter("storage.put.errors", map[string]string{"bucket": bucket, "error": "create"})
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	bytesWritten, err := io.Copy(file, reader)
	if err != nil {
		s.logger.Error("Failed to write data", "bucket", bucket, "key", key, "error", err)
		s.metrics.IncrementCounter("storage.put.errors", map[string]string{"bucket": bucket, "error": "write"})
		return fmt.Errorf("failed to write data: %w", err)
	}

	duration := time.Since(startTime)
	s.logger.Info("Object stored successfully",
		"bucket", bucket,
		"key", key,
		"bytes", bytesWritten,
		"duration_ms", duration.Milliseconds())

	s.metrics.IncrementCounter("storage.put.success", map[string]string{"bucket": bucket})
	s.metrics.RecordHistogram("storage.put.bytes", float64(bytesWritten), map[string]string{"bucket": bucket})
	s.metrics.RecordHistogram("storage.put.duration_ms", float64(duration.Milliseconds()), map[string]string{"bucket": bucket})

	return nil
}

// Get retrieves an object
func (s *Storage) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	startTime := time.Now()
	s.metrics.IncrementCounter("storage.get.attempts", map[string]string{"bucket": bucket})

	objectPath := s.getObjectPath(bucket, key)

	file, err := os.Open(objectPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Error("Object not found", "bucket", bucket, "key", key)
			s.metrics.IncrementCounter("storage.get.errors", map[string]string{"bucket": bucket, "error": "not_found"})
			return nil, fmt.Errorf("object not found: %s/%s: %w", bucket, key, storage.ErrObjectNotFound)
		}
		s.logger.Error("Failed to open file", "path", objectPath, "error", err)
		s.metrics.IncrementCounter("storage.get.errors", map[string]string{"bucket": bucket, "error": "open"})
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	// Get file size for metrics
	if stat, err := file.Stat(); err == nil {
		s.metrics.RecordHistogram("storage.get.bytes", float64(stat.Size()), map[string]string{"bucket": bucket})
	}

	duration := time.Since(startTime)
	s.metrics.IncrementCounter("storage.get.success", map[string]string{"bucket": bucket})
	s.metrics.RecordHistogram("storage.get.duration_ms", float64(duration.Milliseconds()), map[string]string{"bucket": bucket})

	return file, nil
}

// Stat returns object information, or nil info when the object is absent
func (s *Storage) Stat(ctx context.Context, bucket, key string) (*storage.ObjectInfo, error) {
	s.metrics.IncrementCounter("storage.stat.calls", map[string]string{"bucket": bucket})

	objectPath := s.getObjectPath(bucket, key)
	stat, err := os.Stat(objectPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		s.logger.Error("Failed to stat object", "bucket", bucket, "key", key, "error", err)
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return &storage.ObjectInfo{
		Key:          key,
		Size:         stat.Size(),
		LastModified: stat.ModTime(),
	}, nil
}

// Exists checks if an object exists
func (s *Storage) Exists(ctx context.Context, bucket, key string) (bool, error) {
	s.metrics.IncrementCounter("storage.exists.calls", map[string]string{"bucket": bucket})

	objectPath := s.getObjectPath(bucket, key)
	_, err := os.Stat(objectPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}

	s.logger.Error("Failed to check object existence", "bucket", bucket, "key", key, "error", err)
	return false, err
}

// Delete removes an object
func (s *Storage) Delete(ctx context.Context, bucket, key string) error {
	s.logger.Info("Deleting object", "bucket", bucket, "key", key)
	s.metrics.IncrementCounter("storage.delete.attempts", map[string]string{"bucket": bucket})

	objectPath := s.getObjectPath(bucket, key)

	if err := os.Remove(objectPath); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to delete object", "path", objectPath, "error", err)
		s.metrics.IncrementCounter("storage.delete.errors", map[string]string{"bucket": bucket})
		return fmt.Errorf("failed to delete object: %w", err)
	}

	s.logger.Info("Object deleted successfully", "bucket", bucket, "key", key)
	s.metrics.IncrementCounter("storage.delete.success", map[string]string{"bucket": bucket})

	return nil
}

// EnsureDir creates a directory-like prefix inside a bucket
func (s *Storage) EnsureDir(ctx context.Context, bucket, prefix string) error {
	s.metrics.IncrementCounter("storage.ensuredir.calls", map[string]string{"bucket": bucket})

	dirPath := s.getObjectPath(bucket, prefix)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		s.logger.Error("Failed to create directory", "bucket", bucket, "prefix", prefix, "error", err)
		s.metrics.IncrementCounter("storage.ensuredir.errors", map[string]string{"bucket": bucket})
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

// CreateBucket creates a new bucket
func (s *Storage) CreateBucket(ctx context.Context, bucket string) error {
	s.logger.Info("Creating bucket", "bucket", bucket)
	s.metrics.IncrementCounter("storage.bucket.create.attempts", nil)

	bucketPath := filepath.Join(s.basePath, bucket)
	if err := os.MkdirAll(bucketPath, 0755); err != nil {
		s.logger.Error("Failed to create bucket", "bucket", bucket, "error", err)
		s.metrics.IncrementCounter("storage.bucket.create.errors", nil)
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Bucket created successfully", "bucket", bucket)
	s.metrics.IncrementCounter("storage.bucket.create.success", nil)
	return nil
}

// Helper methods

func (s *Storage) getObjectPath(bucket, key string) string {
	// Sanitize key to prevent directory traversal
	key = strings.TrimPrefix(key, "/")
	key = filepath.FromSlash(key)
	return filepath.Join(s.basePath, bucket, key)
}
