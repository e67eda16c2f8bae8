package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/config"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
)

// client implements the ObjectStorage interface for AWS S3, letting an
// operator mirror the same category/prayer key layout into a bucket.
type client struct {
	s3Client *s3.Client
	config   *config.S3Config
	logger   observability.Logger
	metrics  observability.Metrics
}

// New creates a new S3 storage client
func New(cfg *config.StorageConfig, logger observability.Logger, metrics observability.Metrics) (storage.ObjectStorage, error) {
	if cfg.S3.Bucket == "" {
		return nil, fmt.Errorf("invalid S3 configuration: bucket is required")
	}

	// Build AWS configuration
	awsCfg, err := buildAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	// Create S3 client with custom options
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
	})

	c := &client{
		s3Client: s3Client,
		config:   &cfg.S3,
		logger:   logger,
		metrics:  metrics,
	}

	// Test connection by checking if the bucket exists
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.ensureBucketExists(ctx); err != nil {
		logger.Error("Failed to verify bucket existence", "error", err, "bucket", cfg.S3.Bucket)
		return nil, fmt.Errorf("failed to verify bucket existence: %w", err)
	}

	logger.Info("S3 client initialized successfully", "bucket", cfg.S3.Bucket, "region", cfg.S3.Region)
	return c, nil
}

// Put stores an object in S3
func (c *client) Put(ctx context.Context, bucket, key string, reader io.Reader, metadata storage.ObjectMetadata) error {
	start := time.Now()

	// If bucket is not specified, use the default from config
	if bucket == "" {
		bucket = c.config.Bucket
	}

	// Read the content into a buffer to determine size
	buf := &bytes.Buffer{}
	bytesRead, err := io.Copy(buf, reader)
	if err != nil {
		c.logger.Error("Failed to read content",
			"error", err,
			"bucket", bucket,
			"key", key)
		c.metrics.IncrementCounter("s3.put.errors", map[string]string{
			"error_type": "read_error",
		})
		return fmt.Errorf("failed to read content: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(buf.Bytes()),
	}
	if metadata.ContentType != "" {
		input.ContentType = aws.String(metadata.ContentType)
	}
	if len(metadata.UserMetadata) > 0 {
		input.Metadata = metadata.UserMetadata
	}

	_, err = c.s3Client.PutObject(ctx, input)
	if err != nil {
		c.logger.Error("Failed to put object",
			"error", err,
			"bucket", bucket,
			"key", key)
		c.metrics.IncrementCounter("s3.put.errors", map[string]string{
			"error_type": "s3_error",
		})
		return fmt.Errorf("failed to put object: %w", err)
	}

	duration := time.Since(start)
	c.logger.Info("Object stored successfully",
		"bucket", bucket,
		"key", key,
		"size_bytes", bytesRead,
		"duration_ms", duration.Milliseconds())

	c.metrics.IncrementCounter("s3.put.success", nil)
	c.metrics.RecordHistogram("s3.put.duration", float64(duration.Milliseconds()), nil)
	c.metrics.RecordHistogram("s3.put.size", float64(bytesRead), nil)

	return nil
}

// Get retrieves an object from S3
func (c *client) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	start := time.Now()

	if bucket == "" {
		bucket = c.config.Bucket
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	result, err := c.s3Client.GetObject(ctx, input)
	if err != nil {
		if isNotFoundError(err) {
			c.logger.Info("Object not found",
				"bucket", bucket,
				"key", key)
			c.metrics.IncrementCounter("s3.get.not_found", nil)
			return nil, storage.ErrObjectNotFound
		}

		c.logger.Error("Failed to get object",
			"error", err,
			"bucket", bucket,
			"key", key)
		c.metrics.IncrementCounter("s3.get.errors", nil)
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	duration := time.Since(start)
	c.logger.Info("Object retrieved successfully",
		"bucket", bucket,
		"key", key,
		"duration_ms", duration.Milliseconds())

	c.metrics.IncrementCounter("s3.get.success", nil)
	c.metrics.RecordHistogram("s3.get.duration", float64(duration.Milliseconds()), nil)

	return result.Body, nil
}

// Stat returns object information via HeadObject, or nil info when absent
func (c *client) Stat(ctx context.Context, bucket, key string) (*storage.ObjectInfo, error) {
	start := time.Now()

	if bucket == "" {
		bucket = c.config.Bucket
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	result, err := c.s3Client.HeadObject(ctx, input)
	if err != nil {
		if isNotFoundError(err) {
			c.metrics.IncrementCounter("s3.stat.not_found", nil)
			return nil, nil
		}
		c.logger.Error("Failed to stat object",
			"error", err,
			"bucket", bucket,
			"key", key)
		c.metrics.IncrementCounter("s3.stat.errors", nil)
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	c.metrics.IncrementCounter("s3.stat.found", nil)
	c.metrics.RecordHistogram("s3.stat.duration", float64(time.Since(start).Milliseconds()), nil)

	return &storage.ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(result.ContentLength),
		LastModified: aws.ToTime(result.LastModified),
		ETag:         aws.ToString(result.ETag),
	}, nil
}

// Exists checks if an object exists in S3
func (c *client) Exists(ctx context.Context, bucket, key string) (bool, error) {
	start := time.Now()

	if bucket == "" {
		bucket = c.config.Bucket
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	_, err := c.s3Client.HeadObject(ctx, input)
	if err != nil {
		if isNotFoundError(err) {
			c.metrics.IncrementCounter("s3.exists.not_found", nil)
			return false, nil
		}
		c.logger.Error("Failed to check object existence",
			"error", err,
			"bucket", bucket,
			"key", key)
		c.metrics.IncrementCounter("s3.exists.errors", nil)
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	c.metrics.IncrementCounter("s3.exists.found", nil)
	c.metrics.RecordHistogram("s3.exists.duration", float64(time.Since(start).Milliseconds()), nil)
	return true, nil
}

// Delete removes an object from S3
func (c *client) Delete(ctx context.Context, bucket, key string) error {
	start := time.Now()

	if bucket == "" {
		bucket = c.config.Bucket
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	_, err := c.s3Client.DeleteObject(ctx, input)
	if err != nil {
		c.logger.Error("Failed to delete object",
			"error", err,
			"bucket", bucket,
			"key", key)
		c.metrics.IncrementCounter("s3.delete.errors", nil)
		return fmt.Errorf("failed to delete object: %w", err)
	}

	duration := time.Since(start)
	c.logger.Info("Object deleted successfully",
		"bucket", bucket,
		"key", key,
		"duration_ms", duration.Milliseconds())

	c.metrics.IncrementCounter("s3.delete.success", nil)
	c.metrics.RecordHistogram("s3.delete.duration", float64(duration.Milliseconds()), nil)

	return nil
}

// EnsureDir is a no-op for S3; keys are flat and prefixes need no creation
func (c *client) EnsureDir(ctx context.Context, bucket, prefix string) error {
	return nil
}

// CreateBucket creates a new S3 bucket
func (c *client) CreateBucket(ctx context.Context, bucket string) error {
	start := time.Now()

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}

	// Add location constraint for non us-east-1 regions
	if c.config.Region != "" && c.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.config.Region),
		}
	}

	_, err := c.s3Client.CreateBucket(ctx, input)
	if err != nil {
		// Check if bucket already exists
		var bae *s3types.BucketAlreadyExists
		var baoyb *s3types.BucketAlreadyOwnedByYou
		if errors.As(err, &bae) || errors.As(err, &baoyb) {
			c.logger.Info("Bucket already exists", "bucket", bucket)
			c.metrics.IncrementCounter("s3.create_bucket.already_exists", nil)
			return nil
		}

		c.logger.Error("Failed to create bucket",
			"error", err,
			"bucket", bucket)
		c.metrics.IncrementCounter("s3.create_bucket.errors", nil)
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	duration := time.Since(start)
	c.logger.Info("Bucket created successfully",
		"bucket", bucket,
		"duration_ms", duration.Milliseconds())

	c.metrics.IncrementCounter("s3.create_bucket.success", nil)
	c.metrics.RecordHistogram("s3.create_bucket.duration", float64(duration.Milliseconds()), nil)

	return nil
}

// ensureBucketExists checks if the configured bucket exists
func (c *client) ensureBucketExists(ctx context.Context) error {
	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.config.Bucket),
	})

	if err != nil {
		var nse *s3types.NotFound
		if errors.As(err, &nse) {
			c.logger.Info("Bucket does not exist, attempting to create",
				"bucket", c.config.Bucket)
			return c.CreateBucket(ctx, c.config.Bucket)
		}
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	c.logger.Info("Bucket exists", "bucket", c.config.Bucket)
	return nil
}

// buildAWSConfig builds the AWS configuration from the S3 config
func buildAWSConfig(storageConfig *config.StorageConfig) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	s3Config := storageConfig.S3

	if s3Config.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(s3Config.Region))
	}

	// Use static credentials if provided
	if s3Config.AccessKeyID != "" && s3Config.SecretAccessKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3Config.AccessKeyID,
				s3Config.SecretAccessKey,
				"",
			),
		))
	}

	// Set custom retry configuration
	optFns = append(optFns, awsconfig.WithRetryMaxAttempts(storageConfig.MaxRetries))

	// Set timeout
	optFns = append(optFns, awsconfig.WithHTTPClient(&http.Client{
		Timeout: storageConfig.Timeout,
	}))

	return awsconfig.LoadDefaultConfig(context.Background(), optFns...)
}

// isNotFoundError checks if an error is a not found error
func isNotFoundError(err error) bool {
	var nsk *s3types.NoSuchKey
	var nse *s3types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nse)
}
