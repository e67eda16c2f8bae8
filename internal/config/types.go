package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Core settings
	Environment string
	ServiceName string
	Version     string
	LogLevel    string

	// Component configurations
	API           APIConfig
	HTTP          HTTPConfig
	Crawler       CrawlerConfig
	Storage       StorageConfig
	Observability ObservabilityConfig
}

// APIConfig holds the remote content API configuration
type APIConfig struct {
	BaseURL string
}

// HTTPConfig holds HTTP client configuration
type HTTPConfig struct {
	FetchTimeout    time.Duration
	DownloadTimeout time.Duration
	MaxRetries      int
	UserAgent       string
}

// CrawlerConfig holds crawl pipeline configuration
type CrawlerConfig struct {
	MappingPath string
	ChunkSize   int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Adapter    string // "filesystem" or "s3"
	BasePath   string // filesystem adapter root
	Bucket     string // bucket (fs: directory under BasePath; s3: bucket name)
	Timeout    time.Duration
	MaxRetries int
	S3         S3Config
}

// S3Config holds S3-specific configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Only for local development
}

// ObservabilityConfig holds logging and metrics configuration
type ObservabilityConfig struct {
	LogFormat       string // "json" or "text"
	MetricsProvider string // "stdout" or "prometheus"
	PushgatewayURL  string
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	var errors []string

	// Core validations
	if c.ServiceName == "" {
		errors = append(errors, "PROJECT_NAME is required")
	}
	if c.API.BaseURL == "" {
		errors = append(errors, "API_BASE_URL is required")
	}

	// Range validations
	if c.HTTP.FetchTimeout <= 0 {
		errors = append(errors, "HTTP_FETCH_TIMEOUT must be positive")
	}
	if c.HTTP.DownloadTimeout <= 0 {
		errors = append(errors, "HTTP_DOWNLOAD_TIMEOUT must be positive")
	}
	if c.HTTP.MaxRetries < 0 {
		errors = append(errors, "HTTP_MAX_RETRIES cannot be negative")
	}
	if c.Crawler.ChunkSize <= 0 {
		errors = append(errors, "CRAWLER_CHUNK_SIZE must be positive")
	}
	if c.Crawler.MappingPath == "" {
		errors = append(errors, "CRAWLER_MAPPING_PATH is required")
	}
	if c.Storage.Bucket == "" {
		errors = append(errors, "STORAGE_BUCKET is required")
	}
	if c.Storage.MaxRetries < 0 {
		errors = append(errors, "STORAGE_MAX_RETRIES cannot be negative")
	}

	// Production-specific validations
	if c.IsProduction() && c.Storage.Adapter == "s3" && c.Storage.S3.Bucket == "" {
		errors = append(errors, "S3_BUCKET is required in production")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// applyDefaults applies environment-specific defaults
func (c *Config) applyDefaults() {
	if c.Observability.LogFormat == "" {
		if c.IsLocal() {
			c.Observability.LogFormat = "text"
		} else {
			c.Observability.LogFormat = "json"
		}
	}

	if c.Storage.Adapter == "s3" && c.Storage.S3.Bucket == "" {
		env := strings.ToLower(c.Environment)
		c.Storage.S3.Bucket = fmt.Sprintf("%s-%s-downloads", c.ServiceName, env)
	}
}

// Environment detection methods

// IsLocal returns true if running in local/development environment
func (c *Config) IsLocal() bool {
	env := strings.ToLower(c.Environment)
	return env == "local" || env == "development" || env == "dev"
}

// IsStaging returns true if running in staging environment
func (c *Config) IsStaging() bool {
	env := strings.ToLower(c.Environment)
	return env == "staging" || env == "stage"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// IsTest returns true if running in test environment
func (c *Config) IsTest() bool {
	env := strings.ToLower(c.Environment)
	return env == "test" || env == "testing"
}
