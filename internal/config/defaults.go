package config

import "time"

// DefaultAPIConfig returns sensible defaults for the content API configuration
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		BaseURL: "https://chorig.org/wp-json/app/v1",
	}
}

// DefaultHTTPConfig returns sensible defaults for HTTP client configuration
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		FetchTimeout:    30 * time.Second,
		DownloadTimeout: 60 * time.Second,
		MaxRetries:      0,
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// DefaultCrawlerConfig returns sensible defaults for crawl pipeline configuration
func DefaultCrawlerConfig() CrawlerConfig {
	return CrawlerConfig{
		MappingPath: "category_mapping.json",
		ChunkSize:   1 << 20, // 1MB head chunk for content validation
	}
}

// DefaultStorageConfig returns sensible defaults for storage configuration
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Adapter:    "filesystem",
		BasePath:   ".",
		Bucket:     "downloads",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		S3:         DefaultS3Config(),
	}
}

// DefaultS3Config returns sensible defaults for S3 configuration
func DefaultS3Config() S3Config {
	return S3Config{
		Region: "us-east-2",
	}
}

// DefaultObservabilityConfig returns sensible defaults for observability configuration
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogFormat:       "text",
		MetricsProvider: "stdout",
	}
}

// DefaultConfig returns a complete configuration with sensible defaults
// This is useful for testing or when you want to start with defaults and override specific parts
func DefaultConfig() *Config {
	return &Config{
		// Core settings
		Environment: "local",
		ServiceName: "prayer-crawler",
		Version:     "1.0.0",
		LogLevel:    "info",

		// Component configurations with defaults
		API:           DefaultAPIConfig(),
		HTTP:          DefaultHTTPConfig(),
		Crawler:       DefaultCrawlerConfig(),
		Storage:       DefaultStorageConfig(),
		Observability: DefaultObservabilityConfig(),
	}
}
