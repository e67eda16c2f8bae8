package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "PROJECT_NAME", "SERVICE_VERSION", "LOG_LEVEL",
		"API_BASE_URL", "HTTP_FETCH_TIMEOUT", "HTTP_DOWNLOAD_TIMEOUT",
		"HTTP_MAX_RETRIES", "HTTP_USER_AGENT", "CRAWLER_MAPPING_PATH",
		"CRAWLER_CHUNK_SIZE", "STORAGE_ADAPTER", "STORAGE_BASE_PATH",
		"STORAGE_BUCKET", "OBSERVABILITY_LOG_FORMAT",
	} {
		os.Unsetenv(key)
	}

	p := &Provider{}
	cfg := p.parseConfig()

	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "prayer-crawler", cfg.ServiceName)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "https://chorig.org/wp-json/app/v1", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTP.FetchTimeout)
	assert.Equal(t, 60*time.Second, cfg.HTTP.DownloadTimeout)
	assert.Equal(t, 0, cfg.HTTP.MaxRetries)
	assert.Contains(t, cfg.HTTP.UserAgent, "Chrome/120.0.0.0")
	assert.Equal(t, "category_mapping.json", cfg.Crawler.MappingPath)
	assert.Equal(t, 1<<20, cfg.Crawler.ChunkSize)
	assert.Equal(t, "filesystem", cfg.Storage.Adapter)
	assert.Equal(t, ".", cfg.Storage.BasePath)
	assert.Equal(t, "downloads", cfg.Storage.Bucket)
	// Local environment defaults to human-readable logs
	assert.Equal(t, "text", cfg.Observability.LogFormat)
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PROJECT_NAME", "chorig-mirror")
	t.Setenv("API_BASE_URL", "https://example.org/wp-json/app/v1")
	t.Setenv("HTTP_FETCH_TIMEOUT", "10s")
	t.Setenv("HTTP_MAX_RETRIES", "3")
	t.Setenv("CRAWLER_CHUNK_SIZE", "4096")
	t.Setenv("STORAGE_ADAPTER", "s3")
	t.Setenv("S3_BUCKET", "chorig-archive")
	t.Setenv("OBSERVABILITY_LOG_FORMAT", "")

	p := &Provider{}
	cfg := p.parseConfig()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "chorig-mirror", cfg.ServiceName)
	assert.Equal(t, "https://example.org/wp-json/app/v1", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTP.FetchTimeout)
	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, 4096, cfg.Crawler.ChunkSize)
	assert.Equal(t, "s3", cfg.Storage.Adapter)
	assert.Equal(t, "chorig-archive", cfg.Storage.S3.Bucket)
	// Non-local environments default to structured logs
	assert.Equal(t, "json", cfg.Observability.LogFormat)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing service name",
			mutate:  func(c *Config) { c.ServiceName = "" },
			wantErr: "PROJECT_NAME is required",
		},
		{
			name:    "missing API base URL",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: "API_BASE_URL is required",
		},
		{
			name:    "non-positive fetch timeout",
			mutate:  func(c *Config) { c.HTTP.FetchTimeout = 0 },
			wantErr: "HTTP_FETCH_TIMEOUT must be positive",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.HTTP.MaxRetries = -1 },
			wantErr: "HTTP_MAX_RETRIES cannot be negative",
		},
		{
			name:    "non-positive chunk size",
			mutate:  func(c *Config) { c.Crawler.ChunkSize = 0 },
			wantErr: "CRAWLER_CHUNK_SIZE must be positive",
		},
		{
			name:    "missing mapping path",
			mutate:  func(c *Config) { c.Crawler.MappingPath = "" },
			wantErr: "CRAWLER_MAPPING_PATH is required",
		},
		{
			name:    "missing storage bucket",
			mutate:  func(c *Config) { c.Storage.Bucket = "" },
			wantErr: "STORAGE_BUCKET is required",
		},
		{
			name: "production s3 without bucket",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.Storage.Adapter = "s3"
				c.Storage.S3.Bucket = ""
			},
			wantErr: "S3_BUCKET is required in production",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Run("log format follows environment", func(t *testing.T) {
		local := DefaultConfig()
		local.Observability.LogFormat = ""
		local.applyDefaults()
		assert.Equal(t, "text", local.Observability.LogFormat)

		prod := DefaultConfig()
		prod.Environment = "production"
		prod.Observability.LogFormat = ""
		prod.applyDefaults()
		assert.Equal(t, "json", prod.Observability.LogFormat)
	})

	t.Run("s3 bucket name is derived when unset", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Environment = "staging"
		cfg.Storage.Adapter = "s3"
		cfg.Storage.S3.Bucket = ""
		cfg.applyDefaults()
		assert.Equal(t, "prayer-crawler-staging-downloads", cfg.Storage.S3.Bucket)
	})

	t.Run("explicit s3 bucket is preserved", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Storage.Adapter = "s3"
		cfg.Storage.S3.Bucket = "chorig-archive"
		cfg.applyDefaults()
		assert.Equal(t, "chorig-archive", cfg.Storage.S3.Bucket)
	})
}

func TestEnvironmentDetection(t *testing.T) {
	tests := []struct {
		env          string
		isLocal      bool
		isStaging    bool
		isProduction bool
		isTest       bool
	}{
		{env: "local", isLocal: true},
		{env: "development", isLocal: true},
		{env: "dev", isLocal: true},
		{env: "staging", isStaging: true},
		{env: "stage", isStaging: true},
		{env: "production", isProduction: true},
		{env: "PROD", isProduction: true},
		{env: "test", isTest: true},
		{env: "testing", isTest: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{Environment: tt.env}
			assert.Equal(t, tt.isLocal, cfg.IsLocal())
			assert.Equal(t, tt.isStaging, cfg.IsStaging())
			assert.Equal(t, tt.isProduction, cfg.IsProduction())
			assert.Equal(t, tt.isTest, cfg.IsTest())
		})
	}
}

func TestProviderLifecycle(t *testing.T) {
	p := &Provider{}

	assert.False(t, p.IsLoaded())
	_, err := p.Get()
	assert.Error(t, err)

	require.NoError(t, p.Load())
	assert.True(t, p.IsLoaded())

	cfg, err := p.Get()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Second load is a no-op
	require.NoError(t, p.Load())

	p.Reset()
	assert.False(t, p.IsLoaded())
}

func TestGetProviderSingleton(t *testing.T) {
	p1 := GetProvider()
	p2 := GetProvider()
	assert.Same(t, p1, p2)
}

func TestHelpers(t *testing.T) {
	t.Run("getEnv", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_STRING", "value")
		assert.Equal(t, "value", getEnv("CONFIG_TEST_STRING", "fallback"))
		assert.Equal(t, "fallback", getEnv("CONFIG_TEST_UNSET", "fallback"))
	})

	t.Run("getInt", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_INT", "42")
		assert.Equal(t, 42, getInt("CONFIG_TEST_INT", 7))
		t.Setenv("CONFIG_TEST_INT", "not_a_number")
		assert.Equal(t, 7, getInt("CONFIG_TEST_INT", 7))
	})

	t.Run("getDuration", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_DURATION", "90s")
		assert.Equal(t, 90*time.Second, getDuration("CONFIG_TEST_DURATION", "10s"))
		t.Setenv("CONFIG_TEST_DURATION", "bogus")
		assert.Equal(t, 10*time.Second, getDuration("CONFIG_TEST_DURATION", "10s"))
	})
}
