package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Provider manages configuration lifecycle and ensures singleton behavior
type Provider struct {
	config *Config
	mu     sync.RWMutex
	loaded bool
}

var (
	instance *Provider
	once     sync.Once
)

// GetProvider returns the singleton configuration provider instance
func GetProvider() *Provider {
	once.Do(func() {
		instance = &Provider{}
	})
	return instance
}

// Load loads configuration from environment variables and .env files
// This should be called once at application startup
func (p *Provider) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return nil // Already loaded
	}

	// Load .env files in order of precedence
	if err := p.loadEnvFiles(); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}

	// Parse configuration from environment
	cfg := p.parseConfig()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	p.config = cfg
	p.loaded = true
	return nil
}

// MustLoad loads configuration and panics on error
// Use this for application initialization where errors are fatal
func (p *Provider) MustLoad() {
	if err := p.Load(); err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
}

// Get returns the current configuration
// Returns error if configuration hasn't been loaded
func (p *Provider) Get() (*Config, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.loaded || p.config == nil {
		return nil, fmt.Errorf("configuration not loaded; call Load() first")
	}

	return p.config, nil
}

// MustGet returns the configuration or panics if not loaded
// Use this when you're certain configuration has been loaded
func (p *Provider) MustGet() *Config {
	cfg, err := p.Get()
	if err != nil {
		panic(fmt.Sprintf("failed to get configuration: %v", err))
	}
	return cfg
}

// Reload reloads configuration from the current environment
// Useful for configuration updates without restart (use with caution)
func (p *Provider) Reload() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cfg := p.parseConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	p.config = cfg
	return nil
}

// IsLoaded returns whether configuration has been loaded
func (p *Provider) IsLoaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// Reset clears the configuration (useful for testing)
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config = nil
	p.loaded = false
}

// loadEnvFiles loads .env files in order of precedence
func (p *Provider) loadEnvFiles() error {
	// Load base .env file (optional)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}

	// Load environment-specific file (optional)
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env != "" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			// Overload allows environment-specific values to take precedence
			if err := godotenv.Overload(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	// Load .env.local for local overrides (highest precedence, optional)
	if _, err := os.Stat(".env.local"); err == nil {
		if err := godotenv.Overload(".env.local"); err != nil {
			return fmt.Errorf("failed to load .env.local: %w", err)
		}
	}

	return nil
}

// parseConfig parses configuration from environment variables
func (p *Provider) parseConfig() *Config {
	cfg := &Config{
		// Core
		Environment: getEnv("ENVIRONMENT", "local"),
		ServiceName: getEnv("PROJECT_NAME", "prayer-crawler"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Version:     getEnv("SERVICE_VERSION", "1.0.0"),

		// Remote content API
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "https://chorig.org/wp-json/app/v1"),
		},

		// HTTP client
		HTTP: HTTPConfig{
			FetchTimeout:    getDuration("HTTP_FETCH_TIMEOUT", "30s"),
			DownloadTimeout: getDuration("HTTP_DOWNLOAD_TIMEOUT", "60s"),
			MaxRetries:      getInt("HTTP_MAX_RETRIES", 0),
			UserAgent: getEnv("HTTP_USER_AGENT",
				"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		},

		// Crawl pipeline
		Crawler: CrawlerConfig{
			MappingPath: getEnv("CRAWLER_MAPPING_PATH", "category_mapping.json"),
			ChunkSize:   getInt("CRAWLER_CHUNK_SIZE", 1<<20),
		},

		// Storage
		Storage: StorageConfig{
			Adapter:    getEnv("STORAGE_ADAPTER", "filesystem"),
			BasePath:   getEnv("STORAGE_BASE_PATH", "."),
			Bucket:     getEnv("STORAGE_BUCKET", "downloads"),
			Timeout:    getDuration("STORAGE_TIMEOUT", "30s"),
			MaxRetries: getInt("STORAGE_MAX_RETRIES", 3),
			S3: S3Config{
				Region:          getEnv("AWS_REGION", "us-east-2"),
				Bucket:          getEnv("S3_BUCKET", ""),
				AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", "test"),
				SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", "test"),
				Endpoint:        getEnv("S3_ENDPOINT", ""),
			},
		},

		Observability: ObservabilityConfig{
			LogFormat:       getEnv("OBSERVABILITY_LOG_FORMAT", ""),
			MetricsProvider: getEnv("OBSERVABILITY_METRICS_PROVIDER", "stdout"),
			PushgatewayURL:  getEnv("PROMETHEUS_PUSHGATEWAY_URL", ""),
		},
	}

	// Apply defaults
	cfg.applyDefaults()

	return cfg
}
