package main

import (
	"context"
	"log"
	"os"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/adapters/http"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/config"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/service"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
	infraobs "github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/observability"
	infrastorage "github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/storage"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/usecase"
)

func main() {
	cfg := loadConfiguration()

	deps := initializeDependencies(cfg)

	app := buildApplication(cfg, deps)

	os.Exit(run(app))
}

// Dependencies holds all initialized infrastructure components
type Dependencies struct {
	storage    storage.ObjectStorage
	httpClient *http.Client
	logger     observability.Logger
	metrics    observability.Metrics
}

// Application holds the complete crawl stack
type Application struct {
	crawler *usecase.Crawler
	logger  observability.Logger
	metrics observability.Metrics
}

// loadConfiguration loads and validates the application configuration
func loadConfiguration() *config.Config {
	cfgProvider := config.GetProvider()
	cfgProvider.MustLoad()
	return cfgProvider.MustGet()
}

// initializeDependencies sets up all infrastructure dependencies
func initializeDependencies(cfg *config.Config) *Dependencies {
	initializeObservability(cfg)

	logStartup(cfg)

	storageClient := initializeStorage(cfg)
	httpClient := createHTTPClient(cfg)

	logger, metrics := observability.MustGetObservability("app")

	return &Dependencies{
		storage:    storageClient,
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
	}
}

// initializeObservability sets up logging and metrics infrastructure
func initializeObservability(cfg *config.Config) {
	if err := observability.Initialize(cfg, &infraobs.Factory{}); err != nil {
		log.Fatalf("Failed to initialize observability: %v", err)
	}
}

// logStartup logs application startup information
func logStartup(cfg *config.Config) {
	logger, metrics := observability.MustGetObservability("main")

	logger.Info("Starting application",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
		"api_base_url", cfg.API.BaseURL)

	metrics.IncrementCounter("application.starts", nil)
}

// initializeStorage sets up the storage provider with observability
func initializeStorage(cfg *config.Config) storage.ObjectStorage {
	logger, metrics := observability.MustGetObservability("storage")

	factory := infrastorage.NewFactory(logger, metrics)
	provider := storage.GetProvider()

	if err := provider.Initialize(cfg, factory); err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		metrics.IncrementCounter("init.failures", nil)
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	logger.Info("Storage initialized successfully", "adapter", cfg.Storage.Adapter)
	metrics.IncrementCounter("init.success", nil)

	return provider.MustGetStorage()
}

// createHTTPClient creates the HTTP client shared by fetches and downloads
func createHTTPClient(cfg *config.Config) *http.Client {
	return http.NewClient(http.ClientConfig{
		FetchTimeout:    cfg.HTTP.FetchTimeout,
		DownloadTimeout: cfg.HTTP.DownloadTimeout,
		MaxRetries:      cfg.HTTP.MaxRetries,
		UserAgent:       cfg.HTTP.UserAgent,
	})
}

// buildApplication assembles the application layers
func buildApplication(cfg *config.Config, deps *Dependencies) *Application {
	console := usecase.NewConsole(nil, nil)
	bucket := cfg.Storage.Bucket

	apiLogger, apiMetrics := observability.MustGetObservability("service.api")
	api := service.NewPrayerAPI(deps.httpClient, cfg.API.BaseURL, apiLogger, apiMetrics)

	dlLogger, dlMetrics := observability.MustGetObservability("service.download")
	downloads := service.NewDownloadService(deps.httpClient, deps.storage, bucket, cfg.Crawler.ChunkSize, dlLogger, dlMetrics)

	exLogger, exMetrics := observability.MustGetObservability("service.extract")
	extractor := service.NewPDFExtractService(deps.storage, bucket, exLogger, exMetrics)

	ucLogger, ucMetrics := observability.MustGetObservability("usecase.crawler")
	paginator := usecase.NewPaginator(api, ucLogger, ucMetrics)
	processor := usecase.NewPrayerProcessor(downloads, extractor, deps.storage, console, bucket, ucLogger, ucMetrics)
	crawler := usecase.NewCrawler(paginator, processor, deps.storage, console, bucket, cfg.Crawler.MappingPath, ucLogger, ucMetrics)

	return &Application{
		crawler: crawler,
		logger:  deps.logger,
		metrics: deps.metrics,
	}
}

// run executes the crawl and maps its outcome to a process exit code.
// Only a failed start exits non-zero; per-category failures are reported
// on the console and absorbed by the crawler.
func run(app *Application) int {
	app.logger.Info("Starting crawl")
	app.metrics.IncrementCounter("crawl.starts", nil)

	total, err := app.crawler.Run(context.Background())

	flushMetrics(app)

	if err != nil {
		app.logger.Error("Crawl failed to start", "error", err)
		app.metrics.IncrementCounter("crawl.failures", nil)
		return 1
	}

	app.logger.Info("Crawl finished", "total_prayers", total)
	return 0
}

// flushMetrics pushes buffered metrics when the configured provider
// supports it (the Pushgateway-backed adapter does).
func flushMetrics(app *Application) {
	flusher, ok := app.metrics.(interface{ Flush() error })
	if !ok {
		return
	}
	if err := flusher.Flush(); err != nil {
		app.logger.Warn("Metrics flush failed", "error", err)
	}
}
