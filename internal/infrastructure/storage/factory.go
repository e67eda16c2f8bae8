package infrastorage

import (
	"fmt"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/config"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/storage"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/storage/adapters/fs"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/storage/adapters/s3"
)

type Factory struct {
	logger  observability.Logger
	metrics observability.Metrics
}

func NewFactory(logger observability.Logger, metrics observability.Metrics) storage.StorageFactory {
	if logger == nil || metrics == nil {
		panic("logger and metrics are required for storage factory")
	}
	return &Factory{
		logger:  logger,
		metrics: metrics,
	}
}

func (f *Factory) Create(cfg *config.Config) (storage.ObjectStorage, error) {
	switch cfg.Storage.Adapter {
	case "s3":
		f.logger.Info("Creating S3 storage adapter",
			"bucket", cfg.Storage.S3.Bucket,
			"region", cfg.Storage.S3.Region)
		return s3.New(&cfg.Storage, f.logger, f.metrics)

	case "filesystem":
		f.logger.Info("Creating filesystem storage adapter",
			"path", cfg.Storage.BasePath)
		return fs.NewStorage(cfg.Storage.BasePath, f.logger, f.metrics)

	default:
		return nil, fmt.Errorf("unsupported storage adapter: %s", cfg.Storage.Adapter)
	}
}
