package infraobs

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/config"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/domain/observability"
	promAdapter "github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/observability/adapters/prometheus"
	"github.com/OpenPecha/Tibetan-prayers-downloads/internal/infrastructure/observability/adapters/stdout"
)

type Factory struct{}

func (f *Factory) CreateObservability(cfg *config.Config) (observability.Logger, observability.Metrics, error) {
	// Validate config
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration is required")
	}

	// Configure stdout output format
	jsonFormat := cfg.Observability.LogFormat == "json"
	stdout.UseJSON(jsonFormat)
	stdout.UseJSONMetrics(jsonFormat)
	stdout.SetLevel(cfg.LogLevel)

	// Every log line of a single run carries the same crawl id
	logger := stdout.NewLogger().WithFields(map[string]interface{}{
		"crawl_id": uuid.NewString(),
	})

	metrics, err := createMetrics(cfg)
	if err != nil {
		return nil, nil, err
	}

	return logger, metrics, nil
}

func createMetrics(cfg *config.Config) (observability.Metrics, error) {
	switch cfg.Observability.MetricsProvider {
	case "prometheus":
		return promAdapter.NewMetrics(cfg.ServiceName, cfg.Observability.PushgatewayURL), nil
	case "stdout", "":
		return stdout.NewMetrics(), nil
	default:
		return nil, fmt.Errorf("unsupported metrics provider: %s", cfg.Observability.MetricsProvider)
	}
}
