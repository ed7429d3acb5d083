// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"

	"github.com/Srimaan215/Roku-AI/internal/appconfig"
	"github.com/Srimaan215/Roku-AI/internal/logging"
	"github.com/Srimaan215/Roku-AI/internal/metrics"
	"github.com/Srimaan215/Roku-AI/internal/providers"
	"github.com/Srimaan215/Roku-AI/internal/providers/langchain"
	"github.com/Srimaan215/Roku-AI/internal/providers/multiplex"
	"github.com/Srimaan215/Roku-AI/internal/providers/ollama"
)

// NewGenerator selects and configures the model backend named by the
// configuration and wraps it with metrics collection if enabled. A
// configured fallback model is chained behind the primary.
func NewGenerator(cfg *appconfig.Config) (providers.Generator, error) {
	return newGenerator(cfg, metrics.GetInstance)
}

func newGenerator(cfg *appconfig.Config, aggregator func() *metrics.Aggregator) (providers.Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	primary, err := buildGenerator(*cfg, aggregator)
	if err != nil {
		return nil, err
	}
	alt, ok := cfg.FallbackConfig()
	if !ok {
		return primary, nil
	}
	secondary, err := buildGenerator(alt, aggregator)
	if err != nil {
		_ = primary.Close()
		return nil, fmt.Errorf("fallback model: %w", err)
	}
	logging.LogEvent("Model fallback ready: %s", secondary.Name())
	return multiplex.New(primary, secondary), nil
}

func buildGenerator(cfg appconfig.Config, aggregator func() *metrics.Aggregator) (providers.Generator, error) {
	var gen providers.Generator
	switch cfg.ModelType() {
	case appconfig.ModelOllama:
		gen = ollama.New(cfg.ModelURL(), cfg.ModelName(), cfg.RequestTimeout())
	case appconfig.ModelOpenAI:
		g, err := langchain.NewOpenAI(cfg.ModelURL(), cfg.Model.APIKey, cfg.ModelName(), cfg.RequestTimeout())
		if err != nil {
			logging.LogEvent("OpenAI-compatible provider unavailable: %v", err)
			return nil, err
		}
		gen = g
	default:
		return nil, fmt.Errorf("unsupported model type %q", cfg.ModelType())
	}
	logging.LogEvent("Model provider ready: %s", gen.Name())

	if cfg.Metrics {
		gen = metrics.NewGenerator(gen, aggregator())
	}

	return gen, nil
}
