// internal/metrics/provider.go
package metrics

import (
	"context"
	"time"

	"github.com/Srimaan215/Roku-AI/internal/logging"
	"github.com/Srimaan215/Roku-AI/internal/providers"
)

// Generator is a decorator that wraps a providers.Generator to record metrics.
type Generator struct {
	wrapped    providers.Generator
	aggregator *Aggregator
}

// NewGenerator creates a new metrics-enabled generator that wraps an existing one.
func NewGenerator(wrapped providers.Generator, aggregator *Aggregator) *Generator {
	logging.LogMetricsEvent("[METRICS] Wrapping %s with metrics generator", wrapped.Name())
	return &Generator{wrapped: wrapped, aggregator: aggregator}
}

// Generate times the wrapped call and records its usage.
func (g *Generator) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	started := time.Now()
	resp, err := g.wrapped.Generate(ctx, req)
	elapsed := time.Since(started)

	if g.aggregator != nil {
		model := resp.Model
		if model == "" {
			model = g.wrapped.Name()
		}
		g.aggregator.Record(Generation{
			Model:        model,
			Elapsed:      elapsed,
			PromptTokens: resp.PromptTokens,
			OutputTokens: resp.OutputTokens,
			Failed:       err != nil,
		})
	}
	return resp, err
}

// Name passes the call through to the wrapped generator.
func (g *Generator) Name() string {
	return g.wrapped.Name()
}

// Ping passes the call through to the wrapped generator.
func (g *Generator) Ping(ctx context.Context) error {
	return g.wrapped.Ping(ctx)
}

// Close passes the call through to the wrapped generator.
func (g *Generator) Close() error {
	return g.wrapped.Close()
}
