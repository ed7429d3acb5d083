// internal/providers/multiplex/provider.go
// Package multiplex chains generators so a request falls through to the
// next backend when one fails.
package multiplex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Srimaan215/Roku-AI/internal/logging"
	"github.com/Srimaan215/Roku-AI/internal/providers"
)

// Generator tries each backend in order until one succeeds.
type Generator struct {
	backends []providers.Generator
}

// New constructs a Generator from a primary backend and its fallbacks.
func New(primary providers.Generator, fallbacks ...providers.Generator) *Generator {
	backends := make([]providers.Generator, 0, 1+len(fallbacks))
	for _, g := range append([]providers.Generator{primary}, fallbacks...) {
		if g != nil {
			backends = append(backends, g)
		}
	}
	return &Generator{backends: backends}
}

// Generate returns the first successful response. A cancelled context
// stops the chain immediately.
func (g *Generator) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, error) {
	if len(g.backends) == 0 {
		return providers.GenerateResponse{}, errors.New("multiplex: no backends configured")
	}
	var errs []error
	for i, backend := range g.backends {
		resp, err := backend.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return providers.GenerateResponse{}, err
		}
		if i < len(g.backends)-1 {
			logging.LogEvent("model backend %s failed, falling back: %v", backend.Name(), err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
	}
	return providers.GenerateResponse{}, fmt.Errorf("multiplex: all backends failed: %w", errors.Join(errs...))
}

// Name lists the backends in fallback order.
func (g *Generator) Name() string {
	names := make([]string, len(g.backends))
	for i, b := range g.backends {
		names[i] = b.Name()
	}
	return strings.Join(names, " > ")
}

// Ping succeeds when any backend is reachable.
func (g *Generator) Ping(ctx context.Context) error {
	var errs []error
	for _, b := range g.backends {
		err := b.Ping(ctx)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}
	return errors.Join(errs...)
}

// Backends returns the chain in order.
func (g *Generator) Backends() []providers.Generator {
	return append([]providers.Generator(nil), g.backends...)
}

// Close cleans up any resources used by the backends.
func (g *Generator) Close() error {
	var firstErr error
	seen := map[providers.Generator]struct{}{}
	for _, b := range g.backends {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
