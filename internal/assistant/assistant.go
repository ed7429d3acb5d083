// Package assistant opens every configured provider and assembles the
// executor and agent that answer questions.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/Srimaan215/Roku-AI/internal/agent"
	"github.com/Srimaan215/Roku-AI/internal/appconfig"
	"github.com/Srimaan215/Roku-AI/internal/clock"
	"github.com/Srimaan215/Roku-AI/internal/executor"
	"github.com/Srimaan215/Roku-AI/internal/integrations/gcal"
	"github.com/Srimaan215/Roku-AI/internal/integrations/ics"
	"github.com/Srimaan215/Roku-AI/internal/integrations/profile"
	"github.com/Srimaan215/Roku-AI/internal/integrations/reminders"
	"github.com/Srimaan215/Roku-AI/internal/integrations/weather"
	"github.com/Srimaan215/Roku-AI/internal/logging"
	"github.com/Srimaan215/Roku-AI/internal/metrics"
	"github.com/Srimaan215/Roku-AI/internal/providerfactory"
	"github.com/Srimaan215/Roku-AI/internal/providers"
)

// Assistant is a ready-to-use agent plus the handles it owns.
type Assistant struct {
	cfg       appconfig.Config
	agent     *agent.Agent
	exec      *executor.Executor
	gen       providers.Generator
	reminders *reminders.Store
	feeds     *ics.Client
	profile   *profile.Profile
	user      string
	closers   []io.Closer
	log       zerolog.Logger
}

type options struct {
	gen        providers.Generator
	clock      clock.Clock
	weather    weather.Provider
	transcript func(agent.Transcript)
}

// Option customises New.
type Option func(*options)

// WithGenerator bypasses the provider factory.
func WithGenerator(g providers.Generator) Option { return func(o *options) { o.gen = g } }

// WithClock sets the clock shared by the agent, executor and stores.
func WithClock(c clock.Clock) Option { return func(o *options) { o.clock = c } }

// WithWeather replaces the configured weather backend.
func WithWeather(w weather.Provider) Option { return func(o *options) { o.weather = w } }

// WithTranscript forwards every Ask transcript to sink.
func WithTranscript(sink func(agent.Transcript)) Option {
	return func(o *options) { o.transcript = sink }
}

// New opens the providers cfg enables. A provider that fails to open is
// logged and left out; its tools then report the capability as missing.
// Only a model backend failure is fatal.
func New(ctx context.Context, cfg appconfig.Config, opts ...Option) (*Assistant, error) {
	o := options{clock: clock.System{}}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Assistant{cfg: cfg, log: logging.With("assistant")}
	loc := cfg.Location()

	gen := o.gen
	if gen == nil {
		g, err := providerfactory.NewGenerator(&cfg)
		if err != nil {
			return nil, fmt.Errorf("assistant: model backend: %w", err)
		}
		gen = g
	}
	a.gen = gen
	a.closers = append(a.closers, gen)

	xcfg := executor.Config{
		Clock:        o.clock,
		CallTimeout:  cfg.ProviderTimeout(),
		ReminderList: cfg.ReminderList(),
	}
	if cfg.Metrics {
		xcfg.Recorder = metrics.GetInstance()
	}

	if p, err := profile.Load(cfg.ProfilePath(), cfg.Username()); err != nil {
		a.log.Warn().Err(err).Msg("profile unavailable")
	} else {
		a.profile = p
		xcfg.Profile = p
		xcfg.Username = p.DisplayName()
	}

	if cfg.Calendar.Enabled {
		c, err := gcal.NewFromFiles(ctx, cfg.Calendar.CredentialsFile, cfg.Calendar.TokenFile, loc)
		if err != nil {
			a.log.Warn().Err(err).Msg("google calendar unavailable")
		} else {
			xcfg.Calendar = c
		}
	}

	if len(cfg.ICS.Feeds) > 0 {
		feeds := make([]ics.Feed, 0, len(cfg.ICS.Feeds))
		for _, f := range cfg.ICS.Feeds {
			feeds = append(feeds, ics.Feed{Name: f.Name, URL: f.URL})
		}
		a.feeds = ics.New(feeds,
			ics.WithCacheTTL(cfg.CacheTTL()),
			ics.WithLocation(loc),
			ics.WithClock(o.clock),
		)
		xcfg.Feeds = a.feeds
	}

	switch {
	case o.weather != nil:
		xcfg.Weather = o.weather
	case cfg.Weather.Enabled:
		xcfg.Weather = newWeather(cfg)
	}

	if cfg.Reminders.Enabled {
		s, err := reminders.Open(ctx, cfg.ReminderDatabase(),
			reminders.WithClock(o.clock),
			reminders.WithLocation(loc),
		)
		if err != nil {
			a.log.Warn().Err(err).Msg("reminders unavailable")
		} else {
			a.reminders = s
			a.closers = append(a.closers, s)
			xcfg.Reminders = s
		}
	}

	a.exec = executor.New(xcfg)

	user := cfg.Username()
	if a.profile != nil {
		user = a.profile.DisplayName()
	}
	agentOpts := []agent.Option{
		agent.WithClock(o.clock),
		agent.WithUser(user),
		agent.WithMaxToolCalls(cfg.MaxToolCalls()),
		agent.WithGeneration(cfg.MaxTokens(), cfg.Temperature(), cfg.StopSequences()),
	}
	if o.transcript != nil {
		agentOpts = append(agentOpts, agent.WithTranscript(o.transcript))
	}
	a.user = user
	a.agent = agent.New(gen, a.exec, agentOpts...)

	a.log.Info().Str("model", gen.Name()).Int("max_tool_calls", cfg.MaxToolCalls()).Msg("assistant ready")
	return a, nil
}

func newWeather(cfg appconfig.Config) weather.Provider {
	if cfg.WeatherBackend() == appconfig.WeatherOpenWeatherMap {
		return weather.NewOpenWeatherMap(cfg.Weather.BaseURL, cfg.Weather.APIKey, cfg.Weather.City)
	}
	return weather.NewOpenMeteo(cfg.Weather.GeocodeURL, cfg.Weather.BaseURL, cfg.Weather.City)
}

// Ask answers one question within the configured request timeout.
func (a *Assistant) Ask(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout())
	defer cancel()
	return a.agent.Ask(ctx, query)
}

// Agent exposes the underlying loop.
func (a *Assistant) Agent() *agent.Agent { return a.agent }

// UserName is the name the persona addresses.
func (a *Assistant) UserName() string { return a.user }

// Executor exposes the tool executor.
func (a *Assistant) Executor() *executor.Executor { return a.exec }

// Reminders returns the reminder store, or nil when disabled.
func (a *Assistant) Reminders() *reminders.Store { return a.reminders }

// Feeds returns the ICS client, or nil when no feeds are configured.
func (a *Assistant) Feeds() *ics.Client { return a.feeds }

// Status reports the model and every provider.
func (a *Assistant) Status(ctx context.Context) []executor.ProviderStatus {
	return a.agent.Status(ctx)
}

// Close releases every opened handle.
func (a *Assistant) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
