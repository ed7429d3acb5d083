// Package agent runs the bounded question-answering loop: ask the model,
// execute any tool call it emits, feed the result back, and stop at a
// final answer or when the tool budget is spent.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Srimaan215/Roku-AI/internal/catalog"
	"github.com/Srimaan215/Roku-AI/internal/clock"
	"github.com/Srimaan215/Roku-AI/internal/executor"
	"github.com/Srimaan215/Roku-AI/internal/logging"
	"github.com/Srimaan215/Roku-AI/internal/providers"
	"github.com/Srimaan215/Roku-AI/internal/toolcall"
)

// Fallback is returned when no usable answer was produced.
const Fallback = "I'm having trouble processing that request. Could you try asking differently?"

// Defaults for generation.
const (
	DefaultMaxToolCalls = 3
	DefaultMaxTokens    = 300
	DefaultTemperature  = 0.7
	DefaultStop         = "<|eot_id|>"
)

// State is the loop position after a round.
type State int

const (
	StateAwaitingModel State = iota
	StateCallDetected
	StateFinalAnswer
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateCallDetected:
		return "call_detected"
	case StateFinalAnswer:
		return "final_answer"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Tools is what the loop needs from the executor.
type Tools interface {
	Execute(ctx context.Context, call toolcall.Call) executor.Result
	Catalog() *catalog.Catalog
	Status(ctx context.Context) []executor.ProviderStatus
}

// Round records one model call.
type Round struct {
	Index   int
	State   State
	Output  string
	Call    *toolcall.Call
	Result  *executor.Result
	Elapsed time.Duration
}

// Transcript is the full record of one Ask.
type Transcript struct {
	RequestID string
	Query     string
	Rounds    []Round
	Answer    string
}

// Agent answers questions. It holds no per-question state, so concurrent
// Ask calls are independent.
type Agent struct {
	gen          providers.Generator
	tools        Tools
	clock        clock.Clock
	user         string
	maxToolCalls int
	maxTokens    int
	temperature  float64
	stop         []string
	transcript   func(Transcript)
	log          zerolog.Logger
	newID        func() string
}

// Option configures an Agent.
type Option func(*Agent)

// WithClock sets the time source for the prompt's time context.
func WithClock(c clock.Clock) Option { return func(a *Agent) { a.clock = c } }

// WithUser sets the name the persona addresses.
func WithUser(name string) Option { return func(a *Agent) { a.user = name } }

// WithMaxToolCalls sets the per-question tool budget.
func WithMaxToolCalls(n int) Option {
	return func(a *Agent) {
		if n >= 0 {
			a.maxToolCalls = n
		}
	}
}

// WithGeneration overrides token, temperature and stop settings.
func WithGeneration(maxTokens int, temperature float64, stop []string) Option {
	return func(a *Agent) {
		if maxTokens > 0 {
			a.maxTokens = maxTokens
		}
		a.temperature = temperature
		if len(stop) > 0 {
			a.stop = append([]string(nil), stop...)
		}
	}
}

// WithTranscript receives the transcript of every Ask once it finishes.
func WithTranscript(sink func(Transcript)) Option { return func(a *Agent) { a.transcript = sink } }

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option { return func(a *Agent) { a.log = l } }

// New builds an agent over gen and tools.
func New(gen providers.Generator, tools Tools, opts ...Option) *Agent {
	a := &Agent{
		gen:          gen,
		tools:        tools,
		clock:        clock.System{},
		user:         "User",
		maxToolCalls: DefaultMaxToolCalls,
		maxTokens:    DefaultMaxTokens,
		temperature:  DefaultTemperature,
		stop:         []string{DefaultStop},
		log:          logging.With("agent"),
		newID:        func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask answers query. The error is non-nil only when the model call fails
// or ctx ends; tool failures are fed back to the model instead.
func (a *Agent) Ask(ctx context.Context, query string) (string, error) {
	t := Transcript{RequestID: a.newID(), Query: query}
	answer, err := a.run(ctx, &t)
	t.Answer = answer
	if a.transcript != nil {
		a.transcript(t)
	}
	return answer, err
}

func (a *Agent) run(ctx context.Context, t *Transcript) (string, error) {
	log := a.log.With().Str("request_id", t.RequestID).Logger()

	toolsJSON, err := a.tools.Catalog().PromptJSON()
	if err != nil {
		return "", fmt.Errorf("agent: render tool catalog: %w", err)
	}

	var history []evidence
	for round := 0; round <= a.maxToolCalls; round++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		system := SystemPrompt(a.user, a.clock.Now(), toolsJSON)
		req := providers.GenerateRequest{
			Messages:    buildMessages(system, t.Query, history),
			MaxTokens:   a.maxTokens,
			Temperature: a.temperature,
			Stop:        a.stop,
		}

		started := time.Now()
		resp, err := a.gen.Generate(ctx, req)
		elapsed := time.Since(started)
		if err != nil {
			log.Error().Err(err).Int("round", round).Msg("generation failed")
			return "", fmt.Errorf("agent: generate (round %d): %w", round, err)
		}
		rec := Round{Index: round, State: StateAwaitingModel, Output: resp.Text, Elapsed: elapsed}

		call, found := toolcall.Parse(resp.Text)
		if found {
			rec.State = StateCallDetected
			rec.Call = &call
			if round >= a.maxToolCalls {
				t.Rounds = append(t.Rounds, rec)
				log.Warn().Int("round", round).Str("tool", call.Name).Msg("tool budget exhausted")
				return Fallback, nil
			}
			result := a.tools.Execute(ctx, call)
			rec.Result = &result
			t.Rounds = append(t.Rounds, rec)
			log.Info().Int("round", round).Str("tool", call.Name).Bool("success", result.Success).Dur("elapsed", elapsed).Msg("tool call")
			history = append(history, evidence{call: call, result: result})
			continue
		}

		rec.State = StateFinalAnswer
		t.Rounds = append(t.Rounds, rec)
		answer := cleanAnswer(resp.Text)
		log.Info().Int("round", round).Dur("elapsed", elapsed).Int("tool_calls", len(history)).Msg("final answer")
		if answer == "" {
			return Fallback, nil
		}
		return answer, nil
	}
	return Fallback, nil
}

// Tools lists the catalog in registration order.
func (a *Agent) Tools() []catalog.Tool {
	return a.tools.Catalog().List()
}

// Status reports the model backend followed by every tool provider.
func (a *Agent) Status(ctx context.Context) []executor.ProviderStatus {
	model := executor.ProviderStatus{Name: "model", Connected: true, Detail: a.gen.Name()}
	if err := a.gen.Ping(ctx); err != nil {
		model.Connected = false
		model.Detail = a.gen.Name() + ": " + err.Error()
	}
	return append([]executor.ProviderStatus{model}, a.tools.Status(ctx)...)
}

// MaxToolCalls reports the configured budget.
func (a *Agent) MaxToolCalls() int { return a.maxToolCalls }

// ModelName identifies the generator.
func (a *Agent) ModelName() string { return a.gen.Name() }
