// Package executor dispatches parsed tool calls to their handlers and
// turns every outcome, including provider failures and panics, into a
// Result the model can read.
package executor

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Srimaan215/Roku-AI/internal/catalog"
	"github.com/Srimaan215/Roku-AI/internal/clock"
	"github.com/Srimaan215/Roku-AI/internal/dateref"
	"github.com/Srimaan215/Roku-AI/internal/logging"
	"github.com/Srimaan215/Roku-AI/internal/toolcall"
)

// Default knobs.
const (
	DefaultCallTimeout  = 10 * time.Second
	DefaultReminderList = "Task Master"
)

// Kind enumerates the built-in tools.
type Kind int

const (
	KindGetCalendar Kind = iota
	KindGetNextEvent
	KindCheckAvailability
	KindGetWeather
	KindGetCurrentTime
	KindGetUserInfo
	KindGetReminders
	KindCreateReminder
)

var kindNames = [...]string{
	KindGetCalendar:       catalog.GetCalendar,
	KindGetNextEvent:      catalog.GetNextEvent,
	KindCheckAvailability: catalog.CheckAvailability,
	KindGetWeather:        catalog.GetWeather,
	KindGetCurrentTime:    catalog.GetCurrentTime,
	KindGetUserInfo:       catalog.GetUserInfo,
	KindGetReminders:      catalog.GetReminders,
	KindCreateReminder:    catalog.CreateReminder,
}

// String returns the tool name for k.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Handler executes one tool.
type Handler interface {
	Execute(ctx context.Context, params Params) Result
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, params Params) Result

// Execute calls f.
func (f HandlerFunc) Execute(ctx context.Context, params Params) Result {
	return f(ctx, params)
}

// Config wires providers into an Executor. Any provider may be nil; the
// matching tools then report the capability as missing.
type Config struct {
	Calendar  CalendarService
	Feeds     FeedSource
	Weather   WeatherService
	Reminders ReminderStore
	Profile   ProfileStore

	Catalog      *catalog.Catalog
	Clock        clock.Clock
	CallTimeout  time.Duration
	ReminderList string
	// Username overrides the profile's display name in tool output.
	Username string
	Recorder Recorder
	Logger   *zerolog.Logger
}

// Executor owns the provider handles and the dispatch table.
type Executor struct {
	calendar  CalendarService
	feeds     FeedSource
	weather   WeatherService
	reminders ReminderStore
	profile   ProfileStore

	catalog      *catalog.Catalog
	clock        clock.Clock
	resolver     *dateref.Resolver
	timeout      time.Duration
	reminderList string
	username     string
	recorder     Recorder
	log          zerolog.Logger

	handlers map[string]Handler
}

// New builds an executor and registers the built-in handlers.
func New(cfg Config) *Executor {
	e := &Executor{
		calendar:     cfg.Calendar,
		feeds:        cfg.Feeds,
		weather:      cfg.Weather,
		reminders:    cfg.Reminders,
		profile:      cfg.Profile,
		catalog:      cfg.Catalog,
		clock:        cfg.Clock,
		timeout:      cfg.CallTimeout,
		reminderList: cfg.ReminderList,
		username:     cfg.Username,
		recorder:     cfg.Recorder,
	}
	if e.catalog == nil {
		e.catalog = catalog.Default()
	}
	if e.clock == nil {
		e.clock = clock.System{}
	}
	if e.timeout <= 0 {
		e.timeout = DefaultCallTimeout
	}
	if e.reminderList == "" {
		e.reminderList = DefaultReminderList
	}
	if cfg.Logger != nil {
		e.log = *cfg.Logger
	} else {
		e.log = logging.With("executor")
	}
	e.resolver = dateref.New(e.clock)

	e.handlers = map[string]Handler{
		KindGetCalendar.String():       HandlerFunc(e.getCalendar),
		KindGetNextEvent.String():      HandlerFunc(e.getNextEvent),
		KindCheckAvailability.String(): HandlerFunc(e.checkAvailability),
		KindGetWeather.String():        HandlerFunc(e.getWeather),
		KindGetCurrentTime.String():    HandlerFunc(e.getCurrentTime),
		KindGetUserInfo.String():       HandlerFunc(e.getUserInfo),
		KindGetReminders.String():      HandlerFunc(e.getReminders),
		KindCreateReminder.String():    HandlerFunc(e.createReminder),
	}
	return e
}

// Register installs or replaces the handler for name.
func (e *Executor) Register(name string, h Handler) {
	e.handlers[name] = h
}

// Catalog returns the catalog calls are validated against.
func (e *Executor) Catalog() *catalog.Catalog {
	return e.catalog
}

// Execute runs call. It never panics and never returns an error: every
// failure becomes a Result with Success=false.
func (e *Executor) Execute(ctx context.Context, call toolcall.Call) (res Result) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("tool", call.Name).Interface("panic", r).Bytes("stack", debug.Stack()).Msg("tool handler panicked")
			res = Fail("%s failed: %v", call.Name, r)
		}
		elapsed := time.Since(started)
		if e.recorder != nil {
			e.recorder.RecordTool(call.Name, res.Success, elapsed)
		}
		var ev *zerolog.Event
		if res.Success {
			ev = e.log.Info()
		} else {
			ev = e.log.Warn().Str("error", res.Error)
		}
		ev.Str("tool", call.Name).Bool("success", res.Success).Dur("duration", elapsed).Msg("tool executed")
	}()

	h, ok := e.handlers[call.Name]
	if !ok {
		return Fail("unknown tool: %s", call.Name)
	}
	if _, registered := e.catalog.Get(call.Name); registered {
		if err := e.catalog.Validate(call.Name, call.Parameters); err != nil {
			return Fail("invalid parameters for %s: %v", call.Name, err)
		}
	}
	params := Params(call.Parameters)
	if params == nil {
		params = Params{}
	}
	return h.Execute(ctx, params)
}

// withTimeout runs fn under the per-call timeout. A provider that ignores
// its context is abandoned when the deadline passes.
func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		var o outcome
		defer func() {
			if r := recover(); r != nil {
				o.err = fmt.Errorf("provider panic: %v", r)
			}
			done <- o
		}()
		o.val, o.err = fn(cctx)
	}()

	select {
	case o := <-done:
		return o.val, o.err
	case <-cctx.Done():
		var zero T
		return zero, fmt.Errorf("timed out after %s: %w", timeout, cctx.Err())
	}
}

// ProviderStatus describes one provider for diagnostics.
type ProviderStatus struct {
	Name      string
	Connected bool
	Detail    string
}

// Status reports which providers are present and usable.
func (e *Executor) Status(ctx context.Context) []ProviderStatus {
	out := make([]ProviderStatus, 0, 5)

	cal := ProviderStatus{Name: "calendar", Detail: "not configured"}
	if e.calendar != nil {
		if e.calendar.IsAuthenticated() {
			cal.Connected = true
			cal.Detail = "authenticated"
			if ids, err := withTimeout(ctx, e.timeout, e.calendar.ListCalendars); err == nil {
				cal.Detail = fmt.Sprintf("%d calendar(s)", len(ids))
			} else {
				cal.Connected = false
				cal.Detail = err.Error()
			}
		} else {
			cal.Detail = "not authenticated"
		}
	}
	out = append(out, cal)

	feeds := ProviderStatus{Name: "ics", Detail: "no feeds"}
	if e.feeds != nil && len(e.feeds.Feeds()) > 0 {
		feeds.Connected = true
		feeds.Detail = strings.Join(e.feeds.Feeds(), ", ")
	}
	out = append(out, feeds)

	w := ProviderStatus{Name: "weather", Detail: "not configured"}
	if e.weather != nil {
		w.Connected = e.weather.IsConfigured()
		w.Detail = e.weather.Name()
		if !w.Connected {
			w.Detail += " (api key not set)"
		}
	}
	out = append(out, w)

	rem := ProviderStatus{Name: "reminders", Detail: "not configured"}
	if e.reminders != nil {
		rem.Connected = true
		rem.Detail = "list " + e.reminderList
		if p, ok := e.reminders.(Pinger); ok {
			if _, err := withTimeout(ctx, e.timeout, func(c context.Context) (struct{}, error) {
				return struct{}{}, p.Ping(c)
			}); err != nil {
				rem.Connected = false
				rem.Detail = err.Error()
			}
		}
	}
	out = append(out, rem)

	prof := ProviderStatus{Name: "profile", Detail: "not loaded"}
	if e.profile != nil && len(e.profile.Categories()) > 0 {
		prof.Connected = true
		cats := append([]string(nil), e.profile.Categories()...)
		sort.Strings(cats)
		prof.Detail = strings.Join(cats, ", ")
	}
	out = append(out, prof)

	return out
}
