// Package logging owns the process-wide zerolog logger. Console output is
// human-readable; the optional log file receives JSON lines.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options control where logs go.
type Options struct {
	// Path is the JSON log file. Empty disables file logging.
	Path string
	// Console receives pretty output. Nil disables console logging.
	Console io.Writer
	Debug   bool
}

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = zerolog.Nop()
)

// Init logs to stderr and, when logPath is set, to logPath.
func Init(logPath string) error {
	return InitWith(Options{Path: logPath, Console: os.Stderr})
}

// InitWith replaces the global logger according to opts.
func InitWith(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.Kitchen})
	}

	if opts.Path != "" {
		if dir := filepath.Dir(opts.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		logger = zerolog.Nop()
		return nil
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return nil
}

// SetDebug toggles debug-level output on the current logger.
func SetDebug(on bool) {
	mu.Lock()
	defer mu.Unlock()
	if on {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
}

// Close flushes and closes the log file, leaving logging disabled.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.Nop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Logger returns the current global logger.
func Logger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// With returns a child logger tagged with component. The child captures
// the logger current at call time.
func With(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}

func LogEvent(format string, args ...any) {
	l := Logger()
	l.Info().Msg(fmt.Sprintf(format, args...))
}

// LogMetricsEvent logs a metrics line at debug level.
func LogMetricsEvent(format string, args ...any) {
	l := Logger()
	l.Debug().Str("component", "metrics").Msg(fmt.Sprintf(format, args...))
}

// LogRequest records one outbound call. direction reads like "ROKU->LLM".
func LogRequest(direction, host, model, tool string, payload any) {
	l := Logger()
	l.Debug().Msg(buildRequestMessage(direction, host, model, tool, payload))
}

func buildRequestMessage(direction, host, model, tool string, payload any) string {
	dir := strings.TrimSpace(direction)
	if dir != "" {
		dir = strings.ToUpper(dir)
	}
	hostValue := strings.TrimSpace(host)
	if hostValue == "" {
		hostValue = "unknown"
	}
	modelValue := strings.TrimSpace(model)
	if modelValue == "" {
		modelValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("host=%s", hostValue))
	parts = append(parts, fmt.Sprintf("model=%s", modelValue))
	if tool = strings.TrimSpace(tool); tool != "" {
		parts = append(parts, fmt.Sprintf("tool=%s", tool))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
