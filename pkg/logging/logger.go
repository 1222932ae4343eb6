// Package logging configures zerolog for the Jikan client and proxy.
//
// Every line carries the service name; loggers derived with NewLogger add a
// component and request-scoped loggers add the inbound request id.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a level name as read from LOG_LEVEL.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// DefaultService names the process in every log line.
const DefaultService = "jikan-proxy"

// Config holds logger configuration.
type Config struct {
	Level LogLevel

	// Pretty switches from JSON lines to console output.
	Pretty bool

	// Output defaults to os.Stderr.
	Output io.Writer

	// Service is attached as the "service" field. Empty means DefaultService.
	Service string
}

// DefaultConfig returns JSON output at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Output:  os.Stderr,
		Service: DefaultService,
	}
}

// ParseLevel maps a level name to a zerolog level. "warning" is accepted
// as an alias of "warn"; the empty string means info.
func ParseLevel(level LogLevel) (zerolog.Level, error) {
	switch name := strings.ToLower(strings.TrimSpace(string(level))); name {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	case "debug", "info", "warn", "error":
		return zerolog.ParseLevel(name)
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Setup installs the global logger and returns it. An unknown level falls
// back to info. Durations are written in milliseconds, which is the scale of
// throttle waits and cooldowns.
func Setup(cfg Config) zerolog.Logger {
	level, _ := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)
	zerolog.DurationFieldUnit = time.Millisecond

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	service := cfg.Service
	if service == "" {
		service = DefaultService
	}

	logger := zerolog.New(out).With().Timestamp().Str("service", service).Logger()
	log.Logger = logger
	return logger
}

// NewLogger derives a component logger from the global one.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// WithRequestID tags logger with an inbound request id.
func WithRequestID(logger zerolog.Logger, requestID string) zerolog.Logger {
	if requestID == "" {
		return logger
	}
	return logger.With().Str("request_id", requestID).Logger()
}

// Levels in use:
//
//	debug  cache hits, throttle waits, conditional requests, resolved views
//	info   startup and shutdown, retries that succeeded, 304 revalidations
//	warn   retry attempts, soft failures absorbed by fallback data, stale
//	       serves, cache backend errors
//	error  exhausted retries, server failures
//
// Fields: endpoint, status, attempt, error_class, task_id, wait, view,
// state, request_id.
