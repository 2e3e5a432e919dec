// Package logger configures the application's logging.
//
// It uses *ZeroLog* for structured logs and wires pkg/errors stack traces
// into zerolog so `.Stack()` prints where an error kind was constructed.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/deppfellow/go-errkit/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

func init() {
	// Error kinds capture their stack with pkg/errors; this lets
	// logger.Error().Stack().Err(err) render it.
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// New builds the application logger from the observability config.
func New(cfg *config.ObservabilityConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New writing to w. JSON is the default format; "console"
// selects zerolog's human-friendly writer.
func NewWithWriter(cfg *config.ObservabilityConfig, w io.Writer) zerolog.Logger {
	if cfg == nil {
		cfg = config.DefaultObservabilityConfig()
	}

	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil || cfg.GetLogLevel() == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = w
	if cfg.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}
