// Package logger builds the process zerolog logger from configuration.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/localnerve/ecommerce-api/internal/config"
	"github.com/rs/zerolog"
)

// New creates the application logger.
// Console format is meant for local runs, json for anything shipping logs.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates the application logger writing to w
func NewWithWriter(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.AppName).
		Logger()
}
