// Package logger wraps zap configuration for the application.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger holds the application's structured logger.
type Logger struct {
	// Log is the underlying zap logger.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap logger; call Init to configure it.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init configures the logger at the given level ("debug", "info", "warn",
// "error"). It replaces Log with a production zap logger.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	l.Log = log
	return nil
}
