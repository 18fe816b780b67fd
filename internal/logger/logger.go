// Package logger wraps zap construction so main and middleware share
// one configured instance.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Logger holds the shared zap logger.
type Logger struct {
	Log *zap.Logger
}

// New returns a Logger with a no-op zap instance; call Init before use.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production zap logger at the given level ("Info",
// "Debug", ...). Replaces the no-op instance on success.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = logger
	return nil
}
