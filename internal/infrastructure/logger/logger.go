// Package logger builds the process-wide zap logger: production JSON output
// with ISO8601 timestamps under a "timestamp" key, so order and payment log
// lines correlate cleanly with gateway dashboards.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New parses level (debug, info, warn, error); anything unparseable falls
// back to info rather than failing startup.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	return cfg.Build()
}
