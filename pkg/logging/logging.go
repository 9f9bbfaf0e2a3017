// Package logging builds the zap logger for the runtime mode.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// New returns a console logger at debug level in development mode and a JSON
// logger otherwise. level overrides the mode's default level when set.
func New(mode, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if IsDevelopment(mode) {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}

	return cfg.Build()
}

// IsDevelopment reports whether mode selects verbose logging.
func IsDevelopment(mode string) bool {
	m := strings.ToLower(strings.TrimSpace(mode))
	return m == ModeDevelopment || m == "dev"
}
