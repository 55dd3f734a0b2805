// Package logging builds the zap loggers used across savagesheet.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Modes accepted by New.
const (
	ModeDev  = "dev"
	ModeProd = "prod"
	ModeNop  = "nop"
)

// Config selects the logger mode from the environment.
type Config struct {
	Mode  string `env:"SAVAGESHEET_LOG_MODE" envDefault:"dev"`
	Debug bool   `env:"SAVAGESHEET_LOG_DEBUG" envDefault:"false"`
}

// New builds a logger for mode. Unknown modes are rejected.
func New(cfg Config) (*zap.Logger, error) {
	var zcfg zap.Config
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case ModeNop:
		return zap.NewNop(), nil
	case ModeProd, "production":
		zcfg = zap.NewProductionConfig()
	case ModeDev, "development", "":
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		return nil, fmt.Errorf("unknown log mode %q", cfg.Mode)
	}
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
