// Package scenario parses scenario runner flags and runs a Lua script
// against a freshly bootstrapped sheet service.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	entrypoint "github.com/louisbranch/savagesheet/internal/platform/cmd"
	"github.com/louisbranch/savagesheet/internal/platform/logging"
	"github.com/louisbranch/savagesheet/internal/services/sheet/app"
	"github.com/louisbranch/savagesheet/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Runtime app.RuntimeConfig
	Logging logging.Config

	Scenario   string        `env:"SAVAGESHEET_SCENARIO_FILE"`
	Assertions bool          `env:"SAVAGESHEET_SCENARIO_ASSERT" envDefault:"true"`
	Verbose    bool          `env:"SAVAGESHEET_SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"SAVAGESHEET_SCENARIO_TIMEOUT" envDefault:"10s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Runtime.CatalogDir, "catalog", cfg.Runtime.CatalogDir, "catalog content directory")
	fs.StringVar(&cfg.Runtime.SettingPath, "setting", cfg.Runtime.SettingPath, "setting YAML file")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	options := entrypoint.RunOptions{Logger: logger}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceScenario, options, func(ctx context.Context) error {
		// Scenarios never persist characters.
		cfg.Runtime.DBPath = ""
		rt, err := app.Bootstrap(ctx, cfg.Runtime, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		mode := scenario.AssertionStrict
		if !cfg.Assertions {
			mode = scenario.AssertionLogOnly
		}
		if err := scenario.RunFile(ctx, rt.Service, scenario.Config{
			Timeout:    cfg.Timeout,
			Assertions: mode,
			Verbose:    cfg.Verbose,
			Logger:     logger,
		}, cfg.Scenario); err != nil {
			return fmt.Errorf("scenario %s: %w", cfg.Scenario, err)
		}
		logger.Info("scenario passed", zap.String("file", cfg.Scenario))
		return nil
	})
}
