package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/savagesheet/internal/platform/timeouts"
	"github.com/louisbranch/savagesheet/internal/services/sheet/app"
)

// Config controls scenario execution.
type Config struct {
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *zap.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
	}
}

// Runner executes Lua scenarios against a sheet service.
type Runner struct {
	service    *app.Service
	assertions Assertions
	logger     *zap.Logger
	verbose    bool
	timeout    time.Duration
}

// NewRunner prepares a scenario runner over service.
func NewRunner(service *app.Service, cfg Config) (*Runner, error) {
	if service == nil {
		return nil, errors.New("sheet service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScenarioStep
	}

	return &Runner{
		service:    service,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}, nil
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, service *app.Service, cfg Config, path string) error {
	runner, err := NewRunner(service, cfg)
	if err != nil {
		return err
	}

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start", zap.String("scenario", scenario.Name), zap.Int("steps", len(scenario.Steps)))
	state := &scenarioState{characters: map[string]string{}}
	defer state.close(r.service)

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step start", zap.Int("step", stepNumber), zap.String("kind", step.Kind))
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step done", zap.Int("step", stepNumber), zap.String("kind", step.Kind), zap.Duration("elapsed", time.Since(stepStart)))
	}
	r.logf("scenario done", zap.String("scenario", scenario.Name))
	return nil
}

func (r *Runner) logf(msg string, fields ...zap.Field) {
	if !r.verbose {
		return
	}
	r.logger.Info(msg, fields...)
}
