package scenario

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// AssertionMode controls how failed expectations are reported.
type AssertionMode int

const (
	// AssertionStrict fails the scenario on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and keeps going.
	AssertionLogOnly
)

// Assertions reports setup failures and expectation mismatches.
type Assertions struct {
	Mode   AssertionMode
	Logger *zap.Logger
}

// Failf always returns an error; setup problems cannot be logged away.
func (a Assertions) Failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Assertf returns an error in strict mode and logs otherwise.
func (a Assertions) Assertf(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Warn("expectation not met", zap.String("detail", message))
		}
		return nil
	}
	return errors.New(message)
}
