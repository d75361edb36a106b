package sigscope

import (
	"fmt"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/sigscope/pkg/errors"
	"github.com/agentstation/sigscope/pkg/logging"
)

// Option is a function that configures an Inspector.
type Option func(*config) error

type config struct {
	inherited bool
	scan      bool
	logger    *zerolog.Logger
	clock     func() utc.Time
}

func newConfig() *config {
	return &config{
		inherited: true,
		logger:    logging.Default(),
		clock:     utc.Now,
	}
}

// WithInheritedSignals configures whether signals declared by the target
// type's ancestors are recorded as well. They are included by default;
// disable to record only the signals declared by the exact type.
func WithInheritedSignals(enabled bool) Option {
	return func(c *config) error {
		c.inherited = enabled
		return nil
	}
}

// WithScanDispatch routes every signal through one shared handler that
// attributes each firing by scanning the observation handles in method
// order and taking the first with a pending count. This mirrors dispatch
// facilities that cannot carry per-connection identity.
//
// The scan rule is only sound when delivery is synchronous and the handler
// runs once per firing before the next emission; when two overloads of one
// name have pending firings simultaneously, attribution between them is by
// method order, not by actual firing. The default per-signal handlers do
// not have this limitation.
func WithScanDispatch(enabled bool) Option {
	return func(c *config) error {
		c.scan = enabled
		return nil
	}
}

// WithLogger sets the logger the inspector reports diagnostics through.
// Defaults to the package logger from pkg/logging.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil: %w", errors.ErrInvalidInput)
		}
		c.logger = logger
		return nil
	}
}

// WithClock overrides the time source used for record timestamps. Useful
// for deterministic tests.
func WithClock(clock func() utc.Time) Option {
	return func(c *config) error {
		if clock == nil {
			return fmt.Errorf("clock must not be nil: %w", errors.ErrInvalidInput)
		}
		c.clock = clock
		return nil
	}
}
