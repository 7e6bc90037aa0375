package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/navbridge/pkg/events"
)

// DefaultMaxSteps bounds a run whose route never completes.
const DefaultMaxSteps = 10000

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMaxSteps caps the number of simulation ticks.
func WithMaxSteps(n int) Option {
	return func(r *Runner) {
		r.maxSteps = n
	}
}

// WithInterval waits between ticks, for runs watched live. Zero runs as
// fast as possible.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.interval = d
	}
}

// WithObserver also delivers every event to c while running.
func WithObserver(c events.Consumer) Option {
	return func(r *Runner) {
		r.observer = c
	}
}
