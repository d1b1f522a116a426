// Package worker defines worker contracts for draining scored results into
// the leaderboard.
package worker

import (
	"github.com/okian/echotone/pkg/logger"
)

// Option applies a configuration option to the ResultWorker.
type Option func(*ResultWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ResultWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *ResultWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
