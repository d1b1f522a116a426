// Package worker defines worker contracts for draining scored results into
// the leaderboard.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/echotone/internal/domain/model"
	"github.com/okian/echotone/pkg/logger"
	"github.com/okian/echotone/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Result abstracts what workers read off the queue.
// Using the model.Result type for consistency.
type Result = model.Result

// Submitter records a finished round on the leaderboard.
type Submitter interface {
	Submit(ctx context.Context, res Result) (bool, error)
}

// Queue defines how workers receive results.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Result
}

// Worker drains results off the queue and submits them using the provided
// interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// ResultWorker implements Worker for submitting results.
type ResultWorker struct {
	queue     Queue
	submitter Submitter
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewResultWorker creates a new worker with configuration options.
func NewResultWorker(queue Queue, submitter Submitter, opts ...Option) *ResultWorker {
	w := &ResultWorker{
		queue:     queue,
		submitter: submitter,
		name:      "worker", // default name
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *ResultWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	resultChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case res, ok := <-resultChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			// Process the result
			if err := w.processResult(ctx, res); err != nil {
				w.logger.Error(ctx, "error processing result", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *ResultWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	select {
	case <-w.shutdown:
		// Already signalled
	default:
		close(w.shutdown)
	}

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processResult hands a single result to the leaderboard.
func (w *ResultWorker) processResult(ctx context.Context, res Result) error { //nolint:gocritic // hugeParam: Result must be passed by value for channel semantics
	// Track overall processing latency
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	improved, err := w.submitter.Submit(ctx, res)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "submit_error")
		w.logger.Error(ctx, "board submit failed for result",
			logger.String("resultID", res.ResultID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to submit result %s: %w", res.ResultID, err)
	}

	if improved {
		w.logger.Debug(ctx, "board improved",
			logger.String("playerID", res.PlayerID),
			logger.Int("round", res.Round),
			logger.Int("total", res.Score.Total),
		)
	}

	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*ResultWorker
	queue   Queue

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, submitter Submitter) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*ResultWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewResultWorker(
			queue,
			submitter,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Shutdown gracefully shuts down the entire worker pool. The queue is
// closed first so workers drain whatever is already buffered before they
// stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	// Close the queue to stop new results and let the dequeue channels
	// drain to completion.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for i, w := range p.workers {
		select {
		case <-w.done:
			continue
		case <-shutdownCtx.Done():
			// Worker did not drain in time, stop it directly.
		}
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			if firstErr == nil {
				firstErr = fmt.Errorf("worker %d: %w", i, err)
			}
		}
	}

	metrics.UpdateWorkerActiveCount(0)
	return firstErr
}
