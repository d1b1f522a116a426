// Package queue defines the contract for enqueuing and consuming scored
// results.
//
// Implementations may use channels or more advanced structures. The game
// ships with an in-memory bounded queue.
package queue

import (
	"context"
	"sync"

	"github.com/okian/echotone/internal/domain/model"
	"github.com/okian/echotone/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 4096
	defaultBufferSize    = 4096
)

// Result represents the payload type flowing through the queue.
// Using the model.Result type for type safety.
type Result = model.Result

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a result to the queue.
	// Returns false if the queue is full and the result was not enqueued.
	Enqueue(ctx context.Context, r Result) bool

	// Dequeue returns a channel that will receive results as they become
	// available. The channel will be closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Result

	// Len returns the current number of queued results.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new results can be enqueued and the dequeue
	// channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	results    chan Result
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity, // default capacity
		bufferSize: defaultBufferSize,    // default buffer size
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	// Initialize the results channel with the configured buffer size
	q.results = make(chan Result, q.bufferSize)

	// Initialize metrics
	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a result to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Result) bool { //nolint:gocritic // hugeParam: Result must be passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	// Check if we're at capacity
	if len(q.results) >= q.capacity {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	select {
	case q.results <- r:
		metrics.RecordQueueEnqueue()
		// Update queue size and utilization
		currentSize := len(q.results)
		metrics.UpdateQueueSize(currentSize)
		metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false // context cancelled
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false // queue is full
	}
}

// Dequeue returns a channel that will receive results as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Result {
	// Wrap the channel to track dequeue metrics
	dequeueChan := make(chan Result)
	go func() {
		defer close(dequeueChan)
		for res := range q.results {
			select {
			case dequeueChan <- res:
				metrics.RecordQueueDequeue()
				// Update queue size and utilization after dequeue
				currentSize := len(q.results)
				metrics.UpdateQueueSize(currentSize)
				metrics.UpdateQueueUtilization(float64(currentSize) / float64(q.capacity))
			case <-ctx.Done():
				return
			}
		}
	}()
	return dequeueChan
}

// Len returns the current number of queued results.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.results)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil // already closed
	}

	// Close the results channel to signal consumers to stop
	close(q.results)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
