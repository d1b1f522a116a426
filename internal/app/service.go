// Package service provides the core engine service that owns the shared
// ranking pipeline and hands out match controllers wired into it.
package service

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/echotone/internal/adapters/leaderboard"
	resultqueue "github.com/okian/echotone/internal/adapters/mq/queue"
	workerpool "github.com/okian/echotone/internal/adapters/mq/worker"
	"github.com/okian/echotone/internal/domain/dedupe"
	"github.com/okian/echotone/internal/domain/model"
	"github.com/okian/echotone/internal/domain/scoring"
	"github.com/okian/echotone/internal/domain/sequence"
	"github.com/okian/echotone/internal/domain/types"
	"github.com/okian/echotone/internal/game"
	"github.com/okian/echotone/pkg/logger"
	"github.com/okian/echotone/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize        = 4096
	defaultDedupeSize       = 50_000
	defaultMaxTopN          = 100
	defaultCanvasWidth      = 800.0
	defaultCanvasHeight     = 400.0
	defaultTempoBPM         = 120.0
	defaultPositionErrorPx  = 150.0
	defaultRhythmErrorMs    = 400.0
	defaultCalculatingDelay = 1200 * time.Millisecond
)

// Service owns the shared ranking pipeline: dedupe cache, result queue,
// worker pool and leaderboard. Match controllers created through NewMatch
// submit their finished rounds here.
type Service struct {
	mu sync.RWMutex

	// Core components
	board   leaderboard.Board
	deduper dedupe.Deduper
	queue   resultqueue.Queue
	pool    *workerpool.Pool

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	maxTopN          int
	width            float64
	height           float64
	tempoBPM         float64
	policy           scoring.Policy
	maxPositionError float64
	maxRhythmError   float64
	calcDelay        time.Duration
	seed             uint32
	seeded           bool

	// matchSeq spreads seeded matches over distinct random streams.
	matchSeq atomic.Uint32

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the result queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxTopN caps how many entries a TopN query may request.
func WithMaxTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopN = n
		}
	}
}

// WithSeed makes match sequences deterministic. Each match draws from its
// own stream derived from the base seed, so seeded matches are reproducible
// run over run without replaying each other's sequences.
func WithSeed(seed uint32) Option {
	return func(s *Service) {
		s.seed = seed
		s.seeded = true
	}
}

// WithCanvas sets the stage dimensions matches are generated for.
func WithCanvas(width, height float64) Option {
	return func(s *Service) {
		if width > 0 && height > 0 {
			s.width = width
			s.height = height
		}
	}
}

// WithTempo sets the beat grid for sequence timing.
func WithTempo(bpm float64) Option {
	return func(s *Service) {
		if bpm > 0 {
			s.tempoBPM = bpm
		}
	}
}

// WithPolicy sets the advance thresholds applied to every match.
func WithPolicy(p scoring.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithTolerances sets the scoring error ceilings in pixels and milliseconds.
func WithTolerances(positionPx, rhythmMs float64) Option {
	return func(s *Service) {
		if positionPx > 0 && rhythmMs > 0 {
			s.maxPositionError = positionPx
			s.maxRhythmError = rhythmMs
		}
	}
}

// WithCalculatingDelay sets the suspense window before scores are revealed.
func WithCalculatingDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.calcDelay = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:        defaultQueueSize,
		dedupeSize:       defaultDedupeSize,
		maxTopN:          defaultMaxTopN,
		width:            defaultCanvasWidth,
		height:           defaultCanvasHeight,
		tempoBPM:         defaultTempoBPM,
		policy:           scoring.DefaultPolicy(),
		maxPositionError: defaultPositionErrorPx,
		maxRhythmError:   defaultRhythmErrorMs,
		calcDelay:        defaultCalculatingDelay,
		logger:           nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the pipeline components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting engine service...")

	// Initialize components
	s.board = leaderboard.NewTreapBoard(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = resultqueue.NewInMemoryQueue(
		resultqueue.WithCapacity(s.queueSize),
		resultqueue.WithBufferSize(s.queueSize),
	)

	// Create and start the worker pool draining results into the board
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.board)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "engine service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service. The worker pool closes the queue
// first and drains the backlog before the board is closed.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping engine service...")

	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Error(ctx, "worker pool shutdown", logger.Error(err))
		}
	}

	if s.board != nil {
		_ = s.board.Close()
	}

	s.started = false
	s.logger.Info(ctx, "engine service stopped")
}

// NewMatch creates a controller for one player's match, wired to submit
// finished rounds into the service pipeline. Extra options are applied after
// the service wiring, so callers may override any collaborator.
func (s *Service) NewMatch(playerID string, opts ...game.Option) (*game.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}

	options := []game.Option{
		game.WithPlayerID(playerID),
		game.WithCanvas(s.width, s.height),
		game.WithGenerator(sequence.NewGenerator(
			sequence.WithTempo(s.tempoBPM),
		)),
		game.WithScorer(scoring.NewDualAxisScorer(
			scoring.WithMaxPositionError(s.maxPositionError),
			scoring.WithMaxRhythmError(s.maxRhythmError),
		)),
		game.WithPolicy(s.policy),
		game.WithCalculatingDelay(s.calcDelay),
		game.WithResultSink(s),
		game.WithLogger(s.logger),
	}
	if s.seeded {
		options = append(options, game.WithSeed(s.seed+s.matchSeq.Add(1)-1))
	}
	options = append(options, opts...)

	return game.NewController(options...), nil
}

// Submit is the result sink for match controllers: idempotency check first,
// then the queue. Returns true when the result is accepted or is a known
// duplicate, false when the pipeline refused it.
func (s *Service) Submit(ctx context.Context, r model.Result) bool {
	s.mu.RLock()
	deduper, queue := s.deduper, s.queue
	s.mu.RUnlock()

	if deduper == nil || queue == nil {
		return false
	}

	if deduper.SeenAndRecord(ctx, r.ResultID) {
		metrics.RecordResultDuplicate()
		s.logger.Debug(ctx, "duplicate result skipped",
			logger.String("resultID", r.ResultID),
			logger.String("playerID", r.PlayerID),
		)
		return true
	}

	if !queue.Enqueue(ctx, r) {
		// Unrecord so a retry of the same result is not swallowed.
		deduper.Unrecord(ctx, r.ResultID)
		s.logger.Warn(ctx, "result rejected by queue",
			logger.String("resultID", r.ResultID),
			logger.String("playerID", r.PlayerID),
		)
		return false
	}

	metrics.RecordResultSubmitted()
	metrics.UpdateQueueSize(queue.Len(ctx))
	return true
}

// TopN returns the first n entries of one leaderboard category. Requests
// beyond the configured maximum are clamped to it.
func (s *Service) TopN(ctx context.Context, cat leaderboard.Category, n int) ([]types.Entry, error) {
	s.mu.RLock()
	board := s.board
	s.mu.RUnlock()

	if board == nil {
		return nil, ErrNotStarted
	}

	if n > s.maxTopN {
		n = s.maxTopN
	}
	return board.TopN(ctx, cat, n)
}

// Rank returns one player's standing in a leaderboard category.
func (s *Service) Rank(ctx context.Context, cat leaderboard.Category, playerID string) (types.Entry, error) {
	s.mu.RLock()
	board := s.board
	s.mu.RUnlock()

	if board == nil {
		return types.Entry{}, ErrNotStarted
	}

	return board.Rank(ctx, cat, playerID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["workers"] = s.pool.Size()
		stats["dedupeEntries"] = s.deduper.Size()

		counts := make(map[string]int, len(leaderboard.Categories()))
		for _, cat := range leaderboard.Categories() {
			counts[string(cat)] = s.board.Count(ctx, cat)
		}
		stats["playerCounts"] = counts

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}
