// Package game runs the round lifecycle of a match: present a sequence,
// collect the replication, score it, decide advancement. The controller is
// a plain state machine with no rendering or audio of its own; those sit
// behind the playback.Driver and BeatSync seams.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/echotone/internal/domain/model"
	"github.com/okian/echotone/internal/domain/rng"
	"github.com/okian/echotone/internal/domain/scoring"
	"github.com/okian/echotone/internal/domain/sequence"
	"github.com/okian/echotone/internal/playback"
	"github.com/okian/echotone/pkg/logger"
	"github.com/okian/echotone/pkg/metrics"
)

// Default controller configuration constants.
const (
	defaultCalculatingDelay = 1200 * time.Millisecond
	defaultCanvasWidth      = 800.0
	defaultCanvasHeight     = 400.0
	baseSequenceLength      = 2 // round N presents baseSequenceLength+N targets
	firstRound              = 1
)

// BeatSync delays the first note until the product's musical clock says
// go. A nil BeatSync starts playback immediately.
type BeatSync func(ctx context.Context) error

// ResultSink receives finished-round results. Submit must not block the
// round loop; the app wires a queue-backed pipeline here.
type ResultSink interface {
	Submit(ctx context.Context, r model.Result) bool
}

// TransitionHook observes committed state changes. It runs under the
// controller lock and must not call back into the controller.
type TransitionHook func(from, to State)

// Outcome is the readable record of the most recently scored round.
type Outcome struct {
	Round  int
	Score  model.Score
	Passed bool
}

// Controller drives one player's match. All methods are safe for
// concurrent use; transitions are serialized and inputs are processed in
// arrival order. Deferred work carries a generation stamp and silently
// expires when the state it belongs to is gone.
type Controller struct {
	mu         sync.Mutex
	state      State
	round      int
	generation uint64

	playerID string
	width    float64
	height   float64

	rnd       sequence.Rand
	generator *sequence.Generator
	scorer    scoring.Scorer
	policy    scoring.Policy
	driver    playback.Driver
	beatSync  BeatSync
	sink      ResultSink
	hook      TransitionHook
	log       logger.Logger

	calcDelay time.Duration
	afterFunc func(d time.Duration, f func()) *time.Timer
	now       func() time.Time

	targets []model.Target
	inputs  []model.PlayerInput

	lastOutcome Outcome
	scored      bool

	cancelPlayback context.CancelFunc
	calcTimer      *time.Timer
}

// NewController creates a controller with default collaborators: a
// wall-clock seeded random source, the standard generator, scorer and
// policy, and a real-time conductor for playback.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		state:     StateIdle,
		playerID:  uuid.NewString(),
		width:     defaultCanvasWidth,
		height:    defaultCanvasHeight,
		generator: sequence.NewGenerator(),
		scorer:    scoring.NewDualAxisScorer(),
		policy:    scoring.DefaultPolicy(),
		driver:    playback.NewConductor(),
		log:       logger.Nop(),
		calcDelay: defaultCalculatingDelay,
		afterFunc: time.AfterFunc,
		now:       time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	if c.rnd == nil {
		c.rnd = rng.NewNondeterministic()
	}

	return c
}

// Start begins a match at round 1. It fails if a match is already in
// progress; use Reset first to abandon one.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return ErrAlreadyStarted
	}

	c.round = firstRound
	c.beginRoundLocked(ctx)
	return nil
}

// Replay abandons whatever the current round is doing and starts the same
// round number over with a fresh sequence. In-flight playback is cancelled
// before the new one launches, so a rapid double start never stacks two
// presentations.
func (c *Controller) Replay(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle {
		return ErrNotStarted
	}

	c.beginRoundLocked(ctx)
	return nil
}

// NextRound moves the match on after a scored round: advance on a pass,
// back to round 1 on a fail.
func (c *Controller) NextRound(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateScoring {
		return ErrRoundNotScored
	}

	if c.lastOutcome.Passed {
		c.round++
	} else {
		c.round = firstRound
	}

	c.beginRoundLocked(ctx)
	return nil
}

// RecordInput offers one tap to the controller. It reports whether the
// tap was accepted: taps land only during the player's turn and only up
// to the sequence length. Everything else is a rejected no-op, including
// taps during playback and attempts to keep tapping past the end.
func (c *Controller) RecordInput(in model.PlayerInput) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePlayerTurn || len(c.inputs) >= len(c.targets) {
		metrics.RecordInputRejected()
		return false
	}

	c.inputs = append(c.inputs, in)
	metrics.RecordInputAccepted()

	if len(c.inputs) == len(c.targets) {
		c.transitionLocked(StateCalculating)
		gen := c.generation
		c.calcTimer = c.afterFunc(c.calcDelay, func() { c.finishCalculating(gen) })
	}

	return true
}

// Reset abandons the match and returns to idle from any state. Pending
// playback and timers are cancelled; their late completions expire
// against the bumped generation.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelAsyncLocked()
	c.round = 0
	c.targets = nil
	c.inputs = nil
	c.scored = false
	c.lastOutcome = Outcome{}

	if c.state != StateIdle {
		c.transitionLocked(StateIdle)
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Round returns the current round number, 0 before the first start.
func (c *Controller) Round() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.round
}

// PlayerID returns the identifier results are submitted under.
func (c *Controller) PlayerID() string {
	return c.playerID
}

// Targets returns a copy of the current round's sequence.
func (c *Controller) Targets() []model.Target {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Target, len(c.targets))
	copy(out, c.targets)
	return out
}

// InputCount returns how many taps the current round has collected.
func (c *Controller) InputCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inputs)
}

// LastOutcome returns the most recently scored round, if any round has
// been scored since the last Reset.
func (c *Controller) LastOutcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOutcome, c.scored
}

// beginRoundLocked tears down any in-flight round work and launches the
// current round: fresh sequence, fresh inputs, playback goroutine.
// Callers hold the lock.
func (c *Controller) beginRoundLocked(ctx context.Context) {
	c.cancelAsyncLocked()

	count := baseSequenceLength + c.round
	c.targets = c.generator.Generate(count, c.width, c.height, c.rnd)
	c.inputs = nil

	c.transitionLocked(StatePlayback)
	gen := c.generation

	playCtx, cancel := context.WithCancel(ctx)
	c.cancelPlayback = cancel
	schedule := playback.BuildSchedule(gen, c.targets)

	metrics.RecordRoundStarted()
	c.log.Debug(ctx, "round started",
		logger.String("player_id", c.playerID),
		logger.Int("round", c.round),
		logger.Int("targets", count),
	)

	go c.runPlayback(playCtx, gen, schedule)
}

// runPlayback waits for the beat, presents the schedule, and hands the
// turn to the player. The driver returning nil is the only signal that
// the last target has been presented; an error means the run was cut
// short and the controller state is no longer ours to advance.
func (c *Controller) runPlayback(ctx context.Context, gen uint64, s playback.Schedule) {
	if c.beatSync != nil {
		if err := c.beatSync(ctx); err != nil {
			c.log.Debug(ctx, "beat sync abandoned", logger.Error(err))
			return
		}
	}

	if err := c.driver.Play(ctx, s); err != nil {
		c.log.Debug(ctx, "playback abandoned", logger.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.state != StatePlayback {
		return
	}
	c.transitionLocked(StatePlayerTurn)
}

// finishCalculating fires when the suspense delay lapses: score, judge,
// publish. A stale generation means the round it belonged to was reset
// or restarted, so it does nothing.
func (c *Controller) finishCalculating(gen uint64) {
	c.mu.Lock()

	if gen != c.generation || c.state != StateCalculating {
		c.mu.Unlock()
		return
	}

	score := c.scorer.Score(c.targets, c.inputs)
	passed := c.policy.Passes(score)
	c.lastOutcome = Outcome{Round: c.round, Score: score, Passed: passed}
	c.scored = true
	c.transitionLocked(StateScoring)

	sink := c.sink
	result := model.Result{
		ResultID: uuid.NewString(),
		PlayerID: c.playerID,
		Round:    c.lastOutcome.Round,
		Score:    score,
		Passed:   passed,
		TS:       c.now(),
	}
	c.mu.Unlock()

	metrics.RecordScores(float64(score.Position), float64(score.Rhythm), float64(score.Total))
	if passed {
		metrics.RecordRoundPassed()
	} else {
		metrics.RecordRoundFailed()
	}

	ctx := context.Background()
	c.log.Info(ctx, "round scored",
		logger.String("player_id", result.PlayerID),
		logger.Int("round", result.Round),
		logger.Int("position", score.Position),
		logger.Int("rhythm", score.Rhythm),
		logger.Int("total", score.Total),
		logger.Bool("passed", passed),
	)

	if sink != nil {
		sink.Submit(ctx, result)
	}
}

// transitionLocked commits a state change: new state, bumped generation,
// hook. Callers hold the lock.
func (c *Controller) transitionLocked(to State) {
	from := c.state
	c.state = to
	c.generation++

	c.log.Debug(context.Background(), "state transition",
		logger.String("from", from.String()),
		logger.String("to", to.String()),
		logger.Uint64("generation", c.generation),
	)

	if c.hook != nil {
		c.hook(from, to)
	}
}

// cancelAsyncLocked stops the deferred work of the current state. The
// generation bump of the next transition makes any already-running
// completion stale. Callers hold the lock.
func (c *Controller) cancelAsyncLocked() {
	if c.cancelPlayback != nil {
		c.cancelPlayback()
		c.cancelPlayback = nil
	}
	if c.calcTimer != nil {
		c.calcTimer.Stop()
		c.calcTimer = nil
	}
}
