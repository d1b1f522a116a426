package leaderboard

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/echotone/internal/domain/model"
	"github.com/okian/echotone/internal/domain/types"
	"github.com/okian/echotone/pkg/metrics"
)

// Treap-based, in-memory Board implementation.
//
// Each category keeps its own treap ordered by composite key DESC, then
// playerID ASC, so an in-order traversal yields that category's board from
// best to worst. Node priorities are random, which keeps the tree balanced
// in expectation no matter what order results arrive in.

// keyScale packs the tie-break axis into the low digits of the composite
// ranking key. Totals never exceed 100 and rounds stay far below 1000, so
// neither axis can carry into the other's digit group.
const keyScale = 1000

// defaultMetricsInterval is how often board sizes are republished as gauges.
const defaultMetricsInterval = 5 * time.Second

// clampSecondary keeps the tie-break axis inside a single keyScale digit
// group.
func clampSecondary(v int) int {
	if v < 0 {
		return 0
	}
	if v >= keyScale {
		return keyScale - 1
	}
	return v
}

// compositeKey merges a ranking axis with its tie-breaker into one
// sortable integer.
func compositeKey(primary, secondary int) int64 {
	return int64(primary)*keyScale + int64(clampSecondary(secondary))
}

// keyFor computes the composite ranking key for res in cat.
func keyFor(cat Category, res model.Result) int64 {
	if cat == CategoryTotal {
		return compositeKey(res.Score.Total, res.Round)
	}
	return compositeKey(res.Round, res.Score.Total)
}

// record stores a player's best key for one category plus the result
// fields needed to render a board row.
type record struct {
	key      int64
	round    int
	total    int
	position int
	rhythm   int
}

// treap node
type node struct {
	id    string
	key   int64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aKey, aID) should appear before (bKey, bID) in the
// board (higher keys rank earlier).
func less(aKey int64, aID string, bKey int64, bID string) bool {
	if aKey != bKey {
		return aKey > bKey
	}
	return aID < bID // tie-breaker by id asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, key int64, prio uint64) *node {
	if n == nil {
		return &node{id: id, key: key, prio: prio, size: 1}
	}
	if less(key, id, n.key, n.id) {
		n.left = insert(n.left, id, key, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, key, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, key int64) *node {
	if n == nil {
		return nil
	}
	if key == n.key && id == n.id {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, key)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, key)
		}
	} else if less(key, id, n.key, n.id) {
		n.left = deleteNode(n.left, id, key)
	} else {
		n.right = deleteNode(n.right, id, key)
	}
	fix(n)
	return n
}

// rankOf returns the 1-based board position of (id, key), or 0 if the node
// is absent. Subtree sizes make this a single root-to-node walk.
func rankOf(n *node, id string, key int64) int {
	ahead := 0
	for n != nil {
		if key == n.key && id == n.id {
			return ahead + nsize(n.left) + 1
		}
		if less(key, id, n.key, n.id) {
			n = n.left
		} else {
			ahead += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// collectTopN appends up to limit rows in rank order (best first).
func collectTopN(n *node, limit int, records map[string]record, out *[]types.Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, ok := records[n.id]; ok {
			*out = append(*out, types.Entry{
				PlayerID: n.id,
				Round:    rec.round,
				Total:    rec.total,
				Position: rec.position,
				Rhythm:   rec.rhythm,
			})
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// tree is one category's treap plus its per-player best records.
type tree struct {
	root *node
	byID map[string]record
}

// TreapBoard is an in-memory Board backed by one treap per category.
type TreapBoard struct {
	mu    sync.RWMutex
	trees map[Category]*tree
	prng  *rand.Rand

	metricsInterval time.Duration

	// Background metrics updater management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapBoard constructs a board with configuration options.
func NewTreapBoard(ctx context.Context, opts ...Option) *TreapBoard {
	b := &TreapBoard{
		trees:           make(map[Category]*tree, len(Categories())),
		prng:            rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec
		metricsInterval: defaultMetricsInterval,
	}
	for _, cat := range Categories() {
		b.trees[cat] = &tree{byID: make(map[string]record)}
	}

	for _, opt := range opts {
		opt(b)
	}

	b.stopChan = make(chan struct{})
	b.startMetricsUpdater(ctx)

	return b
}

// Submit implements Board.Submit with O(log n) expected time per category.
func (b *TreapBoard) Submit(ctx context.Context, res model.Result) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	improved := make([]Category, 0, len(b.trees))
	sizes := make(map[Category]int, len(b.trees))
	newPlayer := false

	b.mu.Lock()
	for _, cat := range Categories() {
		t := b.trees[cat]
		key := keyFor(cat, res)
		old, ok := t.byID[res.PlayerID]
		if ok && key <= old.key { // not an improvement
			continue
		}
		if ok {
			t.root = deleteNode(t.root, res.PlayerID, old.key)
		} else {
			newPlayer = true
		}
		t.byID[res.PlayerID] = record{
			key:      key,
			round:    res.Round,
			total:    res.Score.Total,
			position: res.Score.Position,
			rhythm:   res.Score.Rhythm,
		}
		t.root = insert(t.root, res.PlayerID, key, b.prng.Uint64())
		improved = append(improved, cat)
		sizes[cat] = len(t.byID)
	}
	b.mu.Unlock()

	// Update metrics outside the lock
	for _, cat := range improved {
		metrics.RecordBoardImprovement(string(cat))
	}
	if newPlayer {
		for cat, n := range sizes {
			metrics.UpdateBoardRecords(string(cat), n)
		}
	}
	return len(improved) > 0, nil
}

// Rank returns the current row and position for a player in O(log n).
func (b *TreapBoard) Rank(ctx context.Context, cat Category, playerID string) (types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.trees[cat]
	if !ok {
		metrics.RecordErrorByComponent("leaderboard", "unknown_category")
		return types.Entry{}, ErrUnknownCategory
	}
	rec, ok := t.byID[playerID]
	if !ok {
		metrics.RecordErrorByComponent("leaderboard", "not_found")
		return types.Entry{}, ErrNotFound
	}
	return types.Entry{
		Rank:     rankOf(t.root, playerID, rec.key),
		PlayerID: playerID,
		Round:    rec.round,
		Total:    rec.total,
		Position: rec.position,
		Rhythm:   rec.rhythm,
	}, nil
}

// TopN returns the best n rows for a category.
func (b *TreapBoard) TopN(ctx context.Context, cat Category, n int) ([]types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBoardQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("leaderboard", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.trees[cat]
	if !ok {
		metrics.RecordErrorByComponent("leaderboard", "unknown_category")
		return nil, ErrUnknownCategory
	}

	out := make([]types.Entry, 0, min(n, len(t.byID)))
	collectTopN(t.root, n, t.byID, &out)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Count returns the number of players tracked in a category.
func (b *TreapBoard) Count(ctx context.Context, cat Category) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.trees[cat]
	if !ok {
		return 0
	}
	return len(t.byID)
}

// Close gracefully shuts down the metrics updater goroutine.
func (b *TreapBoard) Close() error {
	select {
	case <-b.stopChan:
		// Channel already closed
	default:
		close(b.stopChan)
	}
	b.wg.Wait()
	return nil
}

// startMetricsUpdater starts a background goroutine that republishes board
// size gauges at the configured interval.
func (b *TreapBoard) startMetricsUpdater(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.metricsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-b.stopChan:
				return
			case <-ticker.C:
				b.publishSizes()
			}
		}
	}()
}

func (b *TreapBoard) publishSizes() {
	b.mu.RLock()
	sizes := make(map[Category]int, len(b.trees))
	for cat, t := range b.trees {
		sizes[cat] = len(t.byID)
	}
	b.mu.RUnlock()

	for cat, n := range sizes {
		metrics.UpdateBoardRecords(string(cat), n)
	}
}
