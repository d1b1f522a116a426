package simulate

import "errors"

// Sentinel kinds for simulation errors.
var (
	// ErrNoOutcome is returned when a round reaches the scoring state
	// without producing an outcome.
	ErrNoOutcome = errors.New("round finished without an outcome")
	// ErrInputRejected is returned when the controller refuses a
	// replicated tap.
	ErrInputRejected = errors.New("controller rejected input")
	// ErrDrainTimeout is returned when the result queue does not empty
	// before the drain deadline.
	ErrDrainTimeout = errors.New("result queue did not drain in time")
	// ErrRankOutOfRange is returned when a player's rank falls outside
	// the simulated field.
	ErrRankOutOfRange = errors.New("rank out of range")
	// ErrMissingPlayers is returned when a category lists fewer players
	// than were simulated.
	ErrMissingPlayers = errors.New("players missing from leaderboard")
	// ErrUnsortedBoard is returned when a category listing is not in
	// strictly ascending rank order.
	ErrUnsortedBoard = errors.New("leaderboard out of order")
)
