package game

import "errors"

// Controller lifecycle errors.
var (
	// ErrAlreadyStarted is returned by Start when a match is in progress.
	ErrAlreadyStarted = errors.New("match already started")
	// ErrNotStarted is returned by Replay before any match has started.
	ErrNotStarted = errors.New("match not started")
	// ErrRoundNotScored is returned by NextRound outside the scoring state.
	ErrRoundNotScored = errors.New("round not scored yet")
)
