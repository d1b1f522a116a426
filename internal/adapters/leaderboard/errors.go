package leaderboard

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound        = errors.New("player not found")
	ErrInvalidLimit    = errors.New("invalid leaderboard limit")
	ErrUnknownCategory = errors.New("unknown leaderboard category")
)
