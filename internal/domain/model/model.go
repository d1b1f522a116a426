// Package model contains domain models passed between layers.
package model

import "time"

// Target is one step of a generated sequence: where the note appears,
// what it sounds like, and when it plays relative to the first note.
type Target struct {
	Index        int     // position in the sequence, starting at 0
	X            float64 // horizontal center in pixels
	Y            float64 // vertical center in pixels
	Color        string  // fill color, hex notation e.g. "#ff5964"
	Frequency    float64 // tone frequency in Hz
	TimeOffsetMs float64 // onset relative to the first target, milliseconds
}

// PlayerInput is a single tap recorded during the player's turn.
type PlayerInput struct {
	X      float64 // tap x in pixels
	Y      float64 // tap y in pixels
	TimeMs float64 // tap time on the capturing clock, milliseconds
}

// Score carries the rounded sub-scores and total for one round.
type Score struct {
	Position int // spatial accuracy, 0-100
	Rhythm   int // timing accuracy, 0-100
	Total    int // combined score, 0-100
}

// Result is a finished round handed to the ranking pipeline.
type Result struct {
	ResultID string    // unique id for idempotency
	PlayerID string    // player identifier
	Round    int       // 1-based round number the score was earned in
	Score    Score     // the round's scores
	Passed   bool      // whether the round met the advance thresholds
	TS       time.Time // completion timestamp
}
