// Package simulate drives full matches through the real engine without a
// human: noisy autoplayers replicate generated sequences end to end, from
// the controller through the queue and workers onto the leaderboards.
package simulate

import (
	"time"

	service "github.com/okian/echotone/internal/app"
)

// Config holds the simulation parameters.
type Config struct {
	Players      int     // number of simulated players
	Rounds       int     // rounds each player attempts
	Seed         uint32  // match and noise seed; 0 plays nondeterministically
	PosJitterPx  float64 // tap position noise amplitude, pixels
	TimeJitterMs float64 // tap timing noise amplitude, milliseconds
	TopN         int     // leaderboard entries to print at the end
	Verbose      bool    // log every attempt as it lands

	// ServiceOptions tune the simulated pipeline. The runner appends its
	// own seed and query-cap options after these, so Seed and TopN from
	// this Config win over conflicting options.
	ServiceOptions []service.Option
}

// Stats aggregates what happened across all simulated matches.
type Stats struct {
	Players      int
	RoundsPlayed int
	RoundsPassed int
	RoundsFailed int
	DeepestRound int
	MeanPosition float64
	MeanRhythm   float64
	MeanTotal    float64
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
