// Command simulate runs seeded autoplayers against the engine and prints
// the resulting leaderboards.
package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	service "github.com/okian/echotone/internal/app"
	"github.com/okian/echotone/internal/simulate"
)

// Default configuration constants.
const (
	defaultPlayers      = 5
	defaultRounds       = 5
	defaultPosJitterPx  = 40.0
	defaultTimeJitterMs = 120.0
	defaultTopN         = 10
	defaultQueueSize    = 4096
	workerMultiplier    = 2 // workers per CPU core
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		players    = flag.Int("players", defaultPlayers, "Number of simulated players")
		rounds     = flag.Int("rounds", defaultRounds, "Rounds each player attempts")
		seed       = flag.Uint("seed", 0, "Base seed for sequences and noise; 0 plays nondeterministically")
		posJitter  = flag.Float64("pos-jitter", defaultPosJitterPx, "Tap position noise amplitude in pixels")
		timeJitter = flag.Float64("time-jitter", defaultTimeJitterMs, "Tap timing noise amplitude in milliseconds")
		topN       = flag.Int("top", defaultTopN, "Number of leaderboard entries to print")
		queueSize  = flag.Int("queue", defaultQueueSize, "Result queue capacity")
		workers    = flag.Int("workers", runtime.NumCPU()*workerMultiplier, "Number of result workers")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	if err := simulate.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		Players:      *players,
		Rounds:       *rounds,
		Seed:         uint32(*seed), //nolint:gosec // G115: seeds beyond 32 bits wrap
		PosJitterPx:  *posJitter,
		TimeJitterMs: *timeJitter,
		TopN:         *topN,
		Verbose:      *verbose,
		ServiceOptions: []service.Option{
			service.WithQueueSize(*queueSize),
			service.WithWorkerCount(*workers),
			service.WithCalculatingDelay(0),
		},
	}

	if _, err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
