package simulate

import (
	"fmt"
	"os"

	"github.com/okian/echotone/pkg/logger"
)

// SetupLogging initializes the logger for the simulation tool, raising the
// level to debug when verbose output is requested.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}
	return nil
}

// ShowHelp displays usage information for the simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Echotone Simulation Tool
========================

Drives full matches through the engine with simulated players: sequences
are generated, replayed with configurable noise, scored, and ranked end
to end. With a nonzero seed the whole run is reproducible.

Usage:
  go run ./cmd/simulate [options]

Options:
  -players int
        Number of simulated players (default 5)
  -rounds int
        Rounds each player attempts (default 5)
  -seed uint
        Base seed for sequences and noise; 0 plays nondeterministically
  -pos-jitter float
        Tap position noise amplitude in pixels (default 40)
  -time-jitter float
        Tap timing noise amplitude in milliseconds (default 120)
  -top int
        Number of leaderboard entries to print (default 10)
  -queue int
        Result queue capacity (default 4096)
  -workers int
        Number of result workers (default CPU cores * 2)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run ./cmd/simulate

  # Reproducible tournament with sloppy players
  go run ./cmd/simulate -seed 42 -players 20 -pos-jitter 90 -time-jitter 250

  # Precise players over many rounds
  go run ./cmd/simulate -players 3 -rounds 10 -pos-jitter 10 -time-jitter 30
`)
}
