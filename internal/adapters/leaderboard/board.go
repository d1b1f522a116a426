// Package leaderboard defines the ranking board interface and errors.
package leaderboard

import (
	"context"

	"github.com/okian/echotone/internal/domain/model"
	"github.com/okian/echotone/internal/domain/types"
)

// Category selects which axis a ranking query is ordered by.
type Category string

const (
	// CategoryRound ranks players by the deepest round they reached,
	// breaking ties by the total score earned in that run.
	CategoryRound Category = "round"
	// CategoryTotal ranks players by their best total score, breaking
	// ties by the round it was earned in.
	CategoryTotal Category = "total"
)

// Categories lists the supported ranking categories in a stable order.
func Categories() []Category {
	return []Category{CategoryRound, CategoryTotal}
}

// Board provides read/write access to the ranking state.
type Board interface {
	// Submit records res in every category where it beats the player's
	// current best. Returns true if at least one category improved.
	Submit(ctx context.Context, res model.Result) (bool, error)

	// Rank returns the current row for a player in the given category.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, cat Category, playerID string) (types.Entry, error)

	// TopN returns the best n rows for a category, best first.
	TopN(ctx context.Context, cat Category, n int) ([]types.Entry, error)

	// Count returns the number of players tracked in a category.
	Count(ctx context.Context, cat Category) int

	// Close stops background maintenance goroutines.
	Close() error
}
