package simulate

import (
	"context"
	"fmt"

	"github.com/okian/echotone/internal/adapters/leaderboard"
	service "github.com/okian/echotone/internal/app"
	"github.com/okian/echotone/pkg/logger"
)

// verifyBoards cross-checks the boards against the simulated field: every
// player must be ranked in every category, ranks must stay within the
// field, and each listing must come back in strictly ascending rank order.
func verifyBoards(ctx context.Context, svc *service.Service, players []string) error {
	for _, cat := range leaderboard.Categories() {
		for _, name := range players {
			entry, err := svc.Rank(ctx, cat, name)
			if err != nil {
				return fmt.Errorf("rank of %s in %s: %w", name, cat, err)
			}
			if entry.Rank < 1 || entry.Rank > len(players) {
				return fmt.Errorf("%w: player %s ranked %d in a field of %d", ErrRankOutOfRange, name, entry.Rank, len(players))
			}
		}

		entries, err := svc.TopN(ctx, cat, len(players))
		if err != nil {
			return fmt.Errorf("top %d of %s: %w", len(players), cat, err)
		}
		if len(entries) != len(players) {
			return fmt.Errorf("%w: category %s lists %d of %d", ErrMissingPlayers, cat, len(entries), len(players))
		}
		for i := 1; i < len(entries); i++ {
			if entries[i-1].Rank >= entries[i].Rank {
				return fmt.Errorf("%w: category %s at positions %d and %d", ErrUnsortedBoard, cat, i-1, i)
			}
		}
	}

	logger.Get().Debug(ctx, "board verification passed",
		logger.Int("players", len(players)),
		logger.Int("categories", len(leaderboard.Categories())),
	)
	return nil
}

// printBoards logs the final standing of every category.
func printBoards(ctx context.Context, svc *service.Service, topN int) {
	log := logger.Get()
	for _, cat := range leaderboard.Categories() {
		entries, err := svc.TopN(ctx, cat, topN)
		if err != nil {
			log.Error(ctx, "leaderboard read failed",
				logger.String("category", string(cat)),
				logger.Error(err),
			)
			continue
		}

		log.Info(ctx, "leaderboard",
			logger.String("category", string(cat)),
			logger.Int("entries", len(entries)),
		)
		for _, e := range entries {
			log.Info(ctx, "leaderboard entry",
				logger.String("category", string(cat)),
				logger.Int("rank", e.Rank),
				logger.String("playerID", e.PlayerID),
				logger.Int("round", e.Round),
				logger.Int("total", e.Total),
				logger.Int("position", e.Position),
				logger.Int("rhythm", e.Rhythm),
			)
		}
	}
}
