package player

import (
	"context"

	"github.com/mauv0809/cricket-hub/internal/stats"
)

// PlayerService records per-match scorecards and derives player rankings from them.
type PlayerService interface {
	RecordScorecard(ctx context.Context, card *Scorecard) (*Scorecard, error)
	GetPlayerScorecards(ctx context.Context, playerID string) ([]Scorecard, error)
	ScorecardsForMatches(ctx context.Context, matchIDs []string) ([]Scorecard, error)
	GetLeaderboard(ctx context.Context, board stats.BoardType, period Period) (*Leaderboard, error)
	SearchPlayers(ctx context.Context, query string) ([]PlayerSummary, error)
}
