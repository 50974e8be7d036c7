package ranking

import "context"

// RankingStore remembers the last two published rankings of every board so
// derived views can report position changes.
type RankingStore interface {
	// Rotate records current for board and returns the positions to diff
	// against. A repeated fingerprint returns the same previous positions
	// without rotating.
	Rotate(ctx context.Context, board, fingerprint string, current map[string]int) (map[string]int, error)
}
