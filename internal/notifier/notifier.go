package notifier

import (
	"context"

	"github.com/mauv0809/cricket-hub/internal/tournament"
)

// Notifier announces tournament events to a chat channel. It keeps the
// lifecycle processor independent of the chat provider.
type Notifier interface {
	// SendFixtureResult announces a completed fixture.
	SendFixtureResult(ctx context.Context, t *tournament.Tournament, f *tournament.Fixture, dryRun bool) error
	// SendPointsTable posts the current standings of a tournament.
	SendPointsTable(ctx context.Context, t *tournament.Tournament, table *tournament.PointsTable, dryRun bool) error
}
