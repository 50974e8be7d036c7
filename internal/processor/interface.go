package processor

import (
	"context"
	"time"

	"github.com/mauv0809/cricket-hub/internal/notifier"
	"github.com/mauv0809/cricket-hub/internal/tournament"
)

// Store is the part of the tournament service the processor drives.
type Store interface {
	GetAllTournaments(ctx context.Context) ([]tournament.Tournament, error)
	GetTournament(ctx context.Context, id string) (*tournament.Tournament, error)
	UpdateTournament(ctx context.Context, id string, patch tournament.TournamentPatch) (*tournament.Tournament, error)
	GetTournamentFixtures(ctx context.Context, tournamentID string) ([]tournament.Fixture, error)
	GetFixture(ctx context.Context, id string) (*tournament.Fixture, error)
	UpdateFixtureStatus(ctx context.Context, fixtureID string, status tournament.FixtureStatus) (*tournament.Fixture, error)
	MarkResultAnnounced(ctx context.Context, fixtureID string, at time.Time) error
	GetPointsTable(ctx context.Context, tournamentID string) (*tournament.PointsTable, error)
}

// Notifier is the announcement side of the processor.
type Notifier interface {
	notifier.Notifier
}
