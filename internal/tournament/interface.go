package tournament

import (
	"context"
	"time"

	"github.com/mauv0809/cricket-hub/internal/stats"
)

// TournamentService manages tournaments, their registered teams and fixtures,
// and derives standings and statistics from completed fixtures.
type TournamentService interface {
	GetAllTournaments(ctx context.Context) ([]Tournament, error)
	GetTournament(ctx context.Context, id string) (*Tournament, error)
	GetTournamentsByOrganizer(ctx context.Context, organizerID string) ([]Tournament, error)
	CreateTournament(ctx context.Context, in NewTournament) (*Tournament, error)
	UpdateTournament(ctx context.Context, id string, patch TournamentPatch) (*Tournament, error)
	RegisterTeamForTournament(ctx context.Context, tournamentID string, team TeamRegistration) (*Tournament, error)
	UpdateTeamRegistrationStatus(ctx context.Context, tournamentID, teamID string, status TeamStatus) (*Tournament, error)

	GetTournamentFixtures(ctx context.Context, tournamentID string) ([]Fixture, error)
	GetFixture(ctx context.Context, id string) (*Fixture, error)
	GetFixturesForTeam(ctx context.Context, teamID string) ([]Fixture, error)
	CreateFixture(ctx context.Context, tournamentID string, in NewFixture) (*Fixture, error)
	UpdateFixtureStatus(ctx context.Context, fixtureID string, status FixtureStatus) (*Fixture, error)
	RecordFixtureResult(ctx context.Context, fixtureID string, in ResultInput) (*Fixture, error)
	MarkResultAnnounced(ctx context.Context, fixtureID string, at time.Time) error

	GetPointsTable(ctx context.Context, tournamentID string) (*PointsTable, error)
	GetTournamentLeaderboard(ctx context.Context, tournamentID string, board stats.BoardType) (*TournamentLeaderboard, error)
	GetTournamentStats(ctx context.Context, tournamentID string) (*TournamentStats, error)
}
