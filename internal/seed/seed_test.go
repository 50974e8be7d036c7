package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/cricket-hub/internal/academy"
	"github.com/mauv0809/cricket-hub/internal/coach"
	"github.com/mauv0809/cricket-hub/internal/config"
	"github.com/mauv0809/cricket-hub/internal/database"
	"github.com/mauv0809/cricket-hub/internal/matchcenter"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/seed"
	"github.com/mauv0809/cricket-hub/internal/stats"
	"github.com/mauv0809/cricket-hub/internal/tournament"
	"github.com/mauv0809/cricket-hub/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	m := metrics.NewMock()
	ps := pubsub.NewMock("")
	rankings := ranking.New(db)
	players := player.New(db, rankings, m)
	tournaments := tournament.New(db, players, rankings, ps, m, config.DefaultScoring())
	svc := seed.Services{
		Academy:     academy.New(db, m),
		Coach:       coach.New(db, players, tournaments, m),
		Tournament:  tournaments,
		Player:      players,
		MatchCenter: matchcenter.New(db, ps, m, "seed-test"),
		User:        user.New(db, m),
	}
	ctx := context.Background()

	report, err := seed.Run(ctx, svc, time.Now())
	require.NoError(t, err)
	assert.False(t, report.Skipped)
	assert.Equal(t, 6, report.Fixtures)
	assert.Equal(t, 6, report.Scorecards)
	assert.Equal(t, 7, report.Deliveries)

	seeded, err := tournaments.GetTournament(ctx, report.TournamentID)
	require.NoError(t, err)
	assert.Equal(t, report.OrganizerID, seeded.OrganizerID)
	organizer, err := svc.User.GetUser(ctx, report.OrganizerID)
	require.NoError(t, err)
	require.NotNil(t, organizer)
	assert.Equal(t, user.RoleTournament, organizer.Role)
	for _, team := range seeded.Teams {
		assert.Equal(t, tournament.TeamConfirmed, team.Status, team.TeamID)
	}

	table, err := tournaments.GetPointsTable(ctx, report.TournamentID)
	require.NoError(t, err)
	require.False(t, table.NoData)
	require.Len(t, table.Standings, 4)
	assert.Equal(t, 2, table.Standings[0].Points)

	board, err := players.GetLeaderboard(ctx, stats.BoardRuns, player.PeriodOverall)
	require.NoError(t, err)
	require.NotEmpty(t, board.Entries)
	assert.Equal(t, "Aditya Rao", board.Entries[0].PlayerName)

	score, err := svc.MatchCenter.GetLiveScore(ctx, report.MatchID)
	require.NoError(t, err)
	require.Len(t, score.Innings, 1)
	assert.Equal(t, 14, score.Innings[0].Runs)
	assert.Equal(t, 1, score.Innings[0].Wickets)
	assert.Equal(t, "Kings XI", score.BattingTeam)

	academyStats, err := svc.Academy.GetAcademyStats(ctx, report.AcademyID)
	require.NoError(t, err)
	assert.Equal(t, 3, academyStats.TotalStudents)
	assert.Equal(t, 1, academyStats.UpcomingSessions)
	assert.Equal(t, 66.67, academyStats.AverageAttendance)

	again, err := seed.Run(ctx, svc, time.Now())
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	all, err := tournaments.GetAllTournaments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
