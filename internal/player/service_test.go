package player_test

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/database"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (player.PlayerService, *metrics.Mock) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	m := metrics.NewMock()
	svc := player.NewWithClock(db, ranking.New(db), m, func() time.Time { return now })
	return svc, m
}

func bat(match, id, name string, runs, balls int, out bool, at time.Time) *player.Scorecard {
	return &player.Scorecard{
		MatchID: match, MatchDate: at, PlayerID: id, PlayerName: name, TeamName: "Mumbai Strikers",
		Batting: &player.BattingLine{Runs: runs, Balls: balls, Dismissed: out},
	}
}

func TestRecordScorecard_DerivesRates(t *testing.T) {
	svc, m := setupTestDB(t)
	ctx := context.Background()

	card := bat("m1", "p1", "Virat Sharma", 45, 30, true, now)
	card.Bowling = &player.BowlingLine{Overs: 3.4, Runs: 22, Wickets: 2}

	stored, err := svc.RecordScorecard(ctx, card)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, 150.0, stored.Batting.StrikeRate)
	assert.Equal(t, 6.0, stored.Bowling.Economy)
	assert.Equal(t, "2/22", stored.Bowling.Figures())
	assert.Equal(t, 1, m.RecordsCreated("scorecards"))
}

func TestRecordScorecard_Rejections(t *testing.T) {
	svc, m := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		card *player.Scorecard
		want error
	}{
		{"missing player", &player.Scorecard{MatchID: "m1", Batting: &player.BattingLine{}}, apperr.ErrValidation},
		{"no lines", &player.Scorecard{MatchID: "m1", PlayerID: "p1", PlayerName: "A"}, apperr.ErrValidation},
		{"bad overs", &player.Scorecard{MatchID: "m1", PlayerID: "p1", PlayerName: "A", Bowling: &player.BowlingLine{Overs: 2.7}}, apperr.ErrValidation},
		{"bad dismissal", &player.Scorecard{MatchID: "m1", PlayerID: "p1", PlayerName: "A", Batting: &player.BattingLine{DismissalType: "retired"}}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordScorecard(ctx, tt.card)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.RecordScorecard(ctx, bat("m1", "p1", "A", 10, 10, true, now))
	require.NoError(t, err)
	_, err = svc.RecordScorecard(ctx, bat("m1", "p1", "A", 10, 10, true, now))
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Equal(t, 4, m.Rejections("validation"))
}

func TestScorecardQueries(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()

	for _, c := range []*player.Scorecard{
		bat("m1", "p1", "A", 10, 10, true, now),
		bat("m1", "p2", "B", 20, 10, true, now),
		bat("m2", "p1", "A", 30, 10, true, now),
		bat("m3", "p1", "A", 40, 10, true, now),
	} {
		_, err := svc.RecordScorecard(ctx, c)
		require.NoError(t, err)
	}

	mine, err := svc.GetPlayerScorecards(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "m1", mine[0].MatchID)

	scoped, err := svc.ScorecardsForMatches(ctx, []string{"m1", "m3"})
	require.NoError(t, err)
	assert.Len(t, scoped, 3)

	none, err := svc.GetPlayerScorecards(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetLeaderboard_Periods(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()

	for _, c := range []*player.Scorecard{
		bat("m1", "p1", "Rohit", 80, 50, true, now.AddDate(-1, 0, 0)),
		bat("m2", "p2", "Shubman", 50, 40, true, now.AddDate(0, 0, -20)),
		bat("m3", "p3", "Hardik", 30, 15, true, now.AddDate(0, 0, -2)),
	} {
		_, err := svc.RecordScorecard(ctx, c)
		require.NoError(t, err)
	}

	tests := []struct {
		period player.Period
		want   []string
	}{
		{player.PeriodOverall, []string{"p1", "p2", "p3"}},
		{player.PeriodSeason, []string{"p2", "p3"}},
		{player.PeriodMonth, []string{"p2", "p3"}},
		{player.PeriodWeek, []string{"p3"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			lb, err := svc.GetLeaderboard(ctx, stats.BoardRuns, tt.period)
			require.NoError(t, err)
			var got []string
			for _, e := range lb.Entries {
				got = append(got, e.PlayerID)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "runs-"+string(tt.period), lb.ID)
		})
	}
}

func TestGetLeaderboard_RejectsUnknownBoardAndPeriod(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()

	for _, board := range []stats.BoardType{"", "sixes"} {
		_, err := svc.GetLeaderboard(ctx, board, player.PeriodOverall)
		assert.ErrorIs(t, err, apperr.ErrValidation, "board %q", board)
	}
	_, err := svc.GetLeaderboard(ctx, stats.BoardRuns, player.Period("decade"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	lb, err := svc.GetLeaderboard(ctx, stats.BoardRuns, "")
	require.NoError(t, err)
	assert.Equal(t, player.PeriodOverall, lb.Period)
}

func TestGetLeaderboard_EmptyAndChange(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()

	lb, err := svc.GetLeaderboard(ctx, stats.BoardWickets, player.PeriodOverall)
	require.NoError(t, err)
	assert.True(t, lb.NoData)
	assert.Empty(t, lb.Entries)

	_, err = svc.RecordScorecard(ctx, bat("m1", "p1", "Rohit", 40, 30, true, now))
	require.NoError(t, err)
	_, err = svc.RecordScorecard(ctx, bat("m1", "p2", "Shubman", 30, 30, true, now))
	require.NoError(t, err)

	lb, err = svc.GetLeaderboard(ctx, stats.BoardRuns, player.PeriodOverall)
	require.NoError(t, err)
	assert.Zero(t, lb.Entries[0].Change)

	_, err = svc.RecordScorecard(ctx, bat("m2", "p2", "Shubman", 60, 30, true, now))
	require.NoError(t, err)

	lb, err = svc.GetLeaderboard(ctx, stats.BoardRuns, player.PeriodOverall)
	require.NoError(t, err)
	require.Len(t, lb.Entries, 2)
	assert.Equal(t, "p2", lb.Entries[0].PlayerID)
	assert.Equal(t, 1, lb.Entries[0].Change)
	assert.Equal(t, -1, lb.Entries[1].Change)

	again, err := svc.GetLeaderboard(ctx, stats.BoardRuns, player.PeriodOverall)
	require.NoError(t, err)
	assert.Equal(t, lb.Entries, again.Entries, "re-reading an unchanged board must not rotate")
}

func TestSearchPlayers(t *testing.T) {
	svc, _ := setupTestDB(t)
	ctx := context.Background()

	for _, c := range []*player.Scorecard{
		bat("m1", "p1", "Rohit Verma", 10, 10, true, now),
		bat("m2", "p1", "Rohit Verma", 10, 10, true, now),
		bat("m1", "p2", "Rahul Iyer", 10, 10, true, now),
	} {
		_, err := svc.RecordScorecard(ctx, c)
		require.NoError(t, err)
	}

	hits, err := svc.SearchPlayers(ctx, "rohit")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "p1", hits[0].PlayerID)
	assert.Equal(t, 2, hits[0].Matches)

	hits, err = svc.SearchPlayers(ctx, "r")
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = svc.SearchPlayers(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestParsePeriod(t *testing.T) {
	p, err := player.ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, player.PeriodOverall, p)
	_, err = player.ParsePeriod("decade")
	assert.Error(t, err)
}
