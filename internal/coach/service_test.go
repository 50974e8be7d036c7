package coach_test

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/coach"
	"github.com/mauv0809/cricket-hub/internal/config"
	"github.com/mauv0809/cricket-hub/internal/database"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deps struct {
	svc         coach.CoachService
	players     player.PlayerService
	tournaments tournament.TournamentService
	metrics     *metrics.Mock
}

func setupTestDB(t *testing.T) deps {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	m := metrics.NewMock()
	rankings := ranking.New(db)
	players := player.New(db, rankings, m)
	tournaments := tournament.New(db, players, rankings, pubsub.NewMock(""), m, config.DefaultScoring())
	return deps{
		svc:         coach.New(db, players, tournaments, m),
		players:     players,
		tournaments: tournaments,
		metrics:     m,
	}
}

func squadTeam(t *testing.T, svc coach.CoachService) *coach.Team {
	t.Helper()
	team, err := svc.CreateTeam(context.Background(), coach.NewTeam{
		Name: "Mumbai Strikers", City: "Mumbai", State: "Maharashtra", CoachID: "coach1",
		Players: []coach.NewTeamPlayer{
			{PlayerID: "p1", PlayerName: "Rohit", Role: coach.RoleBatsman, JerseyNumber: 45},
			{PlayerID: "p2", PlayerName: "Bumrah", Role: coach.RoleBowler, JerseyNumber: 93},
			{PlayerID: "p3", PlayerName: "Hardik", Role: coach.RoleAllRounder, JerseyNumber: 33},
			{PlayerID: "p4", PlayerName: "Ishan", Role: coach.RoleWicketKeeper, JerseyNumber: 32},
		},
	})
	require.NoError(t, err)
	return team
}

func TestCreateTeam(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	team := squadTeam(t, d.svc)
	assert.Len(t, team.Players, 4)
	assert.Equal(t, coach.PlayerActive, team.Players[0].Status)

	byCoach, err := d.svc.GetTeamsByCoach(ctx, "coach1")
	require.NoError(t, err)
	assert.Len(t, byCoach, 1)

	_, err = d.svc.CreateTeam(ctx, coach.NewTeam{
		Name: "Dupes", CoachID: "coach1",
		Players: []coach.NewTeamPlayer{
			{PlayerID: "x1", PlayerName: "A", Role: coach.RoleBatsman, JerseyNumber: 7},
			{PlayerID: "x2", PlayerName: "B", Role: coach.RoleBatsman, JerseyNumber: 7},
		},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = d.svc.CreateTeam(ctx, coach.NewTeam{
		Name: "Bad role", CoachID: "coach1",
		Players: []coach.NewTeamPlayer{{PlayerID: "x1", PlayerName: "A", Role: "umpire"}},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	byCoach, err = d.svc.GetTeamsByCoach(ctx, "coach1")
	require.NoError(t, err)
	assert.Len(t, byCoach, 1, "rejected creates must not persist")
}

func TestUpdateTeam_KeepsUnsetFields(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	team := squadTeam(t, d.svc)

	city := "Pune"
	_, err := d.svc.UpdateTeam(ctx, team.ID, coach.TeamPatch{City: &city})
	require.NoError(t, err)

	got, err := d.svc.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pune", got.City)
	assert.Equal(t, team.Name, got.Name)
	assert.Equal(t, team.State, got.State)
	assert.Equal(t, team.Players, got.Players)
	assert.Equal(t, 2, got.Version)

	_, err = d.svc.UpdateTeam(ctx, team.ID, coach.TeamPatch{City: &city, ExpectedVersion: 1})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = d.svc.UpdateTeam(ctx, "missing", coach.TeamPatch{City: &city})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddPlayerToTeam(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	team := squadTeam(t, d.svc)

	tests := []struct {
		name string
		in   coach.NewTeamPlayer
		want error
	}{
		{"taken jersey", coach.NewTeamPlayer{PlayerID: "p9", PlayerName: "New", Role: coach.RoleBowler, JerseyNumber: 45}, apperr.ErrValidation},
		{"already in team", coach.NewTeamPlayer{PlayerID: "p1", PlayerName: "Rohit", Role: coach.RoleBatsman, JerseyNumber: 99}, apperr.ErrInvalidState},
		{"missing name", coach.NewTeamPlayer{PlayerID: "p9", Role: coach.RoleBowler, JerseyNumber: 9}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.svc.AddPlayerToTeam(ctx, team.ID, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	updated, err := d.svc.AddPlayerToTeam(ctx, team.ID, coach.NewTeamPlayer{PlayerID: "p9", PlayerName: "New", Role: coach.RoleBowler, JerseyNumber: 9})
	require.NoError(t, err)
	assert.Len(t, updated.Players, 5)

	_, err = d.svc.AddPlayerToTeam(ctx, "missing", coach.NewTeamPlayer{PlayerID: "p9", PlayerName: "New", Role: coach.RoleBowler})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveAndStatus(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	team := squadTeam(t, d.svc)

	updated, err := d.svc.RemovePlayerFromTeam(ctx, team.ID, "p4")
	require.NoError(t, err)
	assert.Len(t, updated.Players, 3)

	same, err := d.svc.RemovePlayerFromTeam(ctx, team.ID, "nobody")
	require.NoError(t, err)
	assert.Equal(t, updated.Players, same.Players)

	_, err = d.svc.RemovePlayerFromTeam(ctx, "missing", "p1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = d.svc.UpdatePlayerStatus(ctx, team.ID, "p2", coach.PlayerInjured)
	require.NoError(t, err)
	_, err = d.svc.UpdatePlayerStatus(ctx, team.ID, "p4", coach.PlayerInjured)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = d.svc.UpdatePlayerStatus(ctx, team.ID, "p1", "retired")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	available, err := d.svc.GetAvailablePlayers(ctx, team.ID)
	require.NoError(t, err)
	var ids []string
	for _, p := range available {
		ids = append(ids, p.PlayerID)
	}
	assert.Equal(t, []string{"p1", "p3"}, ids)

	none, err := d.svc.GetAvailablePlayers(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateSquadSelection(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	team := squadTeam(t, d.svc)
	_, err := d.svc.UpdatePlayerStatus(ctx, team.ID, "p4", coach.PlayerSuspended)
	require.NoError(t, err)

	valid := func() coach.SquadSelectionInput {
		return coach.SquadSelectionInput{
			MatchID: "m1", TeamID: team.ID,
			SelectedPlayers: []string{"p1", "p2", "p3"},
			PlayingXI:       []string{"p1", "p2"},
			Captain:         "p1",
			ViceCaptain:     "p2",
		}
	}

	tests := []struct {
		name   string
		mutate func(*coach.SquadSelectionInput)
		want   error
	}{
		{"unknown team", func(in *coach.SquadSelectionInput) { in.TeamID = "missing" }, apperr.ErrNotFound},
		{"player outside team", func(in *coach.SquadSelectionInput) { in.SelectedPlayers = append(in.SelectedPlayers, "zz") }, apperr.ErrValidation},
		{"suspended player", func(in *coach.SquadSelectionInput) { in.SelectedPlayers = append(in.SelectedPlayers, "p4") }, apperr.ErrValidation},
		{"XI not selected", func(in *coach.SquadSelectionInput) {
			in.SelectedPlayers = []string{"p1", "p2"}
			in.PlayingXI = []string{"p1", "p3"}
		}, apperr.ErrValidation},
		{"captain outside XI", func(in *coach.SquadSelectionInput) { in.Captain = "p3" }, apperr.ErrValidation},
		{"same captain and vice", func(in *coach.SquadSelectionInput) { in.ViceCaptain = "p1" }, apperr.ErrValidation},
		{"duplicate in XI", func(in *coach.SquadSelectionInput) { in.PlayingXI = []string{"p1", "p1"} }, apperr.ErrValidation},
		{"more than eleven", func(in *coach.SquadSelectionInput) {
			in.PlayingXI = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
		}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := d.svc.CreateSquadSelection(ctx, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	sel, err := d.svc.CreateSquadSelection(ctx, valid())
	require.NoError(t, err)
	assert.Equal(t, "p1", sel.Captain)

	again := valid()
	again.Captain, again.ViceCaptain = "p2", "p1"
	replaced, err := d.svc.CreateSquadSelection(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, sel.ID, replaced.ID, "one selection per match and team")
	assert.Equal(t, 2, replaced.Version)

	got, err := d.svc.GetSquadSelection(ctx, "m1", team.ID)
	require.NoError(t, err)
	assert.Equal(t, "p2", got.Captain)
}

func TestMatchAnalysis(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	none, err := d.svc.GetMatchAnalysis(ctx, "m1", "t1")
	require.NoError(t, err)
	assert.Nil(t, none)

	in := coach.MatchAnalysisInput{MatchID: "m1", TeamID: "t1"}
	in.Analysis.Batting = coach.BattingAnalysis{TotalRuns: 165, Wickets: 7, Overs: 20}
	in.Analysis.Bowling = coach.BowlingAnalysis{TotalRuns: 140, Wickets: 10, Overs: 18.4}
	in.Analysis.KeyMoments = []coach.KeyMoment{{Description: "Late collapse", Impact: "negative"}}

	stored, err := d.svc.RecordMatchAnalysis(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 8.25, stored.Analysis.Batting.RunRate)
	assert.Equal(t, 7.5, stored.Analysis.Bowling.Economy)

	in.Recommendations = []string{"Rotate strike in middle overs"}
	updated, err := d.svc.RecordMatchAnalysis(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, updated.ID)

	got, err := d.svc.GetMatchAnalysis(ctx, "m1", "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rotate strike in middle overs"}, got.Recommendations)

	in.Analysis.KeyMoments[0].Impact = "huge"
	_, err = d.svc.RecordMatchAnalysis(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestGetPlayerPerformance(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	missing, err := d.svc.GetPlayerPerformance(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		_, err := d.players.RecordScorecard(ctx, &player.Scorecard{
			MatchID: "m" + string(rune('a'+i)), MatchDate: base.AddDate(0, 0, i),
			PlayerID: "p1", PlayerName: "Rohit",
			Batting:  &player.BattingLine{Runs: i * 10, Balls: 20},
			Fielding: &player.FieldingLine{Catches: i % 2},
		})
		require.NoError(t, err)
	}

	perf, err := d.svc.GetPlayerPerformance(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, perf.Matches)
	assert.Equal(t, []int{60, 50, 40, 30, 20}, perf.RecentForm.Runs, "latest five, newest first")
	assert.Equal(t, []int{0, 0, 0, 0, 0}, perf.RecentForm.Wickets)
	assert.Equal(t, []int{0, 1, 0, 1, 0}, perf.RecentForm.Catches)
	assert.Empty(t, perf.Strengths)
}

func TestGetTeamStats(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	empty, err := d.svc.GetTeamStats(ctx, "a")
	require.NoError(t, err)
	assert.True(t, empty.NoData)
	assert.Zero(t, empty.WinPercentage)

	start := time.Now().AddDate(0, 1, 0)
	tr, err := d.tournaments.CreateTournament(ctx, tournament.NewTournament{
		Name: "Cup", OrganizerID: "o1", StartDate: start, EndDate: start.AddDate(0, 1, 0),
		Format: tournament.FormatT20, MaxTeams: 4,
	})
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c"} {
		_, err := d.tournaments.RegisterTeamForTournament(ctx, tr.ID, tournament.TeamRegistration{TeamID: id, TeamName: id})
		require.NoError(t, err)
	}

	results := []struct {
		t1, t2 string
		in     tournament.ResultInput
	}{
		{"a", "b", tournament.ResultInput{ResultType: tournament.ResultNormal, WinnerID: "a", Team1Runs: 180, Team1Wickets: 4, Team1Overs: 20, Team2Runs: 150, Team2Wickets: 9, Team2Overs: 20}},
		{"c", "a", tournament.ResultInput{ResultType: tournament.ResultNormal, WinnerID: "c", Team1Runs: 170, Team1Wickets: 5, Team1Overs: 20, Team2Runs: 120, Team2Wickets: 10, Team2Overs: 17}},
		{"a", "c", tournament.ResultInput{ResultType: tournament.ResultTie, Team1Runs: 140, Team1Wickets: 8, Team1Overs: 20, Team2Runs: 140, Team2Wickets: 6, Team2Overs: 20}},
	}
	for _, r := range results {
		fx, err := d.tournaments.CreateFixture(ctx, tr.ID, tournament.NewFixture{Team1ID: r.t1, Team2ID: r.t2, ScheduledAt: start})
		require.NoError(t, err)
		_, err = d.tournaments.RecordFixtureResult(ctx, fx.ID, r.in)
		require.NoError(t, err)
	}
	_, err = d.tournaments.CreateFixture(ctx, tr.ID, tournament.NewFixture{Team1ID: "a", Team2ID: "b", ScheduledAt: start})
	require.NoError(t, err)

	st, err := d.svc.GetTeamStats(ctx, "a")
	require.NoError(t, err)
	assert.False(t, st.NoData)
	assert.Equal(t, 3, st.TotalMatches, "unplayed fixtures do not count")
	assert.Equal(t, 1, st.Wins)
	assert.Equal(t, 1, st.Losses)
	assert.Equal(t, 1, st.Draws)
	assert.Equal(t, 33.33, st.WinPercentage)
	assert.Equal(t, 440, st.TotalRuns)
	assert.Equal(t, 20, st.TotalWickets)
	assert.Equal(t, 146.67, st.AverageScore)
	require.NotNil(t, st.BestPerformance)
	assert.Equal(t, 180, st.BestPerformance.Score)
	assert.Equal(t, 9, st.BestPerformance.Wickets)
}
