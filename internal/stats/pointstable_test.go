package stats

import (
	"testing"

	"github.com/mauv0809/cricket-hub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func win(t1, t2 string, r1, r2 int) FixtureResult {
	winner := t1
	if r2 > r1 {
		winner = t2
	}
	return FixtureResult{
		Team1ID: t1, Team2ID: t2, Outcome: OutcomeNormal, WinnerID: winner,
		Team1Runs: r1, Team1Balls: 120, Team1Wickets: 5,
		Team2Runs: r2, Team2Balls: 120, Team2Wickets: 5,
	}
}

var leagueTeams = []TeamRef{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Bravo"}, {ID: "c", Name: "Charlie"}, {ID: "d", Name: "Delta"}, {ID: "e", Name: "Echo"}}

var leagueFixtures = []FixtureResult{
	win("a", "c", 180, 150),
	win("a", "d", 170, 160),
	win("b", "a", 160, 150),
	win("b", "d", 152, 140),
	win("c", "b", 170, 160),
}

func TestPointsTable_NetRunRateBreaksPointsTie(t *testing.T) {
	table := PointsTable(leagueTeams, leagueFixtures, config.DefaultScoring(), 120)
	require.Len(t, table, 5)

	a, b := table[0], table[1]
	assert.Equal(t, "a", a.TeamID)
	assert.Equal(t, "b", b.TeamID)
	assert.Equal(t, 4, a.Points)
	assert.Equal(t, 4, b.Points)
	assert.Equal(t, 2, a.Won)
	assert.Equal(t, 1, a.Lost)
	assert.Equal(t, 0.5, a.NetRunRate)
	assert.Equal(t, 0.2, b.NetRunRate)
	assert.Equal(t, 1, a.Position)
	assert.Equal(t, 2, b.Position)

	assert.Equal(t, "c", table[2].TeamID)
	assert.Equal(t, -0.5, table[2].NetRunRate)
	assert.Equal(t, "d", table[3].TeamID)
	assert.Equal(t, -0.55, table[3].NetRunRate)
}

func TestPointsTable_TeamWithoutMatches(t *testing.T) {
	table := PointsTable(leagueTeams, leagueFixtures, config.DefaultScoring(), 120)

	echo := table[4]
	assert.Equal(t, "e", echo.TeamID)
	assert.Zero(t, echo.Played)
	assert.Zero(t, echo.NetRunRate)
	assert.Equal(t, 5, echo.Position)
}

func TestPointsTable_IsIdempotent(t *testing.T) {
	first := PointsTable(leagueTeams, leagueFixtures, config.DefaultScoring(), 120)
	second := PointsTable(leagueTeams, leagueFixtures, config.DefaultScoring(), 120)
	assert.Equal(t, first, second)
}

func TestPointsTable_TieAndNoResult(t *testing.T) {
	teams := []TeamRef{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Bravo"}}
	fixtures := []FixtureResult{
		{Team1ID: "a", Team2ID: "b", Outcome: OutcomeTie, Team1Runs: 150, Team1Balls: 120, Team2Runs: 150, Team2Balls: 120},
		{Team1ID: "a", Team2ID: "b", Outcome: OutcomeNoResult, Team1Runs: 90, Team1Balls: 30},
	}
	scoring := config.ScoringConfig{Win: 2, Tie: 1, NoResult: 1}

	table := PointsTable(teams, fixtures, scoring, 120)
	for _, s := range table {
		assert.Equal(t, 2, s.Played)
		assert.Equal(t, 1, s.Tied)
		assert.Equal(t, 1, s.NoResult)
		assert.Equal(t, 2, s.Points)
		assert.Zero(t, s.NetRunRate, "abandoned fixture must not count toward net run rate")
	}
	assert.Equal(t, "a", table[0].TeamID, "equal teams fall back to name order")
}

func TestPointsTable_AllOutChargedFullQuota(t *testing.T) {
	teams := []TeamRef{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Bravo"}}
	fixtures := []FixtureResult{{
		Team1ID: "a", Team2ID: "b", Outcome: OutcomeNormal, WinnerID: "b",
		Team1Runs: 100, Team1Wickets: 10, Team1Balls: 90,
		Team2Runs: 101, Team2Wickets: 2, Team2Balls: 90,
	}}

	table := PointsTable(teams, fixtures, config.DefaultScoring(), 120)
	assert.Equal(t, "b", table[0].TeamID)
	assert.Equal(t, 1.733, table[0].NetRunRate)
	assert.Equal(t, -1.733, table[1].NetRunRate)
}

func TestPointsTable_IgnoresUnknownTeams(t *testing.T) {
	teams := []TeamRef{{ID: "a", Name: "Alpha"}}
	table := PointsTable(teams, []FixtureResult{win("a", "zz", 100, 90)}, config.DefaultScoring(), 120)
	require.Len(t, table, 1)
	assert.Zero(t, table[0].Played)
}

func TestPointsTable_WithdrawnTeamKeepsOpponentsResults(t *testing.T) {
	teams := append([]TeamRef(nil), leagueTeams...)
	teams[3].Withdrawn = true

	table := PointsTable(teams, leagueFixtures, config.DefaultScoring(), 120)
	require.Len(t, table, 4)
	full := PointsTable(leagueTeams, leagueFixtures, config.DefaultScoring(), 120)

	byID := map[string]Standing{}
	for i, st := range table {
		assert.NotEqual(t, "d", st.TeamID)
		assert.Equal(t, i+1, st.Position)
		byID[st.TeamID] = st
	}
	for _, st := range full {
		if st.TeamID == "d" {
			continue
		}
		got := byID[st.TeamID]
		assert.Equal(t, st.Played, got.Played, st.TeamID)
		assert.Equal(t, st.Points, got.Points, st.TeamID)
		assert.Equal(t, st.NetRunRate, got.NetRunRate, st.TeamID)
	}
	assert.Equal(t, 3, byID["a"].Played)
	assert.Equal(t, 3, byID["b"].Played)
}

func TestApplyChange(t *testing.T) {
	table := PointsTable(leagueTeams, leagueFixtures, config.DefaultScoring(), 120)
	ApplyChange(table, map[string]int{"a": 2, "b": 1})

	assert.Equal(t, 1, table[0].Change, "moved up from 2nd")
	assert.Equal(t, -1, table[1].Change, "dropped from 1st")
	assert.Zero(t, table[2].Change, "no previous position")
}
