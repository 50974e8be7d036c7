package tournament

import (
	"context"
	"fmt"
	"time"

	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/stats"
)

// GetPointsTable returns nil for an unknown tournament.
func (s *service) GetPointsTable(ctx context.Context, tournamentID string) (*PointsTable, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveAggregationDuration("points_table", time.Since(start).Seconds())
	}()

	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil || t == nil {
		return nil, err
	}
	fixtures, err := s.fixtures.List(ctx, "tournament_id", t.ID)
	if err != nil {
		return nil, err
	}

	var teams []stats.TeamRef
	var parts []string
	for _, team := range t.Teams {
		teams = append(teams, stats.TeamRef{ID: team.TeamID, Name: team.TeamName, Withdrawn: team.Status == TeamWithdrawn})
		parts = append(parts, fmt.Sprintf("team:%s:%s", team.TeamID, team.Status))
	}

	var results []stats.FixtureResult
	for _, f := range fixtures {
		if f.Status != FixtureCompleted || f.Result == nil {
			continue
		}
		results = append(results, fixtureResult(f))
		parts = append(parts, fmt.Sprintf("fixture:%s:%d", f.ID, f.Version))
	}

	table := &PointsTable{
		TournamentID: t.ID,
		Standings:    stats.PointsTable(teams, results, s.scoring, t.OversPerInnings*stats.BallsPerOver),
		UpdatedAt:    s.now().UTC(),
	}
	if len(results) == 0 {
		table.NoData = true
		return table, nil
	}

	previous, err := s.rankings.Rotate(ctx, "points:"+t.ID, ranking.Fingerprint(parts...), stats.Positions(table.Standings))
	if err != nil {
		return nil, err
	}
	stats.ApplyChange(table.Standings, previous)
	return table, nil
}

func fixtureResult(f Fixture) stats.FixtureResult {
	r := f.Result
	b1, _ := stats.BallsFromOvers(r.Team1Overs)
	b2, _ := stats.BallsFromOvers(r.Team2Overs)
	outcome := stats.OutcomeNormal
	switch r.ResultType {
	case ResultTie:
		outcome = stats.OutcomeTie
	case ResultNoResult:
		outcome = stats.OutcomeNoResult
	}
	return stats.FixtureResult{
		Team1ID:      f.Team1ID,
		Team2ID:      f.Team2ID,
		Outcome:      outcome,
		WinnerID:     r.WinnerID,
		Team1Runs:    r.Team1Runs,
		Team1Wickets: r.Team1Wickets,
		Team1Balls:   b1,
		Team2Runs:    r.Team2Runs,
		Team2Wickets: r.Team2Wickets,
		Team2Balls:   b2,
	}
}

// GetTournamentLeaderboard returns nil for an unknown tournament.
func (s *service) GetTournamentLeaderboard(ctx context.Context, tournamentID string, board stats.BoardType) (*TournamentLeaderboard, error) {
	if board == stats.BoardCatches {
		return nil, s.reject("GetTournamentLeaderboard", apperr.Validation("tournament leaderboards do not rank %s", board))
	}
	if _, err := stats.ParseBoardType(string(board)); err != nil {
		return nil, s.reject("GetTournamentLeaderboard", apperr.Validation("%v", err))
	}

	start := time.Now()
	defer func() {
		s.metrics.ObserveAggregationDuration("tournament_leaderboard", time.Since(start).Seconds())
	}()

	t, cards, err := s.tournamentScorecards(ctx, tournamentID)
	if err != nil || t == nil {
		return nil, err
	}

	lb := &TournamentLeaderboard{
		TournamentID: t.ID,
		Type:         board,
		Entries:      stats.Leaderboard(board, player.Lines(cards)),
		UpdatedAt:    s.now().UTC(),
	}
	if len(lb.Entries) == 0 {
		lb.NoData = true
		return lb, nil
	}

	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("%s:%d", c.ID, c.Version)
	}
	previous, err := s.rankings.Rotate(ctx, fmt.Sprintf("tournament-leaderboard:%s:%s", t.ID, board), ranking.Fingerprint(parts...), stats.Ranks(lb.Entries))
	if err != nil {
		return nil, err
	}
	stats.ApplyLeaderboardChange(lb.Entries, previous)
	return lb, nil
}

// GetTournamentStats returns nil for an unknown tournament.
func (s *service) GetTournamentStats(ctx context.Context, tournamentID string) (*TournamentStats, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveAggregationDuration("tournament_stats", time.Since(start).Seconds())
	}()

	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil || t == nil {
		return nil, err
	}
	fixtures, err := s.fixtures.List(ctx, "tournament_id", t.ID)
	if err != nil {
		return nil, err
	}

	out := &TournamentStats{TournamentID: t.ID, TotalMatches: len(fixtures)}
	var matchIDs []string
	for _, f := range fixtures {
		matchIDs = append(matchIDs, f.ID)
		switch f.Status {
		case FixtureScheduled, FixturePostponed:
			out.UpcomingMatches++
		case FixtureCompleted:
			out.CompletedMatches++
		}
		if f.Status != FixtureCompleted || f.Result == nil {
			continue
		}
		r := f.Result
		out.TotalRuns += r.Team1Runs + r.Team2Runs
		out.TotalWickets += r.Team1Wickets + r.Team2Wickets
		for _, side := range []TeamScore{
			{TeamID: f.Team1ID, TeamName: f.Team1Name, Runs: r.Team1Runs, Score: r.Team1Score(), MatchID: f.ID},
			{TeamID: f.Team2ID, TeamName: f.Team2Name, Runs: r.Team2Runs, Score: r.Team2Score(), MatchID: f.ID},
		} {
			if out.HighestScore == nil || side.Runs > out.HighestScore.Runs {
				side := side
				out.HighestScore = &side
			}
		}
	}
	if out.CompletedMatches == 0 {
		out.NoData = true
		return out, nil
	}

	cards, err := s.players.ScorecardsForMatches(ctx, matchIDs)
	if err != nil {
		return nil, err
	}
	runs := map[string]*PlayerTotal{}
	wickets := map[string]*PlayerTotal{}
	var order []string
	var best *player.Scorecard
	for i, c := range cards {
		if _, ok := runs[c.PlayerID]; !ok {
			runs[c.PlayerID] = &PlayerTotal{PlayerID: c.PlayerID, PlayerName: c.PlayerName}
			wickets[c.PlayerID] = &PlayerTotal{PlayerID: c.PlayerID, PlayerName: c.PlayerName}
			order = append(order, c.PlayerID)
		}
		if c.Batting != nil {
			runs[c.PlayerID].Value += c.Batting.Runs
		}
		if c.Bowling != nil {
			wickets[c.PlayerID].Value += c.Bowling.Wickets
			if betterFigures(c.Bowling, best) {
				best = &cards[i]
			}
		}
	}
	out.MostRuns = topTotal(order, runs)
	out.MostWickets = topTotal(order, wickets)
	if best != nil {
		out.BestBowling = &BowlingFeat{
			PlayerID:   best.PlayerID,
			PlayerName: best.PlayerName,
			Figures:    best.Bowling.Figures(),
			MatchID:    best.MatchID,
		}
	}
	return out, nil
}

func (s *service) tournamentScorecards(ctx context.Context, tournamentID string) (*Tournament, []player.Scorecard, error) {
	t, err := s.tournaments.Get(ctx, tournamentID)
	if err != nil || t == nil {
		return nil, nil, err
	}
	fixtures, err := s.fixtures.List(ctx, "tournament_id", t.ID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, len(fixtures))
	for i, f := range fixtures {
		ids[i] = f.ID
	}
	cards, err := s.players.ScorecardsForMatches(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return t, cards, nil
}

func betterFigures(b *player.BowlingLine, best *player.Scorecard) bool {
	if b.Wickets == 0 && b.Runs == 0 {
		return false
	}
	if best == nil {
		return true
	}
	if b.Wickets != best.Bowling.Wickets {
		return b.Wickets > best.Bowling.Wickets
	}
	return b.Runs < best.Bowling.Runs
}

func topTotal(order []string, totals map[string]*PlayerTotal) *PlayerTotal {
	var top *PlayerTotal
	for _, id := range order {
		t := totals[id]
		if t.Value > 0 && (top == nil || t.Value > top.Value) {
			top = t
		}
	}
	return top
}
