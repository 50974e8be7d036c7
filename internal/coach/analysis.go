package coach

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/stats"
	"github.com/mauv0809/cricket-hub/internal/tournament"
)

const recentFormMatches = 5

// GetMatchAnalysis returns nil when no analysis was recorded for the pair.
func (s *service) GetMatchAnalysis(ctx context.Context, matchID, teamID string) (*MatchAnalysis, error) {
	analyses, err := s.analyses.List(ctx, "match_id", matchID)
	if err != nil {
		return nil, err
	}
	for i := range analyses {
		if analyses[i].TeamID == teamID {
			return &analyses[i], nil
		}
	}
	return nil, nil
}

// RecordMatchAnalysis stores the analysis for (match, team), replacing any
// earlier one. Run rate and economy are derived from runs and overs.
func (s *service) RecordMatchAnalysis(ctx context.Context, in MatchAnalysisInput) (*MatchAnalysis, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("RecordMatchAnalysis", err)
	}
	battingBalls, err := stats.BallsFromOvers(in.Analysis.Batting.Overs)
	if err != nil {
		return nil, s.reject("RecordMatchAnalysis", apperr.Validation("batting %v", err))
	}
	bowlingBalls, err := stats.BallsFromOvers(in.Analysis.Bowling.Overs)
	if err != nil {
		return nil, s.reject("RecordMatchAnalysis", apperr.Validation("bowling %v", err))
	}

	body := in.Analysis
	body.Batting.RunRate = stats.RunRate(body.Batting.TotalRuns, battingBalls)
	body.Bowling.Economy = stats.RunRate(body.Bowling.TotalRuns, bowlingBalls)
	recs := in.Recommendations
	if recs == nil {
		recs = []string{}
	}

	s.upsertMu.Lock()
	defer s.upsertMu.Unlock()

	existing, err := s.GetMatchAnalysis(ctx, in.MatchID, in.TeamID)
	if err != nil {
		return nil, err
	}
	var stored *MatchAnalysis
	if existing != nil {
		stored, err = s.analyses.Update(ctx, existing.ID, func(a *MatchAnalysis) error {
			a.Analysis = body
			a.Recommendations = recs
			return nil
		})
	} else {
		stored, err = s.analyses.Insert(ctx, &MatchAnalysis{
			MatchID:         in.MatchID,
			TeamID:          in.TeamID,
			Analysis:        body,
			Recommendations: recs,
		})
		if err == nil {
			s.metrics.IncRecordsCreated(analysisCollection)
		}
	}
	if err != nil {
		log.Error("Failed to store match analysis", "error", err, "matchID", in.MatchID)
		return nil, err
	}
	log.Info("Recorded match analysis", "matchID", stored.MatchID, "teamID", stored.TeamID, "version", stored.Version)
	return stored, nil
}

// GetPlayerPerformance returns nil for a player without scorecards.
func (s *service) GetPlayerPerformance(ctx context.Context, playerID string) (*PlayerPerformance, error) {
	cards, err := s.players.GetPlayerScorecards(ctx, playerID)
	if err != nil || len(cards) == 0 {
		return nil, err
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].MatchDate.After(cards[j].MatchDate)
	})
	matches := map[string]struct{}{}
	for _, c := range cards {
		matches[c.MatchID] = struct{}{}
	}

	perf := &PlayerPerformance{
		PlayerID:        playerID,
		PlayerName:      cards[0].PlayerName,
		Matches:         len(matches),
		RecentForm:      RecentForm{Runs: []int{}, Wickets: []int{}, Catches: []int{}},
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
	}
	for _, c := range cards[:min(recentFormMatches, len(cards))] {
		perf.RecentForm.Runs = append(perf.RecentForm.Runs, battingRuns(c))
		perf.RecentForm.Wickets = append(perf.RecentForm.Wickets, bowlingWickets(c))
		perf.RecentForm.Catches = append(perf.RecentForm.Catches, catches(c))
	}
	return perf, nil
}

func battingRuns(c player.Scorecard) int {
	if c.Batting == nil {
		return 0
	}
	return c.Batting.Runs
}

func bowlingWickets(c player.Scorecard) int {
	if c.Bowling == nil {
		return 0
	}
	return c.Bowling.Wickets
}

func catches(c player.Scorecard) int {
	if c.Fielding == nil {
		return 0
	}
	return c.Fielding.Catches
}

// GetTeamStats folds the team's completed tournament fixtures. Ties and
// no-results both count as draws.
func (s *service) GetTeamStats(ctx context.Context, teamID string) (*TeamStats, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveAggregationDuration("team_stats", time.Since(start).Seconds())
	}()

	fixtures, err := s.tournaments.GetFixturesForTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	out := &TeamStats{TeamID: teamID}
	for _, f := range fixtures {
		if f.Status != tournament.FixtureCompleted || f.Result == nil {
			continue
		}
		r := f.Result
		out.TotalMatches++
		switch {
		case r.ResultType != tournament.ResultNormal:
			out.Draws++
		case r.WinnerID == teamID:
			out.Wins++
		default:
			out.Losses++
		}

		runs, wicketsTaken := r.Team1Runs, r.Team2Wickets
		if f.Team2ID == teamID {
			runs, wicketsTaken = r.Team2Runs, r.Team1Wickets
		}
		out.TotalRuns += runs
		out.TotalWickets += wicketsTaken
		if out.BestPerformance == nil || runs > out.BestPerformance.Score {
			out.BestPerformance = &BestPerformance{MatchID: f.ID, Score: runs, Wickets: wicketsTaken}
		}
	}

	if out.TotalMatches == 0 {
		out.NoData = true
		return out, nil
	}
	out.WinPercentage = round2(float64(out.Wins) * 100 / float64(out.TotalMatches))
	out.AverageScore = round2(float64(out.TotalRuns) / float64(out.TotalMatches))
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
