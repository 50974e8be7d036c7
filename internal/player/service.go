package player

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/record"
	"github.com/mauv0809/cricket-hub/internal/stats"
)

const collection = "scorecards"

// New creates the player service over db.
func New(db *sql.DB, rankings ranking.RankingStore, m metrics.Metrics) PlayerService {
	return NewWithClock(db, rankings, m, time.Now)
}

// NewWithClock is New with an injectable clock for period-scoped leaderboards.
func NewWithClock(db *sql.DB, rankings ranking.RankingStore, m metrics.Metrics, now func() time.Time) PlayerService {
	return &service{
		scorecards: record.New[Scorecard](db, collection),
		rankings:   rankings,
		metrics:    m,
		now:        now,
	}
}

func (s *service) RecordScorecard(ctx context.Context, card *Scorecard) (*Scorecard, error) {
	if err := apperr.Validate(card); err != nil {
		return nil, s.reject("RecordScorecard", err)
	}
	if card.Batting == nil && card.Bowling == nil && card.Fielding == nil {
		return nil, s.reject("RecordScorecard", apperr.Validation("scorecard has no batting, bowling or fielding line"))
	}

	in := *card
	if b := in.Batting; b != nil {
		line := *b
		line.StrikeRate = 0
		if line.Balls > 0 {
			line.StrikeRate = round2(float64(line.Runs) * 100 / float64(line.Balls))
		}
		in.Batting = &line
	}
	if b := in.Bowling; b != nil {
		balls, err := stats.BallsFromOvers(b.Overs)
		if err != nil {
			return nil, s.reject("RecordScorecard", apperr.Validation("%v", err))
		}
		line := *b
		line.Economy = stats.RunRate(line.Runs, balls)
		in.Bowling = &line
	}
	if in.MatchDate.IsZero() {
		in.MatchDate = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.scorecards.List(ctx, "match_id", in.MatchID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.PlayerID == in.PlayerID {
			return nil, s.reject("RecordScorecard", apperr.InvalidState("player %s already has a scorecard for match %s", in.PlayerID, in.MatchID))
		}
	}

	stored, err := s.scorecards.Insert(ctx, &in)
	if err != nil {
		log.Error("Failed to record scorecard", "error", err, "playerID", in.PlayerID)
		return nil, err
	}
	s.metrics.IncRecordsCreated(collection)
	log.Info("Recorded scorecard", "scorecardID", stored.ID, "playerID", stored.PlayerID, "matchID", stored.MatchID)
	return stored, nil
}

func (s *service) GetPlayerScorecards(ctx context.Context, playerID string) ([]Scorecard, error) {
	return s.scorecards.List(ctx, "player_id", playerID)
}

func (s *service) ScorecardsForMatches(ctx context.Context, matchIDs []string) ([]Scorecard, error) {
	wanted := make(map[string]struct{}, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = struct{}{}
	}
	return s.scorecards.Filter(ctx, func(c *Scorecard) bool {
		_, ok := wanted[c.MatchID]
		return ok
	})
}

func (s *service) GetLeaderboard(ctx context.Context, board stats.BoardType, period Period) (*Leaderboard, error) {
	if _, err := stats.ParseBoardType(string(board)); err != nil {
		return nil, s.reject("GetLeaderboard", apperr.Validation("%v", err))
	}
	period, err := ParsePeriod(string(period))
	if err != nil {
		return nil, s.reject("GetLeaderboard", apperr.Validation("%v", err))
	}

	start := time.Now()
	defer func() {
		s.metrics.ObserveAggregationDuration("leaderboard", time.Since(start).Seconds())
	}()

	now := s.now().UTC()
	cards, err := s.scorecards.Filter(ctx, func(c *Scorecard) bool {
		return inPeriod(c.MatchDate, period, now)
	})
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("%s-%s", board, period)
	lb := &Leaderboard{
		ID:        id,
		Title:     title(board),
		Type:      board,
		Period:    period,
		Entries:   stats.Leaderboard(board, Lines(cards)),
		UpdatedAt: now,
	}
	if len(lb.Entries) == 0 {
		lb.NoData = true
		return lb, nil
	}

	previous, err := s.rankings.Rotate(ctx, "leaderboard:"+id, fingerprint(cards), stats.Ranks(lb.Entries))
	if err != nil {
		return nil, err
	}
	stats.ApplyLeaderboardChange(lb.Entries, previous)
	return lb, nil
}

func (s *service) SearchPlayers(ctx context.Context, query string) ([]PlayerSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []PlayerSummary{}, nil
	}

	cards, err := s.scorecards.All(ctx)
	if err != nil {
		return nil, err
	}

	players := map[string]*PlayerSummary{}
	matches := map[string]map[string]struct{}{}
	var names []string
	byName := map[string][]string{}
	for _, c := range cards {
		p, ok := players[c.PlayerID]
		if !ok {
			p = &PlayerSummary{PlayerID: c.PlayerID, PlayerName: c.PlayerName}
			players[c.PlayerID] = p
			matches[c.PlayerID] = map[string]struct{}{}
			if _, seen := byName[c.PlayerName]; !seen {
				names = append(names, c.PlayerName)
			}
			byName[c.PlayerName] = append(byName[c.PlayerName], c.PlayerID)
		}
		if c.TeamName != "" {
			p.TeamName = c.TeamName
		}
		matches[c.PlayerID][c.MatchID] = struct{}{}
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Stable(ranks)

	results := []PlayerSummary{}
	for _, r := range ranks {
		for _, id := range byName[r.Target] {
			p := *players[id]
			p.Matches = len(matches[id])
			results = append(results, p)
		}
	}
	log.Debug("Searched players", "query", query, "hits", len(results))
	return results, nil
}

func (s *service) reject(op string, err error) error {
	s.metrics.IncRejections(apperr.Reason(err))
	log.Warn("Rejected operation", "op", op, "error", err)
	return err
}

func inPeriod(at time.Time, period Period, now time.Time) bool {
	switch period {
	case PeriodSeason:
		return at.Year() == now.Year()
	case PeriodMonth:
		return !at.Before(now.AddDate(0, 0, -30))
	case PeriodWeek:
		return !at.Before(now.AddDate(0, 0, -7))
	}
	return true
}

func title(board stats.BoardType) string {
	name := string(board)
	return strings.ToUpper(name[:1]) + name[1:] + " Leaderboard"
}

func fingerprint(cards []Scorecard) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = fmt.Sprintf("%s:%d", c.ID, c.Version)
	}
	return ranking.Fingerprint(parts...)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
