package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/record"
	"github.com/mauv0809/cricket-hub/internal/stats"
)

type service struct {
	scorecards *record.Store[Scorecard, *Scorecard]
	rankings   ranking.RankingStore
	metrics    metrics.Metrics
	now        func() time.Time
	mu         sync.Mutex
}

type Period string

const (
	PeriodOverall Period = "overall"
	PeriodSeason  Period = "season"
	PeriodMonth   Period = "month"
	PeriodWeek    Period = "week"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodOverall, nil
	case PeriodOverall, PeriodSeason, PeriodMonth, PeriodWeek:
		return p, nil
	}
	return "", fmt.Errorf("unknown leaderboard period %q", s)
}

// Scorecard is one player's batting, bowling and fielding in one match. Any of
// the three lines is nil when the player took no part in that discipline.
type Scorecard struct {
	record.Meta
	MatchID    string        `json:"match_id" validate:"required"`
	MatchDate  time.Time     `json:"match_date"`
	PlayerID   string        `json:"player_id" validate:"required"`
	PlayerName string        `json:"player_name" validate:"required"`
	TeamID     string        `json:"team_id,omitempty"`
	TeamName   string        `json:"team_name,omitempty"`
	Batting    *BattingLine  `json:"batting,omitempty"`
	Bowling    *BowlingLine  `json:"bowling,omitempty"`
	Fielding   *FieldingLine `json:"fielding,omitempty"`
}

type BattingLine struct {
	Runs          int     `json:"runs" validate:"gte=0"`
	Balls         int     `json:"balls" validate:"gte=0"`
	Fours         int     `json:"fours" validate:"gte=0"`
	Sixes         int     `json:"sixes" validate:"gte=0"`
	StrikeRate    float64 `json:"strike_rate"`
	Dismissed     bool    `json:"dismissed"`
	DismissalType string  `json:"dismissal_type,omitempty" validate:"omitempty,oneof=bowled caught lbw run-out stumped hit-wicket"`
	DismissedBy   string  `json:"dismissed_by,omitempty"`
}

type BowlingLine struct {
	Overs   float64 `json:"overs" validate:"gte=0"`
	Maidens int     `json:"maidens" validate:"gte=0"`
	Runs    int     `json:"runs" validate:"gte=0"`
	Wickets int     `json:"wickets" validate:"gte=0,lte=10"`
	Economy float64 `json:"economy"`
}

type FieldingLine struct {
	Catches   int `json:"catches" validate:"gte=0"`
	Stumpings int `json:"stumpings" validate:"gte=0"`
	RunOuts   int `json:"run_outs" validate:"gte=0"`
}

type Leaderboard struct {
	ID        string                   `json:"id"`
	Title     string                   `json:"title"`
	Type      stats.BoardType          `json:"type"`
	Period    Period                   `json:"period"`
	Entries   []stats.LeaderboardEntry `json:"entries"`
	NoData    bool                     `json:"no_data"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// PlayerSummary is a search hit.
type PlayerSummary struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	TeamName   string `json:"team_name,omitempty"`
	Matches    int    `json:"matches"`
}
