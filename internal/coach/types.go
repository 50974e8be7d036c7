package coach

import (
	"sync"
	"time"

	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/record"
	"github.com/mauv0809/cricket-hub/internal/tournament"
)

type service struct {
	teams       *record.Store[Team, *Team]
	analyses    *record.Store[MatchAnalysis, *MatchAnalysis]
	squads      *record.Store[SquadSelection, *SquadSelection]
	players     player.PlayerService
	tournaments tournament.TournamentService
	metrics     metrics.Metrics
	now         func() time.Time
	// upsertMu serialises the find-then-write of keyed upserts.
	upsertMu sync.Mutex
}

type Role string

const (
	RoleBatsman      Role = "batsman"
	RoleBowler       Role = "bowler"
	RoleAllRounder   Role = "all-rounder"
	RoleWicketKeeper Role = "wicket-keeper"
)

type PlayerStatus string

const (
	PlayerActive    PlayerStatus = "active"
	PlayerInjured   PlayerStatus = "injured"
	PlayerSuspended PlayerStatus = "suspended"
)

type Team struct {
	record.Meta
	Name    string       `json:"name"`
	City    string       `json:"city"`
	State   string       `json:"state"`
	Logo    string       `json:"logo,omitempty"`
	CoachID string       `json:"coach_id"`
	Players []TeamPlayer `json:"players"`
}

func (t *Team) player(playerID string) int {
	for i, p := range t.Players {
		if p.PlayerID == playerID {
			return i
		}
	}
	return -1
}

type TeamPlayer struct {
	PlayerID     string       `json:"player_id"`
	PlayerName   string       `json:"player_name"`
	Role         Role         `json:"role"`
	JerseyNumber int          `json:"jersey_number"`
	JoinedAt     time.Time    `json:"joined_at"`
	Status       PlayerStatus `json:"status"`
}

type NewTeam struct {
	Name    string          `json:"name" validate:"required"`
	City    string          `json:"city"`
	State   string          `json:"state"`
	Logo    string          `json:"logo"`
	CoachID string          `json:"coach_id" validate:"required"`
	Players []NewTeamPlayer `json:"players" validate:"dive"`
}

type NewTeamPlayer struct {
	PlayerID     string `json:"player_id" validate:"required"`
	PlayerName   string `json:"player_name" validate:"required"`
	Role         Role   `json:"role" validate:"required,oneof=batsman bowler all-rounder wicket-keeper"`
	JerseyNumber int    `json:"jersey_number" validate:"gte=0,lte=999"`
}

// TeamPatch lists the fields UpdateTeam may change; nil keeps the stored value.
type TeamPatch struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
	Logo            *string `json:"logo,omitempty"`
	CoachID         *string `json:"coach_id,omitempty" validate:"omitempty,min=1"`
	ExpectedVersion int     `json:"expected_version,omitempty"`
}

type MatchAnalysis struct {
	record.Meta
	MatchID         string       `json:"match_id"`
	TeamID          string       `json:"team_id"`
	Analysis        AnalysisBody `json:"analysis"`
	Recommendations []string     `json:"recommendations"`
}

type AnalysisBody struct {
	Batting    BattingAnalysis  `json:"batting"`
	Bowling    BowlingAnalysis  `json:"bowling"`
	Fielding   FieldingAnalysis `json:"fielding"`
	KeyMoments []KeyMoment      `json:"key_moments" validate:"dive"`
}

type PhaseScore struct {
	Runs    int `json:"runs" validate:"gte=0"`
	Wickets int `json:"wickets" validate:"gte=0,lte=10"`
}

type Partnership struct {
	Players []string `json:"players"`
	Runs    int      `json:"runs" validate:"gte=0"`
	Balls   int      `json:"balls" validate:"gte=0"`
}

type BattingAnalysis struct {
	TotalRuns    int           `json:"total_runs" validate:"gte=0"`
	Wickets      int           `json:"wickets" validate:"gte=0,lte=10"`
	Overs        float64       `json:"overs" validate:"gte=0"`
	RunRate      float64       `json:"run_rate"`
	Powerplay    PhaseScore    `json:"powerplay"`
	MiddleOvers  PhaseScore    `json:"middle_overs"`
	DeathOvers   PhaseScore    `json:"death_overs"`
	Partnerships []Partnership `json:"partnerships" validate:"dive"`
}

type BowlingAnalysis struct {
	TotalRuns  int     `json:"total_runs" validate:"gte=0"`
	Wickets    int     `json:"wickets" validate:"gte=0,lte=10"`
	Overs      float64 `json:"overs" validate:"gte=0"`
	Economy    float64 `json:"economy"`
	DotBalls   int     `json:"dot_balls" validate:"gte=0"`
	Boundaries int     `json:"boundaries" validate:"gte=0"`
	Extras     int     `json:"extras" validate:"gte=0"`
}

type FieldingAnalysis struct {
	Catches        int `json:"catches" validate:"gte=0"`
	Stumpings      int `json:"stumpings" validate:"gte=0"`
	RunOuts        int `json:"run_outs" validate:"gte=0"`
	DroppedCatches int `json:"dropped_catches" validate:"gte=0"`
}

type KeyMoment struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description" validate:"required"`
	Impact      string    `json:"impact" validate:"oneof=positive negative neutral"`
}

type MatchAnalysisInput struct {
	MatchID         string       `json:"match_id" validate:"required"`
	TeamID          string       `json:"team_id" validate:"required"`
	Analysis        AnalysisBody `json:"analysis"`
	Recommendations []string     `json:"recommendations"`
}

type RecentForm struct {
	Runs    []int `json:"runs"`
	Wickets []int `json:"wickets"`
	Catches []int `json:"catches"`
}

// PlayerPerformance summarises a player's scorecards. Strengths, weaknesses
// and recommendations come from an external analysis service and stay empty here.
type PlayerPerformance struct {
	PlayerID        string     `json:"player_id"`
	PlayerName      string     `json:"player_name"`
	Matches         int        `json:"matches"`
	RecentForm      RecentForm `json:"recent_form"`
	Strengths       []string   `json:"strengths"`
	Weaknesses      []string   `json:"weaknesses"`
	Recommendations []string   `json:"recommendations"`
}

type TeamStats struct {
	TeamID          string           `json:"team_id"`
	TotalMatches    int              `json:"total_matches"`
	Wins            int              `json:"wins"`
	Losses          int              `json:"losses"`
	Draws           int              `json:"draws"`
	WinPercentage   float64          `json:"win_percentage"`
	TotalRuns       int              `json:"total_runs"`
	TotalWickets    int              `json:"total_wickets"`
	AverageScore    float64          `json:"average_score"`
	BestPerformance *BestPerformance `json:"best_performance,omitempty"`
	NoData          bool             `json:"no_data"`
}

type BestPerformance struct {
	MatchID string `json:"match_id"`
	Score   int    `json:"score"`
	Wickets int    `json:"wickets"`
}

type SquadSelection struct {
	record.Meta
	MatchID         string   `json:"match_id"`
	TeamID          string   `json:"team_id"`
	SelectedPlayers []string `json:"selected_players"`
	PlayingXI       []string `json:"playing_xi"`
	Captain         string   `json:"captain"`
	ViceCaptain     string   `json:"vice_captain"`
}

type SquadSelectionInput struct {
	MatchID         string   `json:"match_id" validate:"required"`
	TeamID          string   `json:"team_id" validate:"required"`
	SelectedPlayers []string `json:"selected_players" validate:"required,min=1,unique"`
	PlayingXI       []string `json:"playing_xi" validate:"required,min=1,max=11,unique"`
	Captain         string   `json:"captain" validate:"required"`
	ViceCaptain     string   `json:"vice_captain" validate:"required,nefield=Captain"`
}
