package tournament

import (
	"fmt"
	"sync"
	"time"

	"github.com/mauv0809/cricket-hub/internal/config"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/ranking"
	"github.com/mauv0809/cricket-hub/internal/record"
	"github.com/mauv0809/cricket-hub/internal/stats"
)

type service struct {
	tournaments *record.Store[Tournament, *Tournament]
	fixtures    *record.Store[Fixture, *Fixture]
	players     player.PlayerService
	rankings    ranking.RankingStore
	pubsub      pubsub.PubSubClient
	metrics     metrics.Metrics
	scoring     config.ScoringConfig
	now         func() time.Time
	// fixtureMu serialises match number assignment.
	fixtureMu sync.Mutex
}

type Format string

const (
	FormatT20    Format = "T20"
	FormatODI    Format = "ODI"
	FormatTest   Format = "Test"
	FormatCustom Format = "Custom"
)

// DefaultOvers is the per-innings overs quota of the format. Test cricket has
// no quota; Custom must name one.
func (f Format) DefaultOvers() int {
	switch f {
	case FormatT20:
		return 20
	case FormatODI:
		return 50
	}
	return 0
}

type Status string

const (
	StatusUpcoming     Status = "upcoming"
	StatusRegistration Status = "registration"
	StatusOngoing      Status = "ongoing"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

type TeamStatus string

const (
	TeamPending   TeamStatus = "pending"
	TeamConfirmed TeamStatus = "confirmed"
	TeamWithdrawn TeamStatus = "withdrawn"
)

type Tournament struct {
	record.Meta
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	OrganizerID          string           `json:"organizer_id"`
	OrganizerName        string           `json:"organizer_name"`
	StartDate            time.Time        `json:"start_date"`
	EndDate              time.Time        `json:"end_date"`
	RegistrationDeadline time.Time        `json:"registration_deadline"`
	Format               Format           `json:"format"`
	OversPerInnings      int              `json:"overs_per_innings"`
	Status               Status           `json:"status"`
	MaxTeams             int              `json:"max_teams"`
	CurrentTeams         int              `json:"current_teams"`
	Teams                []TournamentTeam `json:"teams"`
	PrizePool            string           `json:"prize_pool,omitempty"`
	Location             string           `json:"location"`
	Rules                []string         `json:"rules,omitempty"`
}

// Team returns the registered team with the given id.
func (t *Tournament) Team(teamID string) (TournamentTeam, bool) {
	if i := t.teamIndex(teamID); i >= 0 {
		return t.Teams[i], true
	}
	return TournamentTeam{}, false
}

func (t *Tournament) teamIndex(teamID string) int {
	for i, team := range t.Teams {
		if team.TeamID == teamID {
			return i
		}
	}
	return -1
}

type TournamentTeam struct {
	TeamID       string     `json:"team_id"`
	TeamName     string     `json:"team_name"`
	Logo         string     `json:"logo,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
	Status       TeamStatus `json:"status"`
}

type NewTournament struct {
	Name                 string    `json:"name" validate:"required"`
	Description          string    `json:"description"`
	OrganizerID          string    `json:"organizer_id" validate:"required"`
	OrganizerName        string    `json:"organizer_name"`
	StartDate            time.Time `json:"start_date" validate:"required"`
	EndDate              time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	Format               Format    `json:"format" validate:"required,oneof=T20 ODI Test Custom"`
	OversPerInnings      int       `json:"overs_per_innings" validate:"gte=0"`
	Status               Status    `json:"status" validate:"omitempty,oneof=upcoming registration"`
	MaxTeams             int       `json:"max_teams" validate:"required,gte=2"`
	PrizePool            string    `json:"prize_pool"`
	Location             string    `json:"location"`
	Rules                []string  `json:"rules"`
}

// TournamentPatch lists the fields UpdateTournament may change. Nil fields
// keep their stored value. ExpectedVersion, when set, must match the stored version.
type TournamentPatch struct {
	Name                 *string    `json:"name,omitempty"`
	Description          *string    `json:"description,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Status               *Status    `json:"status,omitempty" validate:"omitempty,oneof=upcoming registration ongoing completed cancelled"`
	MaxTeams             *int       `json:"max_teams,omitempty" validate:"omitempty,gte=2"`
	PrizePool            *string    `json:"prize_pool,omitempty"`
	Location             *string    `json:"location,omitempty"`
	Rules                *[]string  `json:"rules,omitempty"`
	ExpectedVersion      int        `json:"expected_version,omitempty"`
}

type TeamStatusInput struct {
	Status TeamStatus `json:"status" validate:"required,oneof=pending confirmed withdrawn"`
}

type TeamRegistration struct {
	TeamID   string `json:"team_id" validate:"required"`
	TeamName string `json:"team_name" validate:"required"`
	Logo     string `json:"logo"`
}

type Round string

const (
	RoundGroup        Round = "group"
	RoundQuarterfinal Round = "quarterfinal"
	RoundSemifinal    Round = "semifinal"
	RoundFinal        Round = "final"
)

type FixtureStatus string

const (
	FixtureScheduled FixtureStatus = "scheduled"
	FixtureLive      FixtureStatus = "live"
	FixtureCompleted FixtureStatus = "completed"
	FixtureCancelled FixtureStatus = "cancelled"
	FixturePostponed FixtureStatus = "postponed"
)

type Fixture struct {
	record.Meta
	TournamentID      string        `json:"tournament_id"`
	MatchNumber       int           `json:"match_number"`
	Round             Round         `json:"round"`
	Team1ID           string        `json:"team1_id"`
	Team1Name         string        `json:"team1_name"`
	Team2ID           string        `json:"team2_id"`
	Team2Name         string        `json:"team2_name"`
	ScheduledAt       time.Time     `json:"scheduled_at"`
	Venue             string        `json:"venue"`
	Status            FixtureStatus `json:"status"`
	Result            *MatchResult  `json:"result,omitempty"`
	ResultAnnouncedAt *time.Time    `json:"result_announced_at,omitempty"`
}

// Involves reports whether teamID plays in the fixture.
func (f *Fixture) Involves(teamID string) bool {
	return f.Team1ID == teamID || f.Team2ID == teamID
}

type NewFixture struct {
	MatchNumber int       `json:"match_number" validate:"gte=0"`
	Round       Round     `json:"round" validate:"omitempty,oneof=group quarterfinal semifinal final"`
	Team1ID     string    `json:"team1_id" validate:"required"`
	Team2ID     string    `json:"team2_id" validate:"required,nefield=Team1ID"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Venue       string    `json:"venue"`
}

type ResultType string

const (
	ResultNormal   ResultType = "normal"
	ResultTie      ResultType = "tie"
	ResultNoResult ResultType = "no-result"
)

type MatchResult struct {
	ResultType    ResultType `json:"result_type"`
	WinnerID      string     `json:"winner_id,omitempty"`
	WinnerName    string     `json:"winner_name,omitempty"`
	Team1Runs     int        `json:"team1_runs"`
	Team1Wickets  int        `json:"team1_wickets"`
	Team1Overs    float64    `json:"team1_overs"`
	Team2Runs     int        `json:"team2_runs"`
	Team2Wickets  int        `json:"team2_wickets"`
	Team2Overs    float64    `json:"team2_overs"`
	ManOfTheMatch string     `json:"man_of_the_match,omitempty"`
	CompletedAt   time.Time  `json:"completed_at"`
}

func (r MatchResult) Team1Score() string {
	return fmt.Sprintf("%d/%d", r.Team1Runs, r.Team1Wickets)
}

func (r MatchResult) Team2Score() string {
	return fmt.Sprintf("%d/%d", r.Team2Runs, r.Team2Wickets)
}

type ResultInput struct {
	ResultType    ResultType `json:"result_type" validate:"required,oneof=normal tie no-result"`
	WinnerID      string     `json:"winner_id"`
	Team1Runs     int        `json:"team1_runs" validate:"gte=0"`
	Team1Wickets  int        `json:"team1_wickets" validate:"gte=0,lte=10"`
	Team1Overs    float64    `json:"team1_overs" validate:"gte=0"`
	Team2Runs     int        `json:"team2_runs" validate:"gte=0"`
	Team2Wickets  int        `json:"team2_wickets" validate:"gte=0,lte=10"`
	Team2Overs    float64    `json:"team2_overs" validate:"gte=0"`
	ManOfTheMatch string     `json:"man_of_the_match"`
}

type PointsTable struct {
	TournamentID string           `json:"tournament_id"`
	Standings    []stats.Standing `json:"standings"`
	NoData       bool             `json:"no_data"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type TournamentLeaderboard struct {
	TournamentID string                   `json:"tournament_id"`
	Type         stats.BoardType          `json:"type"`
	Entries      []stats.LeaderboardEntry `json:"entries"`
	NoData       bool                     `json:"no_data"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

type TournamentStats struct {
	TournamentID     string       `json:"tournament_id"`
	TotalMatches     int          `json:"total_matches"`
	CompletedMatches int          `json:"completed_matches"`
	UpcomingMatches  int          `json:"upcoming_matches"`
	TotalRuns        int          `json:"total_runs"`
	TotalWickets     int          `json:"total_wickets"`
	HighestScore     *TeamScore   `json:"highest_score,omitempty"`
	BestBowling      *BowlingFeat `json:"best_bowling,omitempty"`
	MostRuns         *PlayerTotal `json:"most_runs,omitempty"`
	MostWickets      *PlayerTotal `json:"most_wickets,omitempty"`
	NoData           bool         `json:"no_data"`
}

type TeamScore struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Score    string `json:"score"`
	Runs     int    `json:"runs"`
	MatchID  string `json:"match_id"`
}

type BowlingFeat struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Figures    string `json:"figures"`
	MatchID    string `json:"match_id"`
}

type PlayerTotal struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Value      int    `json:"value"`
}
