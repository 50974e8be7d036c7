package matchcenter

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/record"
	"github.com/mauv0809/cricket-hub/internal/stats"
)

type service struct {
	db         *sql.DB
	matches    *record.Store[Match, *Match]
	hub        *Hub
	pubsub     pubsub.PubSubClient
	metrics    metrics.Metrics
	instanceID string
	now        func() time.Time
	appendMu   sync.Mutex

	// deliverMu orders local and relayed deliveries against cursors.
	deliverMu sync.Mutex
	cursors   map[string]*cursor
}

// cursor is the furthest position delivered for a match and the ids
// delivered at that position. Extras share a position with the ball re-bowled.
type cursor struct {
	last stats.Delivery
	ids  map[string]struct{}
}

type Match struct {
	record.Meta
	FixtureID    string   `json:"fixture_id,omitempty"`
	Team1        string   `json:"team1"`
	Team2        string   `json:"team2"`
	BattingFirst string   `json:"batting_first"`
	Overs        int      `json:"overs"`
	Venue        string   `json:"venue,omitempty"`
	BattingOrder []string `json:"batting_order,omitempty"`
}

// BattingTeam returns the side batting in the given innings.
func (m *Match) BattingTeam(innings int) string {
	first, second := m.Team1, m.Team2
	if m.BattingFirst == m.Team2 {
		first, second = m.Team2, m.Team1
	}
	if innings%2 == 0 {
		return second
	}
	return first
}

type NewMatch struct {
	FixtureID    string   `json:"fixture_id"`
	Team1        string   `json:"team1" validate:"required"`
	Team2        string   `json:"team2" validate:"required,nefield=Team1"`
	BattingFirst string   `json:"batting_first"`
	Overs        int      `json:"overs" validate:"required,gte=1,lte=50"`
	Venue        string   `json:"venue"`
	BattingOrder []string `json:"batting_order"`
}

// Event is one delivery in a match log. It is stored and relayed as msgpack.
type Event struct {
	ID          string      `json:"id" msgpack:"id"`
	MatchID     string      `json:"match_id" msgpack:"match_id"`
	Innings     int         `json:"innings" msgpack:"innings"`
	Over        int         `json:"over" msgpack:"over"`
	Ball        int         `json:"ball" msgpack:"ball"`
	Batsman     string      `json:"batsman" msgpack:"batsman"`
	Bowler      string      `json:"bowler" msgpack:"bowler"`
	Runs        int         `json:"runs" msgpack:"runs"`
	Extras      int         `json:"extras" msgpack:"extras"`
	Extra       stats.Extra `json:"extra,omitempty" msgpack:"extra"`
	Wicket      bool        `json:"wicket" msgpack:"wicket"`
	Dismissal   string      `json:"dismissal,omitempty" msgpack:"dismissal"`
	Description string      `json:"description,omitempty" msgpack:"description"`
	Timestamp   time.Time   `json:"timestamp" msgpack:"timestamp"`
}

func (e Event) delivery() stats.Delivery {
	return stats.Delivery{
		Innings: e.Innings,
		Over:    e.Over,
		Ball:    e.Ball,
		Runs:    e.Runs,
		Extras:  e.Extras,
		Extra:   e.Extra,
		Wicket:  e.Wicket,
	}
}

type NewEvent struct {
	Innings     int         `json:"innings" validate:"gte=1,lte=2"`
	Over        int         `json:"over" validate:"gte=0"`
	Ball        int         `json:"ball" validate:"gte=1,lte=6"`
	Batsman     string      `json:"batsman"`
	Bowler      string      `json:"bowler"`
	Runs        int         `json:"runs" validate:"gte=0,lte=7"`
	Extras      int         `json:"extras" validate:"gte=0"`
	Extra       stats.Extra `json:"extra" validate:"omitempty,oneof=wide no-ball bye leg-bye"`
	Wicket      bool        `json:"wicket"`
	Dismissal   string      `json:"dismissal"`
	Description string      `json:"description"`
}

// RelayMessage carries an event between instances on the match-events topic.
type RelayMessage struct {
	Origin string `msgpack:"origin"`
	Event  Event  `msgpack:"event"`
}

type CommentaryKind string

const (
	KindDot    CommentaryKind = "dot"
	KindRuns   CommentaryKind = "runs"
	KindFour   CommentaryKind = "four"
	KindSix    CommentaryKind = "six"
	KindWicket CommentaryKind = "wicket"
	KindExtra  CommentaryKind = "extra"
)

type Commentary struct {
	EventID   string         `json:"event_id"`
	Innings   int            `json:"innings"`
	Over      string         `json:"over"`
	Kind      CommentaryKind `json:"kind"`
	Text      string         `json:"text"`
	Timestamp time.Time      `json:"timestamp"`
}

type LiveScore struct {
	MatchID     string `json:"match_id"`
	Team1       string `json:"team1"`
	Team2       string `json:"team2"`
	BattingTeam string `json:"batting_team,omitempty"`
	stats.Score
	LastEvent *Event `json:"last_event,omitempty"`
}
