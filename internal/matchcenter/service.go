package matchcenter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/record"
	"github.com/mauv0809/cricket-hub/internal/stats"
	"github.com/vmihailenco/msgpack/v5"
)

const matchCollection = "matches"

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithHub shares a hub between services, mostly useful in tests.
func WithHub(h *Hub) Option {
	return func(s *service) { s.hub = h }
}

func New(db *sql.DB, ps pubsub.PubSubClient, m metrics.Metrics, instanceID string, opts ...Option) MatchCenterService {
	s := &service{
		db:         db,
		matches:    record.New[Match](db, matchCollection),
		hub:        NewHub(),
		pubsub:     ps,
		metrics:    m,
		instanceID: instanceID,
		now:        time.Now,
		cursors:    make(map[string]*cursor),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) SetupMatch(ctx context.Context, in NewMatch) (*Match, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("SetupMatch", err)
	}
	battingFirst := in.BattingFirst
	if battingFirst == "" {
		battingFirst = in.Team1
	}
	if battingFirst != in.Team1 && battingFirst != in.Team2 {
		return nil, s.reject("SetupMatch", apperr.Validation("batting side %s is not playing", battingFirst))
	}

	created, err := s.matches.Insert(ctx, &Match{
		FixtureID:    in.FixtureID,
		Team1:        in.Team1,
		Team2:        in.Team2,
		BattingFirst: battingFirst,
		Overs:        in.Overs,
		Venue:        in.Venue,
		BattingOrder: in.BattingOrder,
	})
	if err != nil {
		log.Error("Failed to set up match", "error", err, "fixtureID", in.FixtureID)
		return nil, err
	}
	s.metrics.IncRecordsCreated(matchCollection)
	log.Info("Set up match", "matchID", created.ID, "team1", created.Team1, "team2", created.Team2, "overs", created.Overs)
	return created, nil
}

func (s *service) GetMatch(ctx context.Context, id string) (*Match, error) {
	return s.matches.Get(ctx, id)
}

// PublishEvent appends to the match log and delivers the event locally and to
// other instances. Appends for all matches are serialized so subscribers see
// log order.
func (s *service) PublishEvent(ctx context.Context, matchID string, in NewEvent) (*Event, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, s.reject("PublishEvent", err)
	}
	match, err := s.matches.Require(ctx, matchID)
	if err != nil {
		return nil, s.reject("PublishEvent", err)
	}
	if in.Over >= match.Overs {
		return nil, s.reject("PublishEvent", apperr.Validation("over %d is outside a %d over innings", in.Over, match.Overs))
	}

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	ev := Event{
		ID:          uuid.NewString(),
		MatchID:     matchID,
		Innings:     in.Innings,
		Over:        in.Over,
		Ball:        in.Ball,
		Batsman:     in.Batsman,
		Bowler:      in.Bowler,
		Runs:        in.Runs,
		Extras:      in.Extras,
		Extra:       in.Extra,
		Wicket:      in.Wicket,
		Dismissal:   in.Dismissal,
		Description: in.Description,
		Timestamp:   s.now().UTC(),
	}
	last, err := s.lastEvent(ctx, matchID)
	if err != nil {
		return nil, s.reject("PublishEvent", err)
	}
	if last != nil && ev.delivery().Before(last.delivery()) {
		return nil, s.reject("PublishEvent", apperr.InvalidState(
			"event %d.%d.%d is before last event %d.%d.%d",
			ev.Innings, ev.Over, ev.Ball, last.Innings, last.Over, last.Ball))
	}
	if err := s.appendEvent(ctx, ev); err != nil {
		log.Error("Failed to append match event", "error", err, "matchID", matchID)
		return nil, err
	}

	s.deliver(ev)
	s.metrics.IncLiveEventsPublished()
	if err := s.pubsub.SendOrderedMessage(pubsub.EventMatchEvent, matchID, RelayMessage{Origin: s.instanceID, Event: ev}); err != nil {
		log.Warn("Failed to relay match event", "error", err, "matchID", matchID, "eventID", ev.ID)
	}
	log.Debug("Published match event", "matchID", matchID, "innings", ev.Innings, "over", ev.Over, "ball", ev.Ball)
	return &ev, nil
}

func (s *service) appendEvent(ctx context.Context, ev Event) error {
	blob, err := msgpack.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO match_events (id, match_id, innings, over_number, ball_number, event_blob, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.MatchID, ev.Innings, ev.Over, ev.Ball, blob, ev.Timestamp.Unix())
	return err
}

func (s *service) lastEvent(ctx context.Context, matchID string) (*Event, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT event_blob FROM match_events WHERE match_id = ? ORDER BY seq DESC LIMIT 1`, matchID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeEvent(blob)
}

func decodeEvent(blob []byte) (*Event, error) {
	var ev Event
	if err := msgpack.Unmarshal(blob, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	ev.Timestamp = ev.Timestamp.UTC()
	return &ev, nil
}

// GetMatchEvents returns the log in append order.
func (s *service) GetMatchEvents(ctx context.Context, matchID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_blob FROM match_events WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		ev, err := decodeEvent(blob)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// GetLiveCommentary returns commentary newest first. A limit of zero or less returns everything.
func (s *service) GetLiveCommentary(ctx context.Context, matchID string, limit int) ([]Commentary, error) {
	events, err := s.GetMatchEvents(ctx, matchID)
	if err != nil {
		return nil, err
	}
	out := make([]Commentary, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, commentary(events[i]))
	}
	return out, nil
}

func commentary(e Event) Commentary {
	c := Commentary{
		EventID:   e.ID,
		Innings:   e.Innings,
		Over:      fmt.Sprintf("%d.%d", e.Over, e.Ball),
		Timestamp: e.Timestamp,
	}
	var what string
	switch {
	case e.Wicket:
		c.Kind, what = KindWicket, "OUT"
		if e.Dismissal != "" {
			what += ", " + e.Dismissal
		}
	case e.Extra != stats.ExtraNone:
		c.Kind, what = KindExtra, fmt.Sprintf("%s, %s", e.Extra, plural(e.Runs+e.Extras, "run"))
	case e.Runs == 6:
		c.Kind, what = KindSix, "SIX"
	case e.Runs == 4:
		c.Kind, what = KindFour, "FOUR"
	case e.Runs == 0:
		c.Kind, what = KindDot, "no run"
	default:
		c.Kind, what = KindRuns, plural(e.Runs, "run")
	}
	c.Text = what
	if e.Bowler != "" && e.Batsman != "" {
		c.Text = fmt.Sprintf("%s to %s, %s", e.Bowler, e.Batsman, what)
	}
	if e.Description != "" {
		c.Text += ". " + e.Description
	}
	return c
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func (s *service) GetLiveScore(ctx context.Context, matchID string) (*LiveScore, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveAggregationDuration("live_score", time.Since(start).Seconds()) }()

	match, err := s.matches.Require(ctx, matchID)
	if err != nil {
		return nil, s.reject("GetLiveScore", err)
	}
	events, err := s.GetMatchEvents(ctx, matchID)
	if err != nil {
		return nil, err
	}
	deliveries := make([]stats.Delivery, len(events))
	for i, e := range events {
		deliveries[i] = e.delivery()
	}

	score := &LiveScore{
		MatchID: match.ID,
		Team1:   match.Team1,
		Team2:   match.Team2,
		Score:   stats.ReduceScore(deliveries, match.Overs*stats.BallsPerOver),
	}
	if len(events) > 0 {
		score.BattingTeam = match.BattingTeam(score.CurrentInnings)
		score.LastEvent = &events[len(events)-1]
	}
	return score, nil
}

func (s *service) Subscribe(matchID string, onEvent func(Event)) func() {
	unsubscribe := s.hub.Subscribe(matchID, onEvent)
	s.metrics.IncLiveSubscribers()
	log.Debug("Live subscriber joined", "matchID", matchID)

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			s.metrics.DecLiveSubscribers()
			log.Debug("Live subscriber left", "matchID", matchID)
		})
	}
}

// ReceiveRelayed hands an event published on another instance to local
// subscribers. Messages this instance sent itself are ignored, as are
// redeliveries and events behind what subscribers of the match already saw.
func (s *service) ReceiveRelayed(ctx context.Context, msg RelayMessage) error {
	if msg.Origin == s.instanceID {
		return nil
	}
	if msg.Event.MatchID == "" || msg.Event.ID == "" {
		return s.reject("ReceiveRelayed", apperr.Validation("relayed event is missing its match or id"))
	}
	msg.Event.Timestamp = msg.Event.Timestamp.UTC()
	if !s.deliver(msg.Event) {
		log.Debug("Dropped stale relayed match event", "matchID", msg.Event.MatchID, "eventID", msg.Event.ID, "origin", msg.Origin)
		return nil
	}
	log.Debug("Delivered relayed match event", "matchID", msg.Event.MatchID, "origin", msg.Origin)
	return nil
}

// deliver publishes ev to the hub unless it was already delivered or falls
// behind the match cursor.
func (s *service) deliver(ev Event) bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	pos := ev.delivery()
	c, ok := s.cursors[ev.MatchID]
	switch {
	case !ok:
		c = &cursor{last: pos, ids: map[string]struct{}{}}
		s.cursors[ev.MatchID] = c
	case pos.Before(c.last):
		return false
	case c.last.Before(pos):
		c.last = pos
		c.ids = map[string]struct{}{}
	}
	if _, seen := c.ids[ev.ID]; seen {
		return false
	}
	c.ids[ev.ID] = struct{}{}
	s.hub.Publish(ev)
	return true
}

func (s *service) reject(op string, err error) error {
	if apperr.IsRejection(err) || apperr.Reason(err) == "not_found" {
		s.metrics.IncRejections(apperr.Reason(err))
		log.Warn("Rejected operation", "op", op, "error", err)
	} else {
		log.Error("Operation failed", "op", op, "error", err)
	}
	return err
}
