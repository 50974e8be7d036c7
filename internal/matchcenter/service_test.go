package matchcenter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/database"
	"github.com/mauv0809/cricket-hub/internal/matchcenter"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instanceID = "instance-a"

var now = time.Date(2026, 5, 10, 14, 30, 0, 0, time.UTC)

type deps struct {
	svc     matchcenter.MatchCenterService
	pubsub  *pubsub.MockPubSubClient
	metrics *metrics.Mock
}

func setupTestDB(t *testing.T) deps {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)

	ps := pubsub.NewMock("")
	m := metrics.NewMock()
	svc := matchcenter.New(db, ps, m, instanceID, matchcenter.WithClock(func() time.Time { return now }))
	return deps{svc: svc, pubsub: ps, metrics: m}
}

func setupMatch(t *testing.T, svc matchcenter.MatchCenterService) *matchcenter.Match {
	t.Helper()
	m, err := svc.SetupMatch(context.Background(), matchcenter.NewMatch{Team1: "Mumbai", Team2: "Chennai", Overs: 1})
	require.NoError(t, err)
	return m
}

// oneOverMatch is a one over a side game: Mumbai make 14/1, Chennai are 5/0 after two balls.
var oneOverMatch = []matchcenter.NewEvent{
	{Innings: 1, Over: 0, Ball: 1, Bowler: "Chahar", Batsman: "Rohit", Runs: 4},
	{Innings: 1, Over: 0, Ball: 2, Bowler: "Chahar", Batsman: "Rohit", Extras: 1, Extra: stats.ExtraWide},
	{Innings: 1, Over: 0, Ball: 2, Bowler: "Chahar", Batsman: "Rohit"},
	{Innings: 1, Over: 0, Ball: 3, Bowler: "Chahar", Batsman: "Rohit", Runs: 1},
	{Innings: 1, Over: 0, Ball: 4, Bowler: "Chahar", Batsman: "Ishan", Runs: 6},
	{Innings: 1, Over: 0, Ball: 5, Bowler: "Chahar", Batsman: "Ishan", Wicket: true, Dismissal: "bowled"},
	{Innings: 1, Over: 0, Ball: 6, Bowler: "Chahar", Batsman: "Surya", Runs: 2},
	{Innings: 2, Over: 0, Ball: 1, Bowler: "Bumrah", Batsman: "Gaikwad", Runs: 4},
	{Innings: 2, Over: 0, Ball: 2, Bowler: "Bumrah", Batsman: "Gaikwad", Runs: 1},
}

func publishAll(t *testing.T, svc matchcenter.MatchCenterService, matchID string) []*matchcenter.Event {
	t.Helper()
	var out []*matchcenter.Event
	for _, in := range oneOverMatch {
		ev, err := svc.PublishEvent(context.Background(), matchID, in)
		require.NoError(t, err)
		out = append(out, ev)
	}
	return out
}

func TestSetupMatch(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	m := setupMatch(t, d.svc)
	assert.Equal(t, "Mumbai", m.BattingFirst)
	assert.Equal(t, "Chennai", m.BattingTeam(2))

	tests := []struct {
		name string
		in   matchcenter.NewMatch
	}{
		{"same teams", matchcenter.NewMatch{Team1: "Mumbai", Team2: "Mumbai", Overs: 20}},
		{"stranger batting", matchcenter.NewMatch{Team1: "Mumbai", Team2: "Chennai", BattingFirst: "Delhi", Overs: 20}},
		{"no overs", matchcenter.NewMatch{Team1: "Mumbai", Team2: "Chennai"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.svc.SetupMatch(ctx, tt.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestPublishEvent(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	m := setupMatch(t, d.svc)

	var received []matchcenter.Event
	unsubscribe := d.svc.Subscribe(m.ID, func(e matchcenter.Event) { received = append(received, e) })
	assert.Equal(t, 1, d.metrics.LiveSubscribers())

	published := publishAll(t, d.svc, m.ID)

	events, err := d.svc.GetMatchEvents(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, events, len(oneOverMatch))
	for i, ev := range events {
		assert.Equal(t, *published[i], ev)
		assert.Equal(t, ev, received[i])
	}
	assert.Equal(t, now, events[0].Timestamp)
	assert.Equal(t, len(oneOverMatch), d.metrics.LiveEventsPublished())

	relayed := d.pubsub.SentTo(pubsub.EventMatchEvent)
	require.Len(t, relayed, len(oneOverMatch))
	msg, ok := relayed[0].(matchcenter.RelayMessage)
	require.True(t, ok)
	assert.Equal(t, instanceID, msg.Origin)
	assert.Equal(t, published[0].ID, msg.Event.ID)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, d.metrics.LiveSubscribers())

	_, err = d.svc.PublishEvent(ctx, m.ID, matchcenter.NewEvent{Innings: 2, Over: 0, Ball: 3, Runs: 1})
	require.NoError(t, err)
	assert.Len(t, received, len(oneOverMatch))
}

func TestPublishEventRejections(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	m := setupMatch(t, d.svc)
	publishAll(t, d.svc, m.ID)

	tests := []struct {
		name    string
		matchID string
		in      matchcenter.NewEvent
		want    error
	}{
		{"back into first innings", m.ID, matchcenter.NewEvent{Innings: 1, Over: 0, Ball: 6}, apperr.ErrInvalidState},
		{"earlier ball", m.ID, matchcenter.NewEvent{Innings: 2, Over: 0, Ball: 1}, apperr.ErrInvalidState},
		{"past the overs quota", m.ID, matchcenter.NewEvent{Innings: 2, Over: 1, Ball: 1}, apperr.ErrValidation},
		{"seventh ball", m.ID, matchcenter.NewEvent{Innings: 2, Over: 0, Ball: 7}, apperr.ErrValidation},
		{"unknown extra", m.ID, matchcenter.NewEvent{Innings: 2, Over: 0, Ball: 3, Extra: "overthrow"}, apperr.ErrValidation},
		{"unknown match", "missing", matchcenter.NewEvent{Innings: 1, Over: 0, Ball: 1}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.svc.PublishEvent(ctx, tt.matchID, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	events, err := d.svc.GetMatchEvents(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, events, len(oneOverMatch))
	assert.Equal(t, 2, d.metrics.Rejections("invalid_state"))
}

func TestPublishEventRelayFailure(t *testing.T) {
	d := setupTestDB(t)
	m := setupMatch(t, d.svc)
	d.pubsub.SendMessageFunc = func(pubsub.EventType, any) error { return errors.New("topic unavailable") }

	ev, err := d.svc.PublishEvent(context.Background(), m.ID, oneOverMatch[0])
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
}

func TestGetLiveScore(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	m := setupMatch(t, d.svc)

	empty, err := d.svc.GetLiveScore(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, empty.NoData)
	assert.Empty(t, empty.BattingTeam)
	assert.Nil(t, empty.LastEvent)

	published := publishAll(t, d.svc, m.ID)

	score, err := d.svc.GetLiveScore(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, score.NoData)
	require.Len(t, score.Innings, 2)
	assert.Equal(t, 14, score.Innings[0].Runs)
	assert.Equal(t, 1, score.Innings[0].Wickets)
	assert.Equal(t, 6, score.Innings[0].Balls)
	assert.Equal(t, 5, score.Innings[1].Runs)
	assert.Equal(t, 15, score.Target)
	require.NotNil(t, score.RequiredRunRate)
	assert.Equal(t, 15.0, *score.RequiredRunRate)
	assert.Equal(t, "Chennai", score.BattingTeam)
	assert.Equal(t, 2, score.CurrentInnings)
	assert.Equal(t, published[len(published)-1].ID, score.LastEvent.ID)

	_, err = d.svc.GetLiveScore(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetLiveCommentary(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	m := setupMatch(t, d.svc)
	publishAll(t, d.svc, m.ID)

	latest, err := d.svc.GetLiveCommentary(ctx, m.ID, 3)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, "0.2", latest[0].Over)
	assert.Equal(t, "Bumrah to Gaikwad, 1 run", latest[0].Text)
	assert.Equal(t, matchcenter.KindRuns, latest[0].Kind)
	assert.Equal(t, matchcenter.KindFour, latest[1].Kind)
	assert.Equal(t, 1, latest[2].Innings)
	assert.Equal(t, "Chahar to Surya, 2 runs", latest[2].Text)

	all, err := d.svc.GetLiveCommentary(ctx, m.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, len(oneOverMatch))
	kinds := make([]matchcenter.CommentaryKind, len(all))
	for i, c := range all {
		kinds[len(all)-1-i] = c.Kind
	}
	assert.Equal(t, []matchcenter.CommentaryKind{
		matchcenter.KindFour, matchcenter.KindExtra, matchcenter.KindDot, matchcenter.KindRuns,
		matchcenter.KindSix, matchcenter.KindWicket, matchcenter.KindRuns, matchcenter.KindFour, matchcenter.KindRuns,
	}, kinds)
	assert.Equal(t, "Chahar to Ishan, OUT, bowled", all[3].Text)
	assert.Equal(t, "Chahar to Rohit, wide, 1 run", all[7].Text)

	none, err := d.svc.GetLiveCommentary(ctx, "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReceiveRelayed(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	var received []matchcenter.Event
	unsubscribe := d.svc.Subscribe("m1", func(e matchcenter.Event) { received = append(received, e) })
	defer unsubscribe()

	ev := matchcenter.Event{ID: "e1", MatchID: "m1", Innings: 1, Over: 3, Ball: 2, Runs: 4}
	require.NoError(t, d.svc.ReceiveRelayed(ctx, matchcenter.RelayMessage{Origin: instanceID, Event: ev}))
	assert.Empty(t, received)

	require.NoError(t, d.svc.ReceiveRelayed(ctx, matchcenter.RelayMessage{Origin: "instance-b", Event: ev}))
	require.Len(t, received, 1)
	assert.Equal(t, "e1", received[0].ID)

	err := d.svc.ReceiveRelayed(ctx, matchcenter.RelayMessage{Origin: "instance-b"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestReceiveRelayedKeepsBallOrder(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	var received []string
	unsubscribe := d.svc.Subscribe("m1", func(e matchcenter.Event) { received = append(received, e.ID) })
	defer unsubscribe()

	relay := func(id string, over, ball int) {
		t.Helper()
		ev := matchcenter.Event{ID: id, MatchID: "m1", Innings: 1, Over: over, Ball: ball}
		require.NoError(t, d.svc.ReceiveRelayed(ctx, matchcenter.RelayMessage{Origin: "instance-b", Event: ev}))
	}
	relay("e-5.1", 5, 1)
	relay("e-2.1", 2, 1)
	relay("e-5.1", 5, 1)
	relay("e-5.1-wide", 5, 1)
	relay("e-5.2", 5, 2)
	relay("e-5.1-wide", 5, 1)

	assert.Equal(t, []string{"e-5.1", "e-5.1-wide", "e-5.2"}, received)
}

func TestPublishEventRelaysWithMatchOrderingKey(t *testing.T) {
	d := setupTestDB(t)
	m := setupMatch(t, d.svc)
	publishAll(t, d.svc, m.ID)

	require.NotEmpty(t, d.pubsub.SendMessageCalls)
	for _, call := range d.pubsub.SendMessageCalls {
		assert.Equal(t, string(pubsub.EventMatchEvent), call.Topic)
		assert.Equal(t, m.ID, call.OrderingKey)
	}
}
