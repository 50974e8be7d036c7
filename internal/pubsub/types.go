package pubsub

import (
	"sync"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()

	mu      sync.Mutex
	ordered map[EventType]*pubsub.Topic
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventMatchEvent       EventType = "match-events"
	EventFixtureCompleted EventType = "fixture-completed"
)

// FixtureCompletedMessage asks an instance to announce a completed fixture.
type FixtureCompletedMessage struct {
	TournamentID string `msgpack:"tournament_id"`
	FixtureID    string `msgpack:"fixture_id"`
}

// PushRequest is the envelope Google Cloud Pub/Sub posts to push subscriptions.
type PushRequest struct {
	Message struct {
		Data        string `json:"data"`
		MessageID   string `json:"messageId"`
		PublishTime string `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}
