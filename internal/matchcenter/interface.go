package matchcenter

import "context"

// MatchCenterService keeps the ball-by-ball log of live matches and fans
// new events out to subscribers on this and other instances.
type MatchCenterService interface {
	SetupMatch(ctx context.Context, in NewMatch) (*Match, error)
	GetMatch(ctx context.Context, id string) (*Match, error)
	PublishEvent(ctx context.Context, matchID string, in NewEvent) (*Event, error)
	GetMatchEvents(ctx context.Context, matchID string) ([]Event, error)
	GetLiveCommentary(ctx context.Context, matchID string, limit int) ([]Commentary, error)
	GetLiveScore(ctx context.Context, matchID string) (*LiveScore, error)
	// Subscribe registers onEvent for every event published to matchID from
	// now on. The returned func must not be called from inside onEvent.
	Subscribe(matchID string, onEvent func(Event)) (unsubscribe func())
	ReceiveRelayed(ctx context.Context, msg RelayMessage) error
}
