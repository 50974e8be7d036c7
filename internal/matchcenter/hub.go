package matchcenter

import (
	"sync"
	"sync/atomic"
)

// Hub fans match events out to local subscribers. Every subscriber sees
// every event for its match, in publish order.
type Hub struct {
	mu        sync.RWMutex
	publishMu sync.Mutex
	subs      map[string]map[uint64]*subscriber
	next      uint64
}

type subscriber struct {
	closed  atomic.Bool
	onEvent func(Event)
}

// deliver runs onEvent without holding any hub lock, so onEvent may call
// the unsubscribe func or Subscribe again.
func (s *subscriber) deliver(e Event) {
	if s.closed.Load() {
		return
	}
	s.onEvent(e)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]*subscriber)}
}

// Subscribe registers onEvent for matchID. The returned func may be called at
// any time, including from inside onEvent. Once it returns no new delivery
// starts; a delivery already running finishes.
func (h *Hub) Subscribe(matchID string, onEvent func(Event)) func() {
	sub := &subscriber{onEvent: onEvent}

	h.mu.Lock()
	h.next++
	id := h.next
	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[uint64]*subscriber)
	}
	h.subs[matchID][id] = sub
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.closed.Store(true)
			h.mu.Lock()
			delete(h.subs[matchID], id)
			if len(h.subs[matchID]) == 0 {
				delete(h.subs, matchID)
			}
			h.mu.Unlock()
		})
	}
}

// Publish delivers e synchronously to every current subscriber of its match.
func (h *Hub) Publish(e Event) {
	h.publishMu.Lock()
	defer h.publishMu.Unlock()

	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subs[e.MatchID]))
	for _, s := range h.subs[e.MatchID] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		s.deliver(e)
	}
}

// Subscribers returns the number of live subscriptions for matchID.
func (h *Hub) Subscribers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[matchID])
}
