package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/matchcenter"
)

const (
	liveWriteWait   = 10 * time.Second
	defaultComments = 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) SetupMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in matchcenter.NewMatch
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		m, err := s.MatchCenter.SetupMatch(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		m, err := s.MatchCenter.GetMatch(r.Context(), id)
		writeResult(w, m, err, "match", id)
	}
}

func (s *Server) MatchEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := s.MatchCenter.GetMatchEvents(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func (s *Server) PublishEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in matchcenter.NewEvent
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		ev, err := s.MatchCenter.PublishEvent(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, ev)
	}
}

func (s *Server) CommentaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", defaultComments)
		if err != nil {
			writeError(w, err)
			return
		}
		lines, err := s.MatchCenter.GetLiveCommentary(r.Context(), r.PathValue("id"), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lines)
	}
}

func (s *Server) LiveScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		score, err := s.MatchCenter.GetLiveScore(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, score)
	}
}

// LiveStreamHandler upgrades to a websocket that first carries the current
// score and then every new event of the match in publish order. A client that
// falls more than the configured buffer behind is disconnected.
func (s *Server) LiveStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.PathValue("id")
		match, err := s.MatchCenter.GetMatch(r.Context(), matchID)
		if err != nil {
			writeError(w, err)
			return
		}
		if match == nil {
			writeError(w, apperr.NotFound("match", matchID))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// The upgrader has already answered the request.
			log.Warn("Failed to upgrade live stream", "error", err, "matchID", matchID)
			return
		}
		defer conn.Close()

		buffer := s.Cfg.Live.SubscriberBuffer
		if buffer < 1 {
			buffer = 1
		}
		send := make(chan matchcenter.Event, buffer)
		overflow := make(chan struct{})
		var overflowOnce sync.Once
		unsubscribe := s.MatchCenter.Subscribe(matchID, func(ev matchcenter.Event) {
			select {
			case send <- ev:
			default:
				overflowOnce.Do(func() { close(overflow) })
			}
		})
		defer unsubscribe()

		// Reads only serve to notice the client going away.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		score, err := s.MatchCenter.GetLiveScore(r.Context(), matchID)
		if err != nil {
			log.Error("Failed to load live score", "error", err, "matchID", matchID)
			return
		}
		if err := writeFrame(conn, liveMessage{Type: "score", Score: score}); err != nil {
			return
		}
		log.Info("Live stream opened", "matchID", matchID, "remote", r.RemoteAddr)

		for {
			select {
			case ev := <-send:
				if err := writeFrame(conn, liveMessage{Type: "event", Event: &ev}); err != nil {
					log.Debug("Live stream write failed", "error", err, "matchID", matchID)
					return
				}
			case <-overflow:
				log.Warn("Dropping slow live subscriber", "matchID", matchID, "buffer", buffer)
				msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber too slow")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(liveWriteWait))
				return
			case <-gone:
				log.Info("Live stream closed", "matchID", matchID)
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, msg liveMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
