package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/matchcenter"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// ProcessTournamentsHandler runs one lifecycle pass on demand. The scheduler
// runs the same pass periodically.
func (s *Server) ProcessTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := s.Processor.ProcessTournaments(r.Context(), isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func (s *Server) ActivityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Activity.GetAll()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}

// MatchEventsPushHandler receives events other instances relayed on the
// match-events topic and fans them out to local subscribers.
func (s *Server) MatchEventsPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg matchcenter.RelayMessage
		if !s.decodePush(w, r, &msg) {
			return
		}
		s.ackPush(w, s.MatchCenter.ReceiveRelayed(r.Context(), msg), "matchID", msg.Event.MatchID)
	}
}

// FixtureCompletedPushHandler announces a fixture as soon as its result is recorded.
func (s *Server) FixtureCompletedPushHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg pubsub.FixtureCompletedMessage
		if !s.decodePush(w, r, &msg) {
			return
		}
		err := s.Processor.AnnounceFixture(r.Context(), msg.FixtureID, isDryRunFromContext(r))
		s.ackPush(w, err, "fixtureID", msg.FixtureID)
	}
}

func (s *Server) decodePush(w http.ResponseWriter, r *http.Request, v any) bool {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return false
	}
	log.Debug("Received push message", "path", r.URL.Path, "body", string(bodyBytes))

	var push pubsub.PushRequest
	if err := json.Unmarshal(bodyBytes, &push); err != nil {
		log.Error("Failed to unmarshal wrapper JSON", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	// Data is base64 wrapped msgpack.
	rawData, err := base64.StdEncoding.DecodeString(push.Message.Data)
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return false
	}
	if err := s.pubsub.ProcessMessage(rawData, v); err != nil {
		log.Error("Failed to decode push payload", "error", err, "messageID", push.Message.MessageID)
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return false
	}
	return true
}

// ackPush acknowledges rejected messages so Pub/Sub stops redelivering them;
// only unexpected failures are nacked for a retry.
func (s *Server) ackPush(w http.ResponseWriter, err error, keyvals ...any) {
	switch {
	case err == nil:
	case apperr.IsRejection(err) || apperr.Reason(err) == "not_found":
		log.Warn("Dropping push message", append([]any{"error", err}, keyvals...)...)
	default:
		log.Error("Failed to handle push message", append([]any{"error", err}, keyvals...)...)
		http.Error(w, "Failed to handle message", http.StatusInternalServerError)
		return
	}
	w.Write([]byte("OK"))
}
