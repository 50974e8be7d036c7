package http

import (
	"net/http"

	"github.com/mauv0809/cricket-hub/internal/academy"
	"github.com/mauv0809/cricket-hub/internal/coach"
	"github.com/mauv0809/cricket-hub/internal/config"
	"github.com/mauv0809/cricket-hub/internal/matchcenter"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/processor"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
	"github.com/mauv0809/cricket-hub/internal/tournament"
	"github.com/mauv0809/cricket-hub/internal/user"
)

// Services groups the domain services the API exposes.
type Services struct {
	Academy     academy.AcademyService
	Coach       coach.CoachService
	Tournament  tournament.TournamentService
	Player      player.PlayerService
	MatchCenter matchcenter.MatchCenterService
	User        user.UserService
}

type Server struct {
	Services
	Processor      *processor.Processor
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Activity       metrics.ActivityStore
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

type enrollRequest struct {
	StudentID string `json:"student_id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// liveMessage is one frame on the live match stream.
type liveMessage struct {
	Type  string                 `json:"type"`
	Score *matchcenter.LiveScore `json:"score,omitempty"`
	Event *matchcenter.Event     `json:"event,omitempty"`
}
