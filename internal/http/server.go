package http

import (
	"net/http"

	"github.com/mauv0809/cricket-hub/internal/config"
	"github.com/mauv0809/cricket-hub/internal/metrics"
	"github.com/mauv0809/cricket-hub/internal/processor"
	"github.com/mauv0809/cricket-hub/internal/pubsub"
)

func NewServer(services Services, proc *processor.Processor, metricsSvc metrics.Metrics, metricsHandler http.Handler, activity metrics.ActivityStore, cfg config.Config, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Services:       services,
		Processor:      proc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Activity:       activity,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	handle := func(pattern string, h http.Handler) {
		s.Router.Handle(pattern, Chain(h, paramsMiddleware))
	}

	s.Router.Handle("/metrics", s.MetricsHandler)
	handle("GET /health", s.HealthCheckHandler())
	handle("POST /process", s.ProcessTournamentsHandler())
	handle("GET /api/activity", s.ActivityHandler())
	handle("POST /pubsub/match-events", s.MatchEventsPushHandler())
	handle("POST /pubsub/fixture-completed", s.FixtureCompletedPushHandler())

	handle("GET /api/academies", s.ListAcademiesHandler())
	handle("POST /api/academies", s.CreateAcademyHandler())
	handle("GET /api/academies/{id}", s.GetAcademyHandler())
	handle("POST /api/academies/{id}/students", s.AddStudentHandler())
	handle("POST /api/academies/{id}/coaches", s.AddCoachHandler())
	handle("GET /api/academies/{id}/programs", s.ListProgramsHandler())
	handle("GET /api/academies/{id}/stats", s.AcademyStatsHandler())
	handle("POST /api/programs", s.CreateProgramHandler())
	handle("POST /api/programs/{id}/enrollments", s.EnrollStudentHandler())
	handle("GET /api/programs/{id}/sessions", s.ListSessionsHandler())
	handle("POST /api/sessions", s.CreateSessionHandler())
	handle("PUT /api/sessions/{id}/attendance", s.MarkAttendanceHandler())
	handle("GET /api/sessions/{id}/attendance", s.AttendanceSummaryHandler())
	handle("GET /api/students/{id}/health-metrics", s.ListHealthMetricsHandler())
	handle("POST /api/health-metrics", s.RecordHealthMetricHandler())
	handle("GET /api/students/{id}/videos", s.ListVideoAnalysesHandler())
	handle("POST /api/videos", s.RecordVideoAnalysisHandler())

	handle("GET /api/teams", s.ListTeamsHandler())
	handle("POST /api/teams", s.CreateTeamHandler())
	handle("GET /api/teams/{id}", s.GetTeamHandler())
	handle("PATCH /api/teams/{id}", s.UpdateTeamHandler())
	handle("POST /api/teams/{id}/players", s.AddTeamPlayerHandler())
	handle("DELETE /api/teams/{id}/players/{playerID}", s.RemoveTeamPlayerHandler())
	handle("PUT /api/teams/{id}/players/{playerID}/status", s.UpdateTeamPlayerStatusHandler())
	handle("GET /api/teams/{id}/available-players", s.AvailablePlayersHandler())
	handle("GET /api/teams/{id}/stats", s.TeamStatsHandler())
	handle("GET /api/teams/{id}/fixtures", s.TeamFixturesHandler())
	handle("GET /api/analyses", s.GetAnalysisHandler())
	handle("POST /api/analyses", s.RecordAnalysisHandler())
	handle("GET /api/squads", s.GetSquadHandler())
	handle("POST /api/squads", s.CreateSquadHandler())

	handle("GET /api/users", s.ListUsersHandler())
	handle("POST /api/users", s.CreateUserHandler())
	handle("GET /api/users/{id}", s.GetUserHandler())
	handle("PATCH /api/users/{id}", s.UpdateUserHandler())
	handle("PUT /api/users/{id}/role", s.UpdateUserRoleHandler())
	handle("DELETE /api/users/{id}", s.DeleteUserHandler())

	handle("GET /api/tournaments", s.ListTournamentsHandler())
	handle("POST /api/tournaments", s.CreateTournamentHandler())
	handle("GET /api/tournaments/{id}", s.GetTournamentHandler())
	handle("PATCH /api/tournaments/{id}", s.UpdateTournamentHandler())
	handle("POST /api/tournaments/{id}/teams", s.RegisterTeamHandler())
	handle("PUT /api/tournaments/{id}/teams/{teamID}/status", s.TeamRegistrationStatusHandler())
	handle("GET /api/tournaments/{id}/fixtures", s.ListFixturesHandler())
	handle("POST /api/tournaments/{id}/fixtures", s.CreateFixtureHandler())
	handle("GET /api/tournaments/{id}/points-table", s.PointsTableHandler())
	handle("GET /api/tournaments/{id}/leaderboard", s.TournamentLeaderboardHandler())
	handle("GET /api/tournaments/{id}/stats", s.TournamentStatsHandler())
	handle("GET /api/fixtures/{id}", s.GetFixtureHandler())
	handle("PUT /api/fixtures/{id}/status", s.UpdateFixtureStatusHandler())
	handle("POST /api/fixtures/{id}/result", s.RecordResultHandler())

	handle("GET /api/players", s.SearchPlayersHandler())
	handle("GET /api/players/{id}/scorecards", s.PlayerScorecardsHandler())
	handle("GET /api/players/{id}/performance", s.PlayerPerformanceHandler())
	handle("POST /api/scorecards", s.RecordScorecardHandler())
	handle("GET /api/leaderboards/{type}", s.LeaderboardHandler())

	handle("POST /api/matches", s.SetupMatchHandler())
	handle("GET /api/matches/{id}", s.GetMatchHandler())
	handle("GET /api/matches/{id}/events", s.MatchEventsHandler())
	handle("POST /api/matches/{id}/events", s.PublishEventHandler())
	handle("GET /api/matches/{id}/commentary", s.CommentaryHandler())
	handle("GET /api/matches/{id}/score", s.LiveScoreHandler())
	handle("GET /api/matches/{id}/live", s.LiveStreamHandler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
