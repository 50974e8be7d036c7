package http

import (
	"net/http"

	"github.com/mauv0809/cricket-hub/internal/stats"
	"github.com/mauv0809/cricket-hub/internal/tournament"
)

// ListTournamentsHandler lists every tournament, or one organizer's when organizer_id is set.
func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			tournaments []tournament.Tournament
			err         error
		)
		if organizer := r.URL.Query().Get("organizer_id"); organizer != "" {
			tournaments, err = s.Tournament.GetTournamentsByOrganizer(r.Context(), organizer)
		} else {
			tournaments, err = s.Tournament.GetAllTournaments(r.Context())
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tournaments)
	}
}

func (s *Server) CreateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in tournament.NewTournament
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		t, err := s.Tournament.CreateTournament(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func (s *Server) GetTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		t, err := s.Tournament.GetTournament(r.Context(), id)
		writeResult(w, t, err, "tournament", id)
	}
}

func (s *Server) UpdateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch tournament.TournamentPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, err)
			return
		}
		t, err := s.Tournament.UpdateTournament(r.Context(), r.PathValue("id"), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) RegisterTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in tournament.TeamRegistration
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		t, err := s.Tournament.RegisterTeamForTournament(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) TeamRegistrationStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in tournament.TeamStatusInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		t, err := s.Tournament.UpdateTeamRegistrationStatus(r.Context(), r.PathValue("id"), r.PathValue("teamID"), in.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func (s *Server) ListFixturesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fixtures, err := s.Tournament.GetTournamentFixtures(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fixtures)
	}
}

func (s *Server) CreateFixtureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in tournament.NewFixture
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		f, err := s.Tournament.CreateFixture(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, f)
	}
}

func (s *Server) PointsTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		table, err := s.Tournament.GetPointsTable(r.Context(), id)
		writeResult(w, table, err, "tournament", id)
	}
}

func (s *Server) TournamentLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		board := stats.BoardRuns
		if raw := r.URL.Query().Get("type"); raw != "" {
			board = stats.BoardType(raw)
		}
		lb, err := s.Tournament.GetTournamentLeaderboard(r.Context(), id, board)
		writeResult(w, lb, err, "tournament", id)
	}
}

func (s *Server) TournamentStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		ts, err := s.Tournament.GetTournamentStats(r.Context(), id)
		writeResult(w, ts, err, "tournament", id)
	}
}

func (s *Server) GetFixtureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		f, err := s.Tournament.GetFixture(r.Context(), id)
		writeResult(w, f, err, "fixture", id)
	}
}

func (s *Server) UpdateFixtureStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in statusRequest
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		f, err := s.Tournament.UpdateFixtureStatus(r.Context(), r.PathValue("id"), tournament.FixtureStatus(in.Status))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

func (s *Server) RecordResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in tournament.ResultInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		f, err := s.Tournament.RecordFixtureResult(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}
