package http

import (
	"net/http"

	"github.com/mauv0809/cricket-hub/internal/coach"
)

func (s *Server) ListTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := requireQuery(r, "coach_id")
		if err != nil {
			writeError(w, err)
			return
		}
		teams, err := s.Coach.GetTeamsByCoach(r.Context(), q["coach_id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, teams)
	}
}

func (s *Server) CreateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in coach.NewTeam
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		team, err := s.Coach.CreateTeam(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, team)
	}
}

func (s *Server) GetTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		team, err := s.Coach.GetTeam(r.Context(), id)
		writeResult(w, team, err, "team", id)
	}
}

func (s *Server) UpdateTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch coach.TeamPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, err)
			return
		}
		team, err := s.Coach.UpdateTeam(r.Context(), r.PathValue("id"), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

func (s *Server) AddTeamPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in coach.NewTeamPlayer
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		team, err := s.Coach.AddPlayerToTeam(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

func (s *Server) RemoveTeamPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := s.Coach.RemovePlayerFromTeam(r.Context(), r.PathValue("id"), r.PathValue("playerID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

func (s *Server) UpdateTeamPlayerStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in statusRequest
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		team, err := s.Coach.UpdatePlayerStatus(r.Context(), r.PathValue("id"), r.PathValue("playerID"), coach.PlayerStatus(in.Status))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

func (s *Server) AvailablePlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Coach.GetAvailablePlayers(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) TeamStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		stats, err := s.Coach.GetTeamStats(r.Context(), id)
		writeResult(w, stats, err, "team", id)
	}
}

func (s *Server) TeamFixturesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fixtures, err := s.Tournament.GetFixturesForTeam(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fixtures)
	}
}

func (s *Server) GetAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := requireQuery(r, "match_id", "team_id")
		if err != nil {
			writeError(w, err)
			return
		}
		analysis, err := s.Coach.GetMatchAnalysis(r.Context(), q["match_id"], q["team_id"])
		writeResult(w, analysis, err, "match analysis", q["match_id"]+"/"+q["team_id"])
	}
}

func (s *Server) RecordAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in coach.MatchAnalysisInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		analysis, err := s.Coach.RecordMatchAnalysis(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, analysis)
	}
}

func (s *Server) GetSquadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := requireQuery(r, "match_id", "team_id")
		if err != nil {
			writeError(w, err)
			return
		}
		squad, err := s.Coach.GetSquadSelection(r.Context(), q["match_id"], q["team_id"])
		writeResult(w, squad, err, "squad selection", q["match_id"]+"/"+q["team_id"])
	}
}

func (s *Server) CreateSquadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in coach.SquadSelectionInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		squad, err := s.Coach.CreateSquadSelection(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, squad)
	}
}

func (s *Server) PlayerPerformanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		perf, err := s.Coach.GetPlayerPerformance(r.Context(), id)
		writeResult(w, perf, err, "player", id)
	}
}
