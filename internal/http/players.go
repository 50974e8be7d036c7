package http

import (
	"net/http"

	"github.com/mauv0809/cricket-hub/internal/player"
	"github.com/mauv0809/cricket-hub/internal/stats"
)

func (s *Server) SearchPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Player.SearchPlayers(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func (s *Server) PlayerScorecardsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := s.Player.GetPlayerScorecards(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cards)
	}
}

func (s *Server) RecordScorecardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var card player.Scorecard
		if err := decodeJSON(r, &card); err != nil {
			writeError(w, err)
			return
		}
		stored, err := s.Player.RecordScorecard(r.Context(), &card)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := stats.ParseBoardType(r.PathValue("type"))
		if err != nil {
			writeError(w, asValidation(err))
			return
		}
		period, err := player.ParsePeriod(r.URL.Query().Get("period"))
		if err != nil {
			writeError(w, asValidation(err))
			return
		}
		lb, err := s.Player.GetLeaderboard(r.Context(), board, period)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lb)
	}
}
