package http

import (
	"net/http"

	"github.com/mauv0809/cricket-hub/internal/academy"
)

func (s *Server) ListAcademiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := requireQuery(r, "owner_id")
		if err != nil {
			writeError(w, err)
			return
		}
		academies, err := s.Academy.GetAcademiesByOwner(r.Context(), q["owner_id"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, academies)
	}
}

func (s *Server) CreateAcademyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in academy.NewAcademy
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		created, err := s.Academy.CreateAcademy(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) GetAcademyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		a, err := s.Academy.GetAcademy(r.Context(), id)
		writeResult(w, a, err, "academy", id)
	}
}

func (s *Server) AddStudentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in academy.NewStudent
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		a, err := s.Academy.AddStudent(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func (s *Server) AddCoachHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in academy.NewCoach
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		a, err := s.Academy.AddCoach(r.Context(), r.PathValue("id"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func (s *Server) ListProgramsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		programs, err := s.Academy.GetTrainingPrograms(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, programs)
	}
}

func (s *Server) AcademyStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		stats, err := s.Academy.GetAcademyStats(r.Context(), id)
		writeResult(w, stats, err, "academy", id)
	}
}

func (s *Server) CreateProgramHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in academy.NewProgram
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		p, err := s.Academy.CreateTrainingProgram(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func (s *Server) EnrollStudentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in enrollRequest
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		p, err := s.Academy.EnrollStudent(r.Context(), r.PathValue("id"), in.StudentID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) ListSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := s.Academy.GetTrainingSessions(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessions)
	}
}

func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in academy.NewSession
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		session, err := s.Academy.CreateTrainingSession(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

func (s *Server) MarkAttendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var records []academy.AttendanceInput
		if err := decodeJSON(r, &records); err != nil {
			writeError(w, err)
			return
		}
		session, err := s.Academy.MarkAttendance(r.Context(), r.PathValue("id"), records)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

func (s *Server) AttendanceSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		summary, err := s.Academy.GetAttendanceSummary(r.Context(), id)
		writeResult(w, summary, err, "session", id)
	}
}

func (s *Server) ListHealthMetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics, err := s.Academy.GetHealthMetrics(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, metrics)
	}
}

func (s *Server) RecordHealthMetricHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in academy.NewHealthMetric
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		m, err := s.Academy.RecordHealthMetric(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) ListVideoAnalysesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videos, err := s.Academy.GetVideoAnalyses(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, videos)
	}
}

func (s *Server) RecordVideoAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in academy.NewVideoAnalysis
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		v, err := s.Academy.RecordVideoAnalysis(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}
