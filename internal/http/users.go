package http

import (
	"net/http"

	"github.com/mauv0809/cricket-hub/internal/apperr"
	"github.com/mauv0809/cricket-hub/internal/user"
)

// ListUsersHandler lists users. ?email= looks one up; ?role= filters by role.
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if email := r.URL.Query().Get("email"); email != "" {
			u, err := s.User.GetUserByEmail(r.Context(), email)
			if err != nil {
				writeError(w, err)
				return
			}
			if u == nil {
				writeError(w, apperr.NotFound("user", email))
				return
			}
			writeJSON(w, http.StatusOK, []user.User{*u})
			return
		}
		users, err := s.User.GetAllUsers(r.Context(), user.Role(r.URL.Query().Get("role")))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in user.NewUser
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		u, err := s.User.CreateUser(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, u)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		u, err := s.User.GetUser(r.Context(), id)
		writeResult(w, u, err, "user", id)
	}
}

func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch user.ProfilePatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, err)
			return
		}
		u, err := s.User.UpdateProfile(r.Context(), r.PathValue("id"), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func (s *Server) UpdateUserRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in user.RoleInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err)
			return
		}
		u, err := s.User.UpdateRole(r.Context(), r.PathValue("id"), in.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.User.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
