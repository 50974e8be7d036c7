package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/cricket-hub/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// writeResult answers 404 when a lookup found nothing.
func writeResult[T any](w http.ResponseWriter, v *T, err error, kind, id string) {
	if err != nil {
		writeError(w, err)
		return
	}
	if v == nil {
		writeError(w, apperr.NotFound(kind, id))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error", Reason: "internal"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Reason: apperr.Reason(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrCapacityExceeded),
		errors.Is(err, apperr.ErrInvalidState),
		errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// decodeJSON reads the request body into v; malformed bodies are validation errors.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Validation("%s must be a non-negative integer", key)
	}
	return n, nil
}

func requireQuery(r *http.Request, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		v := r.URL.Query().Get(k)
		if v == "" {
			return nil, apperr.Validation("%s query parameter is required", k)
		}
		values[k] = v
	}
	return values, nil
}

func asValidation(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Validation("%v", err)
}
