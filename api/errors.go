package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/garnizeh/rentals/internal/service"
	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

// writeServiceError maps a service or store failure onto a status code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalid):
		writeError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, service.ErrDuplicate), errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusConflict, "duplicate", err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
		writeError(w, http.StatusUnauthorized, "credentials", "Credentials not found")
	default:
		kind := repository.KindOf(err)
		if kind == "" {
			kind = "internal"
		}
		logger.Error("request failed", slog.String("path", r.URL.Path), slog.String("kind", kind), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, kind, "Internal Server Error")
	}
}
