// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/alramalho/self-tracking-software-sub007/internal/adapters/repository"
	"github.com/alramalho/self-tracking-software-sub007/internal/domain/types"
)

// StreakDependencies defines the interface for streak queries.
type StreakDependencies interface {
	Streaks(ctx context.Context, userID string) ([]types.StreakEntry, error)
	Streak(ctx context.Context, userID, planID string) (types.StreakEntry, error)
}

// StreaksHandler handles streak summary requests.
type StreaksHandler struct {
	deps StreakDependencies
}

// NewStreaksHandler creates a new streaks handler.
func NewStreaksHandler(deps StreakDependencies) *StreaksHandler {
	return &StreaksHandler{deps: deps}
}

// HandleGetStreaks handles GET /streaks?user= requests.
func (h *StreaksHandler) HandleGetStreaks(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_streaks"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.Streaks(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetStreak handles GET /streaks/{plan_id}?user= requests.
func (h *StreaksHandler) HandleGetStreak(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_streak"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	planID := strings.TrimPrefix(r.URL.Path, "/streaks/")
	if planID == "" || strings.Contains(planID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Streak(r.Context(), userID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
