package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/rizz-labs/internal/identity"
)

const defaultResultsLimit = 20

// ResultsHandler serves finished game history.
type ResultsHandler struct {
	*Handler
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(base *Handler) *ResultsHandler {
	return &ResultsHandler{Handler: base}
}

// RegisterRoutes registers history routes.
func (h *ResultsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/results", h.ListResults)
	r.Get("/leaderboard", h.Leaderboard)
}

// ListResults returns the caller's finished games, newest first.
func (h *ResultsHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	results, err := h.repo.ListResults(r.Context(), userID, limit)
	if err != nil {
		slog.Error("Failed to list results", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "failed to load results")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// Leaderboard returns the best finished games across all players.
func (h *ResultsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	results, err := h.repo.Leaderboard(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to load leaderboard", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultResultsLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		Error(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}
