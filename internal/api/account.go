package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/rizz-labs/internal/completion"
	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/evaluator"
	"github.com/ashureev/rizz-labs/internal/identity"
)

const aiStatusTimeout = 5 * time.Second

// AccountHandler serves player identity and frontend configuration.
type AccountHandler struct {
	*Handler
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(base *Handler) *AccountHandler {
	return &AccountHandler{Handler: base}
}

// RegisterRoutes registers account routes.
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.GetMe)
	r.Get("/config", h.GetConfig)
}

// GetMe returns the current user's information.
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.repo.GetUser(r.Context(), userID)
	if err != nil || user == nil {
		Error(w, http.StatusUnauthorized, "user not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    user.UserID,
		"username":   user.Username,
		"session_id": sessionKey(r).SessionID,
	})
}

// GetConfig returns the game configuration for the frontend.
func (h *AccountHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), aiStatusTimeout)
	defer cancel()

	provider := ""
	if h.completer != nil {
		provider = h.completer.Provider()
	}
	typingDelay := false
	if h.cfg != nil {
		typingDelay = h.cfg.TypingDelayEnabled
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"budget_seconds":      int(evaluator.SessionBudget.Seconds()),
		"min_date_interest":   evaluator.MinDateInterest,
		"provider":            provider,
		"ai_status":           completion.Status(ctx, h.completer),
		"typing_delay":        typingDelay,
		"gender_options":      domain.GenderOptions,
		"orientation_options": domain.OrientationOptions,
	})
}
