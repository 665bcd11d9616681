package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/game"
)

// GameHandler drives chat sessions for the caller's tab.
type GameHandler struct {
	*Handler
	messageLimit func(http.Handler) http.Handler
}

// NewGameHandler creates a new game handler. messageLimit may be nil.
func NewGameHandler(base *Handler, messageLimit func(http.Handler) http.Handler) *GameHandler {
	return &GameHandler{Handler: base, messageLimit: messageLimit}
}

type messageRequest struct {
	Message string `json:"message"`
}

// RegisterRoutes registers game routes.
func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/start", h.Start)
		r.Post("/restart", h.Restart)
		r.Group(func(r chi.Router) {
			if h.messageLimit != nil {
				r.Use(h.messageLimit)
			}
			r.Post("/message", h.Message)
		})
	})
}

// Start validates the landing preferences and begins a new session.
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	var prefs domain.Preferences
	if err := decodeJSON(w, r, &prefs); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	key := sessionKey(r)
	snap, err := h.games.Start(r.Context(), key, prefs)
	if err != nil {
		h.writeGameError(w, key, err)
		return
	}
	slog.Info("Game started", "user_id", key.UserID, "session_id", key.SessionID, "game_id", snap.GameID, "persona", snap.Persona.Name)
	JSON(w, http.StatusCreated, snap)
}

// Restart discards the current session and starts over with the same preferences.
func (h *GameHandler) Restart(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	snap, err := h.games.Restart(r.Context(), key)
	if err != nil {
		h.writeGameError(w, key, err)
		return
	}
	JSON(w, http.StatusCreated, snap)
}

// Get returns the current session view, re-checking the time budget.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(r)
	now := h.games.Now()
	snap, err := h.games.Tick(r.Context(), key, now)
	if err != nil {
		h.writeGameError(w, key, err)
		return
	}
	h.games.Touch(key, now)
	JSON(w, http.StatusOK, snap)
}

// Message submits a player message and waits for the persona's reply.
func (h *GameHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	key := sessionKey(r)
	snap, err := h.games.Send(r.Context(), key, req.Message)
	if err != nil {
		h.writeGameError(w, key, err)
		return
	}
	JSON(w, http.StatusOK, snap)
}

func (h *GameHandler) writeGameError(w http.ResponseWriter, key game.Key, err error) {
	var fields domain.PreferenceErrors
	switch {
	case errors.As(err, &fields):
		JSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  domain.ErrInvalidPreferences.Error(),
			"fields": fields,
		})
	case errors.Is(err, game.ErrNoSession):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrEmptyMessage):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrBusy),
		errors.Is(err, game.ErrFinished),
		errors.Is(err, game.ErrSuperseded):
		Error(w, http.StatusConflict, err.Error())
	default:
		slog.Error("Game request failed", "error", err, "user_id", key.UserID, "session_id", key.SessionID)
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
