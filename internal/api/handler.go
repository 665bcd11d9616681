// Package api provides HTTP handlers for the rizz-labs API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ashureev/rizz-labs/internal/completion"
	"github.com/ashureev/rizz-labs/internal/config"
	"github.com/ashureev/rizz-labs/internal/game"
	"github.com/ashureev/rizz-labs/internal/identity"
	"github.com/ashureev/rizz-labs/internal/store"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// defaultSessionID is used when a client sends no tab session header.
const defaultSessionID = "default"

// Handler provides common handler utilities.
type Handler struct {
	repo      store.Repository
	games     *game.Controller
	completer completion.Completer
	cfg       *config.Config
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, games *game.Controller, completer completion.Completer, cfg *config.Config) *Handler {
	return &Handler{
		repo:      repo,
		games:     games,
		completer: completer,
		cfg:       cfg,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// sessionKey builds the game key for the caller's device and tab.
func sessionKey(r *http.Request) game.Key {
	sid := identity.SessionIDFromContext(r.Context())
	if sid == "" {
		sid = defaultSessionID
	}
	return game.Key{UserID: identity.UserIDFromContext(r.Context()), SessionID: sid}
}
