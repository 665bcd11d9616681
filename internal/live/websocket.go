package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/ashureev/rizz-labs/internal/game"
	"github.com/ashureev/rizz-labs/internal/identity"
)

// DefaultTickInterval is how often the countdown is pushed.
const DefaultTickInterval = time.Second

const writeTimeout = 5 * time.Second

// Message types sent to the client.
const (
	TypeState = "state"
	TypeIdle  = "idle"
	TypePong  = "pong"
)

// Message is a single frame on the countdown stream.
type Message struct {
	Type     string         `json:"type"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

type clientMessage struct {
	Type string `json:"type"`
}

// WebSocketHandler pushes a session snapshot every tick and enforces the
// time budget even when the player stops sending messages.
type WebSocketHandler struct {
	games          *game.Controller
	conns          *ConnManager
	interval       time.Duration
	allowedOrigins []string
	isDev          bool
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(games *game.Controller, conns *ConnManager, interval time.Duration, allowedOrigins []string, isDev bool) *WebSocketHandler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if conns == nil {
		conns = NewConnManager()
	}
	return &WebSocketHandler{
		games:          games,
		conns:          conns,
		interval:       interval,
		allowedOrigins: allowedOrigins,
		isDev:          isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := game.Key{
		UserID:    identity.UserIDFromContext(r.Context()),
		SessionID: identity.SessionIDFromContext(r.Context()),
	}
	if key.SessionID == "" {
		key.SessionID = "default"
	}
	slog.Info("Countdown stream request", "user_id", key.UserID, "session_id", key.SessionID, "ip", identity.IPFromRequest(r))

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", key.UserID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "stream ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", key.UserID)
		}
	}()

	h.conns.Register(key, ws)
	defer h.conns.Unregister(key, ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		h.inputLoop(ctx, ws, key)
	}()

	h.tickLoop(ctx, ws, key)
	slog.Debug("Countdown stream ended", "user_id", key.UserID, "session_id", key.SessionID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.allowedOrigins, "*") || slices.Contains(h.allowedOrigins, origin) {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigins)
	return false
}

func (h *WebSocketHandler) inputLoop(ctx context.Context, ws *websocket.Conn, key game.Key) {
	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, ws, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				slog.Debug("WebSocket closed by client", "user_id", key.UserID)
			} else {
				slog.Warn("WebSocket read error", "error", err, "user_id", key.UserID)
			}
			return
		}

		switch msg.Type {
		case "ping":
			if err := h.write(ctx, ws, Message{Type: TypePong}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
				return
			}
		case "close":
			return
		}
	}
}

func (h *WebSocketHandler) tickLoop(ctx context.Context, ws *websocket.Conn, key game.Key) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, ws, key); err != nil {
			if ctx.Err() == nil {
				slog.Debug("WebSocket write error", "error", err, "user_id", key.UserID)
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// push ticks the session clock and sends the resulting state.
func (h *WebSocketHandler) push(ctx context.Context, ws *websocket.Conn, key game.Key) error {
	now := h.games.Now()
	snap, err := h.games.Tick(ctx, key, now)
	if errors.Is(err, game.ErrNoSession) {
		return h.write(ctx, ws, Message{Type: TypeIdle})
	}
	if err != nil {
		return err
	}
	h.games.Touch(key, now)
	return h.write(ctx, ws, Message{Type: TypeState, Snapshot: &snap})
}

func (h *WebSocketHandler) write(ctx context.Context, ws *websocket.Conn, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, ws, msg)
}
