// Package live streams session countdown state to browsers over WebSocket.
package live

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/ashureev/rizz-labs/internal/game"
)

// ConnManager tracks the active countdown connection for each player tab.
type ConnManager struct {
	mu     sync.RWMutex
	active map[string]map[string]*websocket.Conn
}

// NewConnManager creates a new connection manager.
func NewConnManager() *ConnManager {
	return &ConnManager{
		active: make(map[string]map[string]*websocket.Conn),
	}
}

// GetActive returns the active connection for a key.
func (m *ConnManager) GetActive(key game.Key) *websocket.Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sessions, ok := m.active[key.UserID]; ok {
		return sessions[key.SessionID]
	}
	return nil
}

// Register adds a connection, closing any older one for the same tab.
func (m *ConnManager) Register(key game.Key, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.active[key.UserID]; !exists {
		m.active[key.UserID] = make(map[string]*websocket.Conn)
	}

	if existing, exists := m.active[key.UserID][key.SessionID]; exists && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "session replaced")
	}

	m.active[key.UserID][key.SessionID] = conn
	slog.Debug("Countdown stream registered", "user_id", key.UserID, "session_id", key.SessionID)
}

// Unregister removes conn if it is still the active connection for key.
func (m *ConnManager) Unregister(key game.Key, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessions, ok := m.active[key.UserID]; ok {
		if current, exists := sessions[key.SessionID]; exists && current == conn {
			delete(sessions, key.SessionID)
			if len(sessions) == 0 {
				delete(m.active, key.UserID)
			}
			slog.Debug("Countdown stream unregistered", "user_id", key.UserID, "session_id", key.SessionID)
		}
	}
}

// Len returns the number of open connections.
func (m *ConnManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, sessions := range m.active {
		n += len(sessions)
	}
	return n
}

// CloseAll closes every open connection. Used on shutdown.
func (m *ConnManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, sessions := range m.active {
		for _, conn := range sessions {
			_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		}
		delete(m.active, userID)
	}
}
