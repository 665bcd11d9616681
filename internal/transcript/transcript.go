// Package transcript writes game conversations as NDJSON, one file per player tab
// plus an optional combined file.
package transcript

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Event types written by the game controller.
const (
	EventSessionStarted = "session_started"
	EventUserMessage    = "user_message"
	EventPersonaMessage = "persona_message"
	EventCompletionFail = "completion_failed"
	EventSessionEnded   = "session_ended"
)

// Event is one NDJSON line.
type Event struct {
	Timestamp string         `json:"ts"`
	UserID    string         `json:"user_id"`
	SessionID string         `json:"session_id"`
	GameID    string         `json:"game_id,omitempty"`
	EventType string         `json:"event_type"`
	Role      string         `json:"role,omitempty"`
	Content   string         `json:"content,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// Logger records conversation events without blocking the caller.
type Logger interface {
	Log(event Event)
	Close() error
}

// Config controls transcript logging.
type Config struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Noop discards every event.
type Noop struct{}

// Log implements Logger.
func (Noop) Log(Event) {}

// Close implements Logger.
func (Noop) Close() error { return nil }

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// NDJSONLogger is an asynchronous file-backed Logger.
type NDJSONLogger struct {
	cfg    Config
	logger *slog.Logger
	queue  chan Event
	done   chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool

	// filesMu guards files and global. Both are nil once released.
	filesMu sync.Mutex
	files   map[string]*os.File
	global  *os.File
}

// New returns a Noop logger when cfg.Enabled is false.
func New(cfg Config, logger *slog.Logger) (Logger, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	return NewNDJSON(cfg, logger)
}

// NewNDJSON starts the background writer.
func NewNDJSON(cfg Config, logger *slog.Logger) (*NDJSONLogger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}

	l := &NDJSONLogger{
		cfg:    cfg,
		logger: logger,
		queue:  make(chan Event, cfg.QueueSize),
		done:   make(chan struct{}),
		files:  make(map[string]*os.File),
	}

	if cfg.GlobalEnabled {
		if err := os.MkdirAll(filepath.Dir(cfg.GlobalPath), 0o755); err != nil {
			return nil, fmt.Errorf("create global transcript dir: %w", err)
		}
		f, err := os.OpenFile(cfg.GlobalPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open global transcript: %w", err)
		}
		l.global = f
	}

	go l.run()
	return l, nil
}

// Log queues an event. Events are dropped with a warning when the queue is full.
func (l *NDJSONLogger) Log(event Event) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	select {
	case l.queue <- event:
	default:
		l.logger.Warn("transcript queue full, dropping event",
			"user_id", event.UserID,
			"session_id", event.SessionID,
			"event_type", event.EventType,
		)
	}
}

func (l *NDJSONLogger) run() {
	defer close(l.done)
	for event := range l.queue {
		line, err := json.Marshal(event)
		if err != nil {
			l.logger.Warn("transcript marshal failed", "error", err)
			continue
		}
		line = append(line, '\n')
		l.write(event, line)
	}
}

func (l *NDJSONLogger) write(event Event, line []byte) {
	l.filesMu.Lock()
	defer l.filesMu.Unlock()
	if l.files == nil {
		return
	}

	if err := l.writeSession(event, line); err != nil {
		l.logger.Warn("transcript write failed", "user_id", event.UserID, "error", err)
	}
	if l.global != nil {
		if _, err := l.global.Write(line); err != nil {
			l.logger.Warn("global transcript write failed", "error", err)
		}
	}
}

// writeSession appends to the session file, closing it once the session has ended.
// Callers hold filesMu.
func (l *NDJSONLogger) writeSession(event Event, line []byte) error {
	path := l.sessionPath(event.UserID, event.SessionID)
	f, ok := l.files[path]
	if !ok {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		l.files[path] = f
	}
	_, err := f.Write(line)
	if event.EventType == EventSessionEnded {
		delete(l.files, path)
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (l *NDJSONLogger) openFiles() int {
	l.filesMu.Lock()
	defer l.filesMu.Unlock()
	return len(l.files)
}

func (l *NDJSONLogger) sessionPath(userID, sessionID string) string {
	return filepath.Join(l.cfg.Dir, safeName(userID, "unknown"), safeName(sessionID, "default")+".ndjson")
}

func safeName(s, fallback string) string {
	s = unsafePathChars.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "" || strings.Trim(s, ".") == "" {
		return fallback
	}
	return s
}

// Close flushes queued events and closes every file. When the writer does not
// drain in time the files are still closed and the remaining events are dropped.
func (l *NDJSONLogger) Close() error {
	var firstErr error
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.queue)
		l.mu.Unlock()

		select {
		case <-l.done:
		case <-time.After(5 * time.Second):
			l.logger.Warn("transcript writer shutdown timeout, dropping queued events", "pending", len(l.queue))
		}

		l.filesMu.Lock()
		defer l.filesMu.Unlock()
		for _, f := range l.files {
			if err := f.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if l.global != nil {
			if err := l.global.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		l.files = nil
		l.global = nil
	})
	return firstErr
}
