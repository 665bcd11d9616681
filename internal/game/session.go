// Package game runs chat sessions: persona replies, outcome classification, timeouts and scoring.
package game

import (
	"errors"
	"time"

	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/evaluator"
)

var (
	// ErrNoSession is returned when the key has no active session.
	ErrNoSession = errors.New("no active session")
	// ErrBusy is returned while a persona reply is still being generated.
	ErrBusy = errors.New("persona is still replying")
	// ErrFinished is returned when the session already reached a terminal outcome.
	ErrFinished = errors.New("session is finished")
	// ErrEmptyMessage is returned for blank submissions.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSuperseded is returned when a restart replaced the session while a reply was in flight.
	ErrSuperseded = errors.New("session was restarted")
)

// FallbackReply is used when the completion service fails.
const FallbackReply = "oop my wifi is being so weird rn 😭 what were you saying bestie?"

// Key identifies one session: an anonymous player and one of their browser tabs.
type Key struct {
	UserID    string
	SessionID string
}

func (k Key) String() string {
	return k.UserID + "/" + k.SessionID
}

// Session is the mutable state of one play-through. Guarded by Controller.mu.
type Session struct {
	ID          string
	Key         Key
	Preferences domain.Preferences
	Persona     domain.Persona
	Conv        domain.ConversationContext
	Metrics     domain.GameMetrics
	Outcome     domain.Outcome
	Score       *evaluator.Score

	generation uint64
	pending    bool
	lastActive time.Time
	finishedAt time.Time
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	GameID           string           `json:"game_id"`
	Persona          domain.Persona   `json:"persona"`
	Turns            []domain.Turn    `json:"turns"`
	Outcome          domain.Outcome   `json:"outcome"`
	Finished         bool             `json:"finished"`
	Pending          bool             `json:"pending"`
	InterestLevel    float64          `json:"interest_level"`
	MessageCount     int              `json:"message_count"`
	WordCount        int              `json:"word_count"`
	ElapsedSeconds   float64          `json:"elapsed_seconds"`
	RemainingSeconds int              `json:"remaining_seconds"`
	Score            *evaluator.Score `json:"score,omitempty"`
}

// clockAt freezes the session clock once the session is finished.
func (s *Session) clockAt(now time.Time) time.Time {
	if s.Outcome.IsTerminal() {
		return s.finishedAt
	}
	return now
}

func (s *Session) snapshot(now time.Time) Snapshot {
	at := s.clockAt(now)
	snap := Snapshot{
		GameID:           s.ID,
		Persona:          s.Persona,
		Turns:            append([]domain.Turn(nil), s.Conv.Turns...),
		Outcome:          s.Outcome,
		Finished:         s.Outcome.IsTerminal(),
		Pending:          s.pending,
		InterestLevel:    s.Conv.InterestLevel,
		MessageCount:     s.Conv.MessageCount,
		WordCount:        s.Metrics.WordCount,
		ElapsedSeconds:   s.Metrics.ElapsedSeconds(at),
		RemainingSeconds: evaluator.RemainingSeconds(s.Metrics.StartedAt, at),
	}
	if s.Score != nil {
		score := *s.Score
		snap.Score = &score
	}
	return snap
}
