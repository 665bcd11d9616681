package domain

import (
	"strings"
	"time"
)

// Role identifies who authored a turn.
type Role string

const (
	// RoleUser marks a turn written by the player.
	RoleUser Role = "user"
	// RolePersona marks a turn written by the simulated persona.
	RolePersona Role = "assistant"
)

// Turn is a single message in the transcript.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationContext holds the transcript and the persona's current affinity.
type ConversationContext struct {
	Turns         []Turn  `json:"turns"`
	MessageCount  int     `json:"message_count"`
	InterestLevel float64 `json:"interest_level"`
}

// RecordUserTurn appends a player message and bumps the message count.
func (c *ConversationContext) RecordUserTurn(text string, at time.Time) {
	c.Turns = append(c.Turns, Turn{Role: RoleUser, Content: text, Timestamp: at})
	c.MessageCount++
}

// RecordPersonaTurn appends a persona message.
func (c *ConversationContext) RecordPersonaTurn(text string, at time.Time) {
	c.Turns = append(c.Turns, Turn{Role: RolePersona, Content: text, Timestamp: at})
}

// SetInterest overwrites the interest level, clamped to [0, 10].
func (c *ConversationContext) SetInterest(level float64) {
	c.InterestLevel = ClampInterest(level)
}

// RecentTurns returns the last n turns from the transcript.
func (c *ConversationContext) RecentTurns(n int) []Turn {
	if n <= 0 {
		return nil
	}
	if n >= len(c.Turns) {
		return c.Turns
	}
	return c.Turns[len(c.Turns)-n:]
}

// LastUserMessage returns the most recent player message, or "".
func (c *ConversationContext) LastUserMessage() string {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Role == RoleUser {
			return c.Turns[i].Content
		}
	}
	return ""
}

// Clone returns a deep copy safe to hand to another goroutine.
func (c *ConversationContext) Clone() ConversationContext {
	out := *c
	out.Turns = append([]Turn(nil), c.Turns...)
	return out
}

// ClampInterest limits an interest level to [0, 10]. NaN maps to 0.
func ClampInterest(level float64) float64 {
	if level != level || level < 0 {
		return 0
	}
	if level > 10 {
		return 10
	}
	return level
}

// CountWords returns the number of whitespace-delimited tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
