package domain

import "time"

// GameMetrics accumulates player performance for a single session.
// Elapsed time is always derived from StartedAt and never stored.
type GameMetrics struct {
	StartedAt time.Time `json:"started_at"`
	WordCount int       `json:"word_count"`
	RizzIndex *int      `json:"rizz_index,omitempty"`
}

// NewGameMetrics starts a fresh accumulator at the given instant.
func NewGameMetrics(start time.Time) GameMetrics {
	return GameMetrics{StartedAt: start}
}

// AddWords adds the word count of a player message.
func (m *GameMetrics) AddWords(text string) {
	m.WordCount += CountWords(text)
}

// ElapsedSeconds returns the seconds between StartedAt and now.
func (m *GameMetrics) ElapsedSeconds(now time.Time) float64 {
	elapsed := now.Sub(m.StartedAt).Seconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// RecordRizzIndex stores the final score. Only the first call has any effect.
func (m *GameMetrics) RecordRizzIndex(score int) {
	if m.RizzIndex != nil {
		return
	}
	m.RizzIndex = &score
}
