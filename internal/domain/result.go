package domain

import "time"

// GameResult is the persisted summary of a finished session.
type GameResult struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	SessionID      string    `json:"session_id"`
	PlayerName     string    `json:"player_name"`
	PersonaName    string    `json:"persona_name"`
	Outcome        Outcome   `json:"outcome"`
	Score          int       `json:"score"`
	Rating         string    `json:"rating"`
	WordCount      int       `json:"word_count"`
	MessageCount   int       `json:"message_count"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	InterestLevel  float64   `json:"interest_level"`
	FinishedAt     time.Time `json:"finished_at"`
}
