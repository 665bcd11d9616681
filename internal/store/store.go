// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/rizz-labs/internal/domain"
)

// Repository persists players and finished game results.
type Repository interface {
	// GetUser retrieves a user by their user ID. Returns nil, nil when absent.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// SaveResult records a finished session. Saving the same ID twice is a no-op.
	SaveResult(ctx context.Context, result *domain.GameResult) error

	// ListResults returns a user's results, newest first.
	ListResults(ctx context.Context, userID string, limit int) ([]*domain.GameResult, error)

	// Leaderboard returns the best results across all users.
	Leaderboard(ctx context.Context, limit int) ([]*domain.GameResult, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

// MaxListLimit caps the number of rows a list query returns.
const MaxListLimit = 100

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
