package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Repository = (*SQLiteStore)(nil)

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_results (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		player_name TEXT NOT NULL DEFAULT '',
		persona_name TEXT NOT NULL,
		outcome TEXT NOT NULL,
		score INTEGER NOT NULL,
		rating TEXT NOT NULL,
		word_count INTEGER NOT NULL,
		message_count INTEGER NOT NULL,
		elapsed_seconds REAL NOT NULL,
		interest_level REAL NOT NULL,
		finished_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_user ON game_results(user_id, finished_at DESC);
	CREATE INDEX IF NOT EXISTS idx_results_score ON game_results(score DESC, elapsed_seconds ASC);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUser retrieves a user by their user ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, last_seen_at, created_at, updated_at
		FROM users WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var user domain.User
	var lastSeen, createdAt, updatedAt int64

	err := row.Scan(&user.UserID, &user.Username, &lastSeen, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.LastSeenAt = time.Unix(lastSeen, 0)
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)

	return &user, nil
}

// UpsertUser creates or updates a user record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (user_id, username, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	return shared.RetryOnConflict(ctx, shared.DefaultRetryPolicy, "upsert_user", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, query,
			user.UserID, user.Username,
			user.LastSeenAt.Unix(), user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}
		return nil
	})
}

// UpdateLastSeen updates the last_seen_at timestamp for a user.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error {
	query := `UPDATE users SET last_seen_at = ?, updated_at = ? WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "user_id", userID)
	}

	return nil
}

// SaveResult inserts a finished game result.
func (s *SQLiteStore) SaveResult(ctx context.Context, r *domain.GameResult) error {
	query := `
	INSERT INTO game_results (
		id, user_id, session_id, player_name, persona_name, outcome, score, rating,
		word_count, message_count, elapsed_seconds, interest_level, finished_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO NOTHING`

	return shared.RetryOnConflict(ctx, shared.DefaultRetryPolicy, "save_result", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, query,
			r.ID, r.UserID, r.SessionID, r.PlayerName, r.PersonaName, r.Outcome.String(), r.Score, r.Rating,
			r.WordCount, r.MessageCount, r.ElapsedSeconds, r.InterestLevel, r.FinishedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("insert game result: %w", err)
		}
		return nil
	})
}

const resultColumns = `id, user_id, session_id, player_name, persona_name, outcome, score, rating,
	word_count, message_count, elapsed_seconds, interest_level, finished_at`

// ListResults returns the user's results, newest first.
func (s *SQLiteStore) ListResults(ctx context.Context, userID string, limit int) ([]*domain.GameResult, error) {
	query := `SELECT ` + resultColumns + ` FROM game_results
		WHERE user_id = ? ORDER BY finished_at DESC LIMIT ?`
	return s.queryResults(ctx, query, userID, clampLimit(limit))
}

// Leaderboard returns the highest scores; ties go to the faster, then earlier, session.
func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]*domain.GameResult, error) {
	query := `SELECT ` + resultColumns + ` FROM game_results
		ORDER BY score DESC, elapsed_seconds ASC, finished_at ASC LIMIT ?`
	return s.queryResults(ctx, query, clampLimit(limit))
}

func (s *SQLiteStore) queryResults(ctx context.Context, query string, args ...any) ([]*domain.GameResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close result rows", "error", closeErr)
		}
	}()

	results := []*domain.GameResult{}
	for rows.Next() {
		var r domain.GameResult
		var outcome string
		var finishedAt int64

		if err := rows.Scan(
			&r.ID, &r.UserID, &r.SessionID, &r.PlayerName, &r.PersonaName, &outcome, &r.Score, &r.Rating,
			&r.WordCount, &r.MessageCount, &r.ElapsedSeconds, &r.InterestLevel, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}

		if r.Outcome, err = domain.ParseOutcome(outcome); err != nil {
			return nil, fmt.Errorf("result %s: %w", r.ID, err)
		}
		r.FinishedAt = time.UnixMilli(finishedAt)
		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
