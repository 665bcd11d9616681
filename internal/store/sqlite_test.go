package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/rizz-labs/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "data", "rizz.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetUser(ctx, "anon_missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	now := time.Unix(1_700_000_000, 0)
	require.NoError(t, s.UpsertUser(ctx, &domain.User{
		UserID: "anon_1", Username: "player-1", LastSeenAt: now, CreatedAt: now, UpdatedAt: now,
	}))

	later := now.Add(time.Hour)
	require.NoError(t, s.UpdateLastSeen(ctx, "anon_1", later))
	require.NoError(t, s.UpdateLastSeen(ctx, "anon_unknown", later))

	got, err = s.GetUser(ctx, "anon_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "player-1", got.Username)
	assert.Equal(t, later.Unix(), got.LastSeenAt.Unix())
	assert.Equal(t, now.Unix(), got.CreatedAt.Unix())
}

func result(id, user string, score int, elapsed float64, finished time.Time) *domain.GameResult {
	return &domain.GameResult{
		ID: id, UserID: user, SessionID: "tab-1", PlayerName: "Sam", PersonaName: "Luna",
		Outcome: domain.OutcomeDateSecured, Score: score, Rating: "ELITE RIZZ",
		WordCount: 12, MessageCount: 3, ElapsedSeconds: elapsed, InterestLevel: 7.5, FinishedAt: finished,
	}
}

func TestSaveAndListResults(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_123)

	require.NoError(t, s.SaveResult(ctx, result("r1", "u1", 40, 100, base)))
	require.NoError(t, s.SaveResult(ctx, result("r2", "u1", 80, 50, base.Add(time.Minute))))
	require.NoError(t, s.SaveResult(ctx, result("r3", "u2", 90, 60, base)))
	// Duplicate IDs are ignored.
	require.NoError(t, s.SaveResult(ctx, result("r1", "u1", 99, 1, base)))

	got, err := s.ListResults(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID)
	assert.Equal(t, "r1", got[1].ID)
	assert.Equal(t, 40, got[1].Score)
	assert.Equal(t, domain.OutcomeDateSecured, got[0].Outcome)
	assert.Equal(t, base.UnixMilli(), got[1].FinishedAt.UnixMilli())
	assert.InDelta(t, 7.5, got[0].InterestLevel, 1e-9)

	none, err := s.ListResults(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestLeaderboardOrdering(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)

	require.NoError(t, s.SaveResult(ctx, result("slow", "u1", 90, 120, base)))
	require.NoError(t, s.SaveResult(ctx, result("fast", "u2", 90, 30, base)))
	require.NoError(t, s.SaveResult(ctx, result("low", "u3", 10, 5, base)))
	require.NoError(t, s.SaveResult(ctx, result("top", "u4", 100, 200, base)))

	got, err := s.Leaderboard(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"top", "fast", "slow"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestListLimitIsClamped(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for i := range MaxListLimit + 5 {
		require.NoError(t, s.SaveResult(ctx, result(fmt.Sprintf("r%03d", i), "u1", i%100, 10, time.Unix(int64(i), 0))))
	}
	got, err := s.ListResults(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, got, MaxListLimit)
}

func TestPing(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
