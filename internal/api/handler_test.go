package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/rizz-labs/internal/completion"
	"github.com/ashureev/rizz-labs/internal/config"
	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/game"
	"github.com/ashureev/rizz-labs/internal/identity"
)

const (
	testUserID    = "anon_0123456789abcdef0123456789abcdef"
	testSessionID = "tab-1"
)

type fakeRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	results []*domain.GameResult
	pingErr error
	listErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*domain.User{
		testUserID: {UserID: testUserID, Username: "anon-0123"},
	}}
}

func (f *fakeRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[userID], nil
}

func (f *fakeRepo) UpsertUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.UserID] = user
	return nil
}

func (f *fakeRepo) UpdateLastSeen(context.Context, string, time.Time) error { return nil }

func (f *fakeRepo) SaveResult(_ context.Context, result *domain.GameResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
	return nil
}

func (f *fakeRepo) ListResults(_ context.Context, userID string, limit int) ([]*domain.GameResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*domain.GameResult{}
	for _, r := range f.results {
		if r.UserID == userID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) Leaderboard(_ context.Context, limit int) ([]*domain.GameResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.results) < limit {
		limit = len(f.results)
	}
	return append([]*domain.GameResult{}, f.results[:limit]...), nil
}

func (f *fakeRepo) Ping(context.Context) error { return f.pingErr }
func (f *fakeRepo) Close() error               { return nil }

func (f *fakeRepo) Results() []*domain.GameResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.GameResult(nil), f.results...)
}

type fakeCompleter struct {
	mu      sync.Mutex
	replies []completion.Reply
	err     error
	pingErr error
}

func (f *fakeCompleter) Complete(context.Context, completion.Request) (completion.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return completion.Reply{}, f.err
	}
	if len(f.replies) == 0 {
		return completion.Reply{Text: "haha tell me more", InterestLevel: 5}, nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

func (f *fakeCompleter) Ping(context.Context) error { return f.pingErr }
func (f *fakeCompleter) Provider() string           { return "fake" }

type testServer struct {
	router    http.Handler
	repo      *fakeRepo
	completer *fakeCompleter
	games     *game.Controller
	now       time.Time
	mu        sync.Mutex
}

func (s *testServer) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *testServer) advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		repo:      newFakeRepo(),
		completer: &fakeCompleter{},
		now:       time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC),
	}
	ts.games = game.NewController(ts.completer, ts.repo, nil, game.Options{
		Now:  ts.clock,
		Rand: rand.New(rand.NewPCG(7, 7)),
	})

	base := NewHandler(ts.repo, ts.games, ts.completer, &config.Config{})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), testUserID, testSessionID)))
		})
	})
	r.Route("/api", func(r chi.Router) {
		NewAccountHandler(base).RegisterRoutes(r)
		NewGameHandler(base, nil).RegisterRoutes(r)
		NewEvaluateHandler(ts.clock).RegisterRoutes(r)
		NewResultsHandler(base).RegisterRoutes(r)
		NewHealthHandler(ts.repo).RegisterHealth(r)
	})
	ts.router = r
	return ts
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	return got
}

var validPrefs = domain.Preferences{
	Name:              "Jordan",
	AgeRange:          domain.AgeRange{Min: 21, Max: 28},
	GenderIdentity:    "Man",
	SexualOrientation: "Straight",
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"foo": "bar"})

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "bar", got["foo"])
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusTeapot, "short and stout")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"error":"short and stout"}`, w.Body.String())
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, testUserID, got["user_id"])
	assert.Equal(t, testSessionID, got["session_id"])
}

func TestGetConfig(t *testing.T) {
	ts := newTestServer(t)

	got := decodeBody(t, ts.do(t, http.MethodGet, "/api/config", nil))
	assert.EqualValues(t, 300, got["budget_seconds"])
	assert.Equal(t, "fake", got["provider"])
	assert.Equal(t, "working", got["ai_status"])

	ts.completer.pingErr = errors.New("no route to host")
	got = decodeBody(t, ts.do(t, http.MethodGet, "/api/config", nil))
	assert.Equal(t, "failed", got["ai_status"])
}

func TestStartRejectsInvalidPreferences(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/game/start", domain.Preferences{Name: "J"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	got := decodeBody(t, w)
	assert.Equal(t, "invalid preferences", got["error"])
	fields, ok := got["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "gender_identity")
	assert.Contains(t, fields, "age_range")
}

func TestStartRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/game/start", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameFlowDateSecured(t *testing.T) {
	ts := newTestServer(t)
	ts.completer.replies = []completion.Reply{{Text: "omg yes!! coffee sounds perfect", InterestLevel: 8}}

	w := ts.do(t, http.MethodPost, "/api/game/start", validPrefs)
	require.Equal(t, http.StatusCreated, w.Code)
	started := decodeBody(t, w)
	assert.Equal(t, "continue", started["outcome"])
	assert.Len(t, started["turns"], 1)

	ts.advance(30 * time.Second)
	w = ts.do(t, http.MethodPost, "/api/game/message", map[string]string{"message": "wanna grab coffee tomorrow?"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "date_secured", got["outcome"])
	assert.Equal(t, true, got["finished"])
	assert.NotNil(t, got["score"])

	results := ts.repo.Results()
	require.Len(t, results, 1)
	assert.Equal(t, domain.OutcomeDateSecured, results[0].Outcome)
	assert.Equal(t, testUserID, results[0].UserID)

	w = ts.do(t, http.MethodPost, "/api/game/message", map[string]string{"message": "see you there"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodGet, "/api/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["results"], 1)
}

func TestMessageErrors(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/game/message", map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/game/start", validPrefs).Code)

	w = ts.do(t, http.MethodPost, "/api/game/message", map[string]string{"message": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessageUsesFallbackOnCompletionError(t *testing.T) {
	ts := newTestServer(t)
	ts.completer.err = errors.New("upstream 500")
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/game/start", validPrefs).Code)

	w := ts.do(t, http.MethodPost, "/api/game/message", map[string]string{"message": "hey"})
	require.Equal(t, http.StatusOK, w.Code)

	var snap game.Snapshot
	require.NoError(t, json.NewDecoder(w.Body).Decode(&snap))
	require.Len(t, snap.Turns, 3)
	assert.Equal(t, game.FallbackReply, snap.Turns[2].Content)
	assert.Equal(t, domain.OutcomeContinue, snap.Outcome)
}

func TestGetGameTimesOut(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/game", nil).Code)
	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/game/start", validPrefs).Code)

	ts.advance(299 * time.Second)
	got := decodeBody(t, ts.do(t, http.MethodGet, "/api/game", nil))
	assert.Equal(t, "continue", got["outcome"])
	assert.EqualValues(t, 1, got["remaining_seconds"])

	ts.advance(time.Second)
	got = decodeBody(t, ts.do(t, http.MethodGet, "/api/game", nil))
	assert.Equal(t, "timeout", got["outcome"])
	assert.EqualValues(t, 0, got["remaining_seconds"])
	require.Len(t, ts.repo.Results(), 1)
}

func TestRestart(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/game/restart", nil).Code)

	first := decodeBody(t, ts.do(t, http.MethodPost, "/api/game/start", validPrefs))
	w := ts.do(t, http.MethodPost, "/api/game/restart", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	second := decodeBody(t, w)
	assert.NotEqual(t, first["game_id"], second["game_id"])
	assert.Len(t, second["turns"], 1)
}

func TestEvaluateOutcome(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body outcomeRequest
		want string
	}{
		{
			name: "friendzone beats agreement",
			body: outcomeRequest{Reply: "yes! but let's just be friends", UserMessage: "dinner?", InterestLevel: 9},
			want: "friendzoned",
		},
		{
			name: "agreement to an invitation",
			body: outcomeRequest{Reply: "omg yes!! coffee sounds perfect", UserMessage: "wanna grab coffee?", InterestLevel: 6},
			want: "date_secured",
		},
		{
			name: "interest too low",
			body: outcomeRequest{Reply: "omg yes!! coffee sounds perfect", UserMessage: "wanna grab coffee?", InterestLevel: 3},
			want: "continue",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/evaluate/outcome", tt.body)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, decodeBody(t, w)["outcome"])
		})
	}
}

func TestEvaluateScore(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/evaluate/score", map[string]interface{}{
		"word_count": 8, "elapsed_seconds": 20, "message_count": 2, "interest_level": 9, "outcome": "date_secured",
	})
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.EqualValues(t, 100, got["score"])
	assert.Equal(t, "LEGENDARY RIZZ", got["rating"])

	w = ts.do(t, http.MethodPost, "/api/evaluate/score", map[string]interface{}{"outcome": "ghosted"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/evaluate/score", map[string]interface{}{"word_count": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluateExpired(t *testing.T) {
	ts := newTestServer(t)
	start := ts.clock()

	w := ts.do(t, http.MethodPost, "/api/evaluate/expired", map[string]interface{}{
		"started_at": start, "now": start.Add(299 * time.Second),
	})
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, false, got["expired"])
	assert.EqualValues(t, 1, got["remaining_seconds"])

	ts.advance(300 * time.Second)
	got = decodeBody(t, ts.do(t, http.MethodPost, "/api/evaluate/expired", map[string]interface{}{"started_at": start}))
	assert.Equal(t, true, got["expired"])
	assert.EqualValues(t, 0, got["remaining_seconds"])

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/evaluate/expired", map[string]interface{}{}).Code)
}

func TestResultsLimitValidation(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/results?limit=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/leaderboard?limit=0", nil).Code)

	w := ts.do(t, http.MethodGet, "/api/leaderboard?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["results"])

	ts.repo.listErr = errors.New("disk I/O error")
	assert.Equal(t, http.StatusInternalServerError, ts.do(t, http.MethodGet, "/api/results", nil).Code)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])

	ts.repo.pingErr = errors.New("database is closed")
	w = ts.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	got := decodeBody(t, w)
	assert.Equal(t, "degraded", got["status"])
	assert.Equal(t, "unreachable", got["checks"].(map[string]interface{})["database"])
}
