package game

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashureev/rizz-labs/internal/completion"
	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/evaluator"
	"github.com/ashureev/rizz-labs/internal/persona"
	"github.com/ashureev/rizz-labs/internal/transcript"
)

const (
	minTypingDelay    = 800 * time.Millisecond
	typingDelayJitter = 1500 * time.Millisecond
	persistTimeout    = 5 * time.Second
)

// ResultSaver persists finished sessions.
type ResultSaver interface {
	SaveResult(ctx context.Context, result *domain.GameResult) error
}

// Options tunes a Controller. Zero values pick production defaults.
type Options struct {
	// TypingDelay inserts a randomized pause before each persona reply is shown.
	TypingDelay bool
	// IdleTTL is how long an untouched session is kept before Sweep evicts it.
	IdleTTL time.Duration
	Now     func() time.Time
	Sleep   func(ctx context.Context, d time.Duration) error
	Rand    *rand.Rand
	Logger  *slog.Logger
}

// Controller owns every live session.
type Controller struct {
	completer  completion.Completer
	results    ResultSaver
	transcript transcript.Logger
	logger     *slog.Logger

	typingDelay bool
	idleTTL     time.Duration
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error

	mu          sync.Mutex
	rng         *rand.Rand
	sessions    map[Key]*Session
	generations map[Key]uint64
}

// NewController wires a controller. results and log may be nil.
func NewController(completer completion.Completer, results ResultSaver, log transcript.Logger, opts Options) *Controller {
	c := &Controller{
		completer:   completer,
		results:     results,
		transcript:  log,
		logger:      opts.Logger,
		typingDelay: opts.TypingDelay,
		idleTTL:     opts.IdleTTL,
		now:         opts.Now,
		sleep:       opts.Sleep,
		rng:         opts.Rand,
		sessions:    make(map[Key]*Session),
		generations: make(map[Key]uint64),
	}
	if c.transcript == nil {
		c.transcript = transcript.Noop{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.idleTTL <= 0 {
		c.idleTTL = 30 * time.Minute
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Now returns the controller clock.
func (c *Controller) Now() time.Time {
	return c.now()
}

// Start begins a fresh session for key, replacing any existing one.
func (c *Controller) Start(ctx context.Context, key Key, prefs domain.Preferences) (Snapshot, error) {
	if err := prefs.Validate(); err != nil {
		return Snapshot{}, err
	}

	now := c.now()
	c.mu.Lock()
	c.generations[key]++
	p := persona.Generate(&prefs, c.rng)
	greeting := persona.FirstMessage(p, c.rng)

	s := &Session{
		ID:          uuid.NewString(),
		Key:         key,
		Preferences: prefs,
		Persona:     p,
		Metrics:     domain.NewGameMetrics(now),
		Outcome:     domain.OutcomeContinue,
		generation:  c.generations[key],
		lastActive:  now,
	}
	s.Conv.RecordPersonaTurn(greeting, now)
	_, restarted := c.sessions[key]
	c.sessions[key] = s
	snap := s.snapshot(now)
	c.mu.Unlock()

	c.logger.Info("game started",
		"user_id", key.UserID,
		"session_id", key.SessionID,
		"game_id", s.ID,
		"persona", p.Name,
		"restart", restarted,
	)
	c.transcript.Log(transcript.Event{
		UserID:    key.UserID,
		SessionID: key.SessionID,
		GameID:    s.ID,
		EventType: transcript.EventSessionStarted,
		Role:      string(domain.RolePersona),
		Content:   greeting,
		Meta: map[string]any{
			"persona":     p.Name,
			"personality": p.Personality,
			"player":      prefs.Name,
		},
	})
	return snap, nil
}

// Restart starts over with the preferences of the current session.
func (c *Controller) Restart(ctx context.Context, key Key) (Snapshot, error) {
	c.mu.Lock()
	s, ok := c.sessions[key]
	var prefs domain.Preferences
	if ok {
		prefs = s.Preferences
	}
	c.mu.Unlock()
	if !ok {
		return Snapshot{}, ErrNoSession
	}
	return c.Start(ctx, key, prefs)
}

// Snapshot returns the current state of the session.
func (c *Controller) Snapshot(key Key) (Snapshot, error) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[key]
	if !ok {
		return Snapshot{}, ErrNoSession
	}
	return s.snapshot(now), nil
}

// Send submits a player message and waits for the persona reply.
// A session whose budget already ran out ends as a timeout without a reply.
func (c *Controller) Send(ctx context.Context, key Key, text string) (Snapshot, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Snapshot{}, ErrEmptyMessage
	}

	now := c.now()
	c.mu.Lock()
	s, ok := c.sessions[key]
	switch {
	case !ok:
		c.mu.Unlock()
		return Snapshot{}, ErrNoSession
	case s.Outcome.IsTerminal():
		c.mu.Unlock()
		return Snapshot{}, ErrFinished
	case s.pending:
		c.mu.Unlock()
		return Snapshot{}, ErrBusy
	}

	s.lastActive = now
	if evaluator.IsExpired(s.Metrics.StartedAt, now) {
		result := c.finishLocked(s, domain.OutcomeTimeout, now)
		snap := s.snapshot(now)
		c.mu.Unlock()
		c.persist(ctx, result)
		return snap, nil
	}

	req := completion.Request{
		Persona:  s.Persona,
		History:  append([]domain.Turn(nil), s.Conv.Turns...),
		UserText: text,
	}
	s.Conv.RecordUserTurn(text, now)
	s.Metrics.AddWords(text)
	req.MessageCount = s.Conv.MessageCount
	s.pending = true
	gen := s.generation

	var delay time.Duration
	if c.typingDelay {
		delay = minTypingDelay + time.Duration(c.rng.Int64N(int64(typingDelayJitter)))
	}
	c.mu.Unlock()

	c.transcript.Log(transcript.Event{
		UserID: key.UserID, SessionID: key.SessionID, GameID: s.ID,
		EventType: transcript.EventUserMessage, Role: string(domain.RoleUser), Content: text,
	})

	reply, err := c.completer.Complete(ctx, req)
	if err != nil {
		c.logger.Warn("completion failed, using fallback reply",
			"user_id", key.UserID,
			"session_id", key.SessionID,
			"provider", c.completer.Provider(),
			"error", err,
		)
		c.transcript.Log(transcript.Event{
			UserID: key.UserID, SessionID: key.SessionID, GameID: s.ID,
			EventType: transcript.EventCompletionFail, Meta: map[string]any{"error": err.Error()},
		})
		reply = completion.Reply{Text: FallbackReply, InterestLevel: 1}
	}

	if delay > 0 {
		_ = c.sleep(ctx, delay)
	}

	return c.applyReply(ctx, key, s, gen, text, reply)
}

// applyReply records the persona reply and evaluates the outcome, unless the
// session was replaced or finished while the reply was being generated.
func (c *Controller) applyReply(ctx context.Context, key Key, s *Session, gen uint64, userText string, reply completion.Reply) (Snapshot, error) {
	now := c.now()
	c.mu.Lock()
	if cur, ok := c.sessions[key]; !ok || cur != s || s.generation != gen {
		c.mu.Unlock()
		c.logger.Info("discarding reply for replaced session", "user_id", key.UserID, "session_id", key.SessionID)
		return Snapshot{}, ErrSuperseded
	}
	s.pending = false
	if s.Outcome.IsTerminal() {
		snap := s.snapshot(now)
		c.mu.Unlock()
		return snap, nil
	}
	if evaluator.IsExpired(s.Metrics.StartedAt, now) {
		result := c.finishLocked(s, domain.OutcomeTimeout, now)
		snap := s.snapshot(now)
		c.mu.Unlock()
		c.persist(ctx, result)
		return snap, nil
	}

	s.Conv.RecordPersonaTurn(reply.Text, now)
	s.Conv.SetInterest(reply.InterestLevel)
	outcome := evaluator.ClassifyOutcome(reply.Text, userText, s.Conv.InterestLevel)

	var result *domain.GameResult
	if outcome.IsTerminal() {
		result = c.finishLocked(s, outcome, now)
	}
	snap := s.snapshot(now)
	c.mu.Unlock()

	c.transcript.Log(transcript.Event{
		UserID: key.UserID, SessionID: key.SessionID, GameID: s.ID,
		EventType: transcript.EventPersonaMessage, Role: string(domain.RolePersona), Content: reply.Text,
		Meta: map[string]any{"interest_level": snap.InterestLevel, "outcome": outcome.String()},
	})
	c.persist(ctx, result)
	return snap, nil
}

// Tick ends the session as a timeout once its budget has run out.
func (c *Controller) Tick(ctx context.Context, key Key, now time.Time) (Snapshot, error) {
	c.mu.Lock()
	s, ok := c.sessions[key]
	if !ok {
		c.mu.Unlock()
		return Snapshot{}, ErrNoSession
	}
	var result *domain.GameResult
	if !s.Outcome.IsTerminal() && evaluator.IsExpired(s.Metrics.StartedAt, now) {
		result = c.finishLocked(s, domain.OutcomeTimeout, now)
	}
	snap := s.snapshot(now)
	c.mu.Unlock()

	c.persist(ctx, result)
	return snap, nil
}

// Touch marks the session as in use so Sweep does not evict it.
func (c *Controller) Touch(key Key, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[key]; ok {
		s.lastActive = now
	}
}

// finishLocked scores the session and freezes it. Caller holds c.mu.
func (c *Controller) finishLocked(s *Session, outcome domain.Outcome, now time.Time) *domain.GameResult {
	elapsed := s.Metrics.ElapsedSeconds(now)
	score := evaluator.ComputeScore(s.Metrics.WordCount, elapsed, s.Conv.MessageCount, s.Conv.InterestLevel, outcome)

	s.Outcome = outcome
	s.Score = &score
	s.finishedAt = now
	s.pending = false
	s.Metrics.RecordRizzIndex(score.Value)

	c.logger.Info("game finished",
		"user_id", s.Key.UserID,
		"session_id", s.Key.SessionID,
		"game_id", s.ID,
		"outcome", outcome.String(),
		"score", score.Value,
		"rating", score.Rating,
		"elapsed_seconds", elapsed,
		"messages", s.Conv.MessageCount,
	)

	return &domain.GameResult{
		ID:             s.ID,
		UserID:         s.Key.UserID,
		SessionID:      s.Key.SessionID,
		PlayerName:     s.Preferences.Name,
		PersonaName:    s.Persona.Name,
		Outcome:        outcome,
		Score:          score.Value,
		Rating:         score.Rating,
		WordCount:      s.Metrics.WordCount,
		MessageCount:   s.Conv.MessageCount,
		ElapsedSeconds: elapsed,
		InterestLevel:  s.Conv.InterestLevel,
		FinishedAt:     now,
	}
}

func (c *Controller) persist(ctx context.Context, result *domain.GameResult) {
	if result == nil {
		return
	}
	c.transcript.Log(transcript.Event{
		UserID: result.UserID, SessionID: result.SessionID, GameID: result.ID,
		EventType: transcript.EventSessionEnded,
		Meta: map[string]any{
			"outcome": result.Outcome.String(),
			"score":   result.Score,
			"rating":  result.Rating,
		},
	})
	if c.results == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := c.results.SaveResult(ctx, result); err != nil {
		c.logger.Error("failed to save game result", "game_id", result.ID, "user_id", result.UserID, "error", err)
	}
}

// Sweep times out abandoned sessions whose budget ran out and evicts sessions
// idle for longer than the idle TTL.
func (c *Controller) Sweep(ctx context.Context, now time.Time) (timedOut, evicted int) {
	var results []*domain.GameResult

	c.mu.Lock()
	for key, s := range c.sessions {
		if !s.Outcome.IsTerminal() && !s.pending && evaluator.IsExpired(s.Metrics.StartedAt, now) {
			results = append(results, c.finishLocked(s, domain.OutcomeTimeout, now))
			timedOut++
		}
		if !s.pending && now.Sub(s.lastActive) > c.idleTTL {
			delete(c.sessions, key)
			delete(c.generations, key)
			evicted++
		}
	}
	c.mu.Unlock()

	for _, r := range results {
		c.persist(ctx, r)
	}
	return timedOut, evicted
}

// Len returns the number of tracked sessions.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
