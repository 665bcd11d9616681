// Package completion produces persona replies and the persona's interest level.
//
// A Service estimates interest from the conversation, builds a persona system prompt,
// and asks a provider backend (OpenAI, Anthropic, Gemini, or the offline canned set)
// for a short reply. Empty completions are replaced by a persona failsafe reply.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/rizz-labs/internal/domain"
	"github.com/ashureev/rizz-labs/internal/persona"
)

// HistoryWindow is the number of prior turns sent to the provider.
const HistoryWindow = 6

// ErrNotConfigured is returned when a provider has no credentials.
var ErrNotConfigured = errors.New("completion provider not configured")

// Request carries everything a provider needs to produce the next persona reply.
// History holds the turns before UserText.
type Request struct {
	Persona      domain.Persona
	History      []domain.Turn
	UserText     string
	MessageCount int
}

// Reply is the persona's next message and its updated interest level.
type Reply struct {
	Text          string  `json:"text"`
	InterestLevel float64 `json:"interest_level"`
}

// Completer generates persona replies.
type Completer interface {
	Complete(ctx context.Context, req Request) (Reply, error)
	Ping(ctx context.Context) error
	Provider() string
}

// backend is a single provider API.
type backend interface {
	name() string
	generate(ctx context.Context, system string, history []domain.Turn, userText string) (string, error)
	ping(ctx context.Context) error
}

// Service implements Completer on top of a provider backend.
type Service struct {
	backend backend
	timeout time.Duration
	logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

var _ Completer = (*Service)(nil)

func newService(b backend, timeout time.Duration, rng *rand.Rand, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Service{backend: b, timeout: timeout, rng: rng, logger: logger}
}

// Provider returns the backend name.
func (s *Service) Provider() string {
	return s.backend.name()
}

// Complete estimates interest, prompts the provider, and returns its reply.
// A provider error is returned as is; callers decide on the fallback.
func (s *Service) Complete(ctx context.Context, req Request) (Reply, error) {
	conv := domain.ConversationContext{
		Turns:        append(append([]domain.Turn(nil), req.History...), domain.Turn{Role: domain.RoleUser, Content: req.UserText}),
		MessageCount: req.MessageCount,
	}

	s.mu.Lock()
	interest := EstimateInterest(conv, s.rng)
	s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	history := req.History
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	text, err := s.backend.generate(ctx, SystemPrompt(req.Persona, interest), history, req.UserText)
	if err != nil {
		return Reply{}, fmt.Errorf("%s completion: %w", s.backend.name(), err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn("empty completion, using failsafe reply", "provider", s.backend.name())
		s.mu.Lock()
		text = persona.FailsafeReply(req.Persona, s.rng)
		s.mu.Unlock()
	}
	return Reply{Text: text, InterestLevel: interest}, nil
}

// Ping checks that the provider is reachable with the configured credentials.
func (s *Service) Ping(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.backend.ping(ctx)
}
