package completion

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
)

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderCanned    = "canned"
)

// Config selects and configures a provider.
type Config struct {
	Provider        string
	Model           string
	Timeout         time.Duration
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string
}

// New builds a Service for cfg.Provider. A provider without an API key falls back to the
// canned backend so the game stays playable offline.
func New(ctx context.Context, cfg Config, rng *rand.Rand, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	key := map[string]string{
		ProviderOpenAI:    cfg.OpenAIAPIKey,
		ProviderAnthropic: cfg.AnthropicAPIKey,
		ProviderGemini:    cfg.GoogleAPIKey,
	}

	var b backend
	switch provider {
	case ProviderCanned:
		b = cannedBackend{}
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		if key[provider] == "" {
			logger.Warn("completion API key missing, using canned replies", "provider", provider)
			b = cannedBackend{}
			break
		}
		switch provider {
		case ProviderOpenAI:
			b = newOpenAIBackend(key[provider], cfg.Model)
		case ProviderAnthropic:
			b = newAnthropicBackend(key[provider], cfg.Model)
		case ProviderGemini:
			g, err := newGeminiBackend(ctx, key[provider], cfg.Model)
			if err != nil {
				return nil, err
			}
			b = g
		}
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}

	logger.Info("completion provider ready", "provider", b.name(), "model", cfg.Model)
	return newService(b, cfg.Timeout, rng, logger), nil
}

// NewCanned returns an offline Service that only uses failsafe replies.
func NewCanned(rng *rand.Rand, logger *slog.Logger) *Service {
	return newService(cannedBackend{}, 0, rng, logger)
}

// Status reports "working" when the provider answers a ping and "failed" otherwise.
func Status(ctx context.Context, c Completer) string {
	if c == nil {
		return "failed"
	}
	if err := c.Ping(ctx); err != nil {
		return "failed"
	}
	return "working"
}
