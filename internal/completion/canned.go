package completion

import (
	"context"

	"github.com/ashureev/rizz-labs/internal/domain"
)

// cannedBackend never produces text, so every reply is a persona failsafe reply.
type cannedBackend struct{}

func (cannedBackend) name() string { return ProviderCanned }

func (cannedBackend) generate(context.Context, string, []domain.Turn, string) (string, error) {
	return "", nil
}

func (cannedBackend) ping(context.Context) error {
	return ErrNotConfigured
}
