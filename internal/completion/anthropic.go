package completion

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ashureev/rizz-labs/internal/domain"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

type anthropicBackend struct {
	client *anthropic.Client
	model  string
}

func newAnthropicBackend(apiKey, model string, opts ...option.RequestOption) *anthropicBackend {
	if model == "" {
		model = DefaultAnthropicModel
	}
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &anthropicBackend{client: &client, model: model}
}

func (b *anthropicBackend) name() string { return ProviderAnthropic }

func (b *anthropicBackend) generate(ctx context.Context, system string, history []domain.Turn, userText string) (string, error) {
	// The Messages API requires the first message to come from the user.
	messages := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, t := range history {
		switch t.Role {
		case domain.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		case domain.RolePersona:
			if len(messages) == 0 {
				continue
			}
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(userText)))

	msg, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(b.model),
		MaxTokens:   40,
		Temperature: anthropic.Float(0.8),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    messages,
	})
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, block := range msg.Content {
		out.WriteString(block.Text)
	}
	return out.String(), nil
}

func (b *anthropicBackend) ping(ctx context.Context) error {
	_, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: 5,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("Hi"))},
	})
	return err
}
