package completion

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/ashureev/rizz-labs/internal/domain"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-3.5-turbo"

type openAIBackend struct {
	client *openai.Client
	model  string
}

func newOpenAIBackend(apiKey, model string, opts ...option.RequestOption) *openAIBackend {
	if model == "" {
		model = DefaultOpenAIModel
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &openAIBackend{client: &client, model: model}
}

func (b *openAIBackend) name() string { return ProviderOpenAI }

func (b *openAIBackend) generate(ctx context.Context, system string, history []domain.Turn, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(system))
	for _, t := range history {
		switch t.Role {
		case domain.RoleUser:
			messages = append(messages, openai.UserMessage(t.Content))
		case domain.RolePersona:
			messages = append(messages, openai.AssistantMessage(t.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userText))

	completion, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:            openai.ChatModel(b.model),
		Messages:         messages,
		MaxTokens:        openai.Int(25),
		Temperature:      openai.Float(0.8),
		PresencePenalty:  openai.Float(0.8),
		FrequencyPenalty: openai.Float(0.5),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

func (b *openAIBackend) ping(ctx context.Context) error {
	completion, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(b.model),
		Messages:  []openai.ChatCompletionMessageParamUnion{openai.UserMessage("Hi")},
		MaxTokens: openai.Int(5),
	})
	if err != nil {
		return err
	}
	if len(completion.Choices) == 0 {
		return errors.New("no choices returned")
	}
	return nil
}
