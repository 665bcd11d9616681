package completion

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ashureev/rizz-labs/internal/domain"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

type geminiBackend struct {
	client *genai.Client
	model  string
}

func newGeminiBackend(ctx context.Context, apiKey, model string) (*geminiBackend, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiBackend{client: client, model: model}, nil
}

func (b *geminiBackend) name() string { return ProviderGemini }

func (b *geminiBackend) generate(ctx context.Context, system string, history []domain.Turn, userText string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		role := string(genai.RoleUser)
		if t.Role == domain.RolePersona {
			role = string(genai.RoleModel)
		}
		contents = append(contents, &genai.Content{Parts: []*genai.Part{{Text: t.Content}}, Role: role})
	}
	contents = append(contents, &genai.Content{Parts: []*genai.Part{{Text: userText}}, Role: string(genai.RoleUser)})

	temperature := float32(0.8)
	result, err := b.client.Models.GenerateContent(ctx, b.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   40,
	})
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Thought {
				continue
			}
			out.WriteString(part.Text)
		}
	}
	return out.String(), nil
}

func (b *geminiBackend) ping(ctx context.Context) error {
	_, err := b.client.Models.GenerateContent(ctx, b.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: "Hi"}}, Role: string(genai.RoleUser)}},
		&genai.GenerateContentConfig{MaxOutputTokens: 5})
	return err
}
