package genai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiGenerator implements Generator using an OpenAI-compatible API.
// Currently bound to Groq; any compatible endpoint works the same way.
type openaiGenerator struct {
	client   openai.Client
	model    string
	provider Provider
}

// NewGroq creates a Groq-backed generator via the OpenAI-compatible API.
// Returns nil if apiKey is empty (provider disabled).
func NewGroq(apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		model = DefaultGroqModel
	}

	client := openai.NewClient(
		option.WithBaseURL(groqEndpoint),
		option.WithAPIKey(apiKey),
	)

	return &openaiGenerator{client: client, model: model, provider: ProviderGroq}, nil
}

// Generate sends the prompt as a single user message and returns the raw
// text of the first choice.
func (g *openaiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.1), // Low temperature for consistent extraction
		MaxTokens:   openai.Int(256),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from model")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", errors.New("no text in response")
	}
	return content, nil
}

// Provider returns the provider identity.
func (g *openaiGenerator) Provider() Provider { return g.provider }
