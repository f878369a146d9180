package genai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// geminiGenerator implements Generator using Google's Gemini API.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed generator.
// Returns nil if apiKey is empty (provider disabled).
func NewGemini(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiGenerator{client: client, model: model}, nil
}

// Generate sends the prompt and returns the raw text response.
func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.1), // Low temperature for consistent extraction
		MaxOutputTokens: 256,                     // One small JSON object
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	return collectText(result)
}

// collectText concatenates the text parts of the first candidate.
func collectText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in response")
	}
	return sb.String(), nil
}

// Provider returns ProviderGemini.
func (g *geminiGenerator) Provider() Provider { return ProviderGemini }
