// Package genai implements the instruction extractor: it turns a free-text
// chat message plus the conversation's prior search topics into a normalized
// search instruction using an LLM, with multi-provider fallback and a
// deterministic raw-text fallback when every provider fails.
//
// Architecture:
//   - Gemini: google.golang.org/genai (official SDK, primary)
//   - Groq: github.com/openai/openai-go/v3 (OpenAI-compatible API, fallback)
//
// Fallback strategy:
//  1. Retry the same provider with full-jitter exponential backoff
//  2. Next provider in the chain
//  3. Deterministic fallback instruction derived from the raw text
package genai

import (
	"context"
	"time"
)

// Provider identifies an LLM provider.
type Provider string

const (
	// ProviderGemini is Google's Gemini API.
	ProviderGemini Provider = "gemini"
	// ProviderGroq is Groq's OpenAI-compatible API.
	ProviderGroq Provider = "groq"
)

// String returns the string representation of the provider.
func (p Provider) String() string { return string(p) }

// groqEndpoint is the OpenAI-compatible base URL for Groq.
const groqEndpoint = "https://api.groq.com/openai/v1/"

// Default models. Flash-lite classifies reliably and keeps per-message cost
// negligible at this bot's traffic.
const (
	DefaultGeminiModel = "gemini-2.5-flash-lite"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
)

// DefaultLimit is the result-count used when the user does not state one.
const DefaultLimit = 10

// Instruction is the normalized search instruction produced from one user
// message. Keywords are lower-cased, comma-separated terms (possibly empty).
// Date is "" (no date filter), a DD-MM-YYYY day, or a 4-digit year.
type Instruction struct {
	Keywords string `json:"keywords"`
	Limit    int    `json:"limit"`
	Date     string `json:"date"`
}

// Generator is the language-model collaborator: a prompt in, raw text out.
// Implementations must honor ctx cancellation and deadlines.
type Generator interface {
	// Generate sends the prompt and returns the model's raw text response.
	Generate(ctx context.Context, prompt string) (string, error)
	// Provider returns the provider identity for logging and metrics.
	Provider() Provider
}

// RetryConfig defines retry behavior for LLM API calls.
// Uses full-jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts per provider (including
	// the initial one). Default: 2.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry. Default: 500ms.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries. Default: 3s.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the standard retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  2,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     3 * time.Second,
	}
}
