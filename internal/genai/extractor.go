package genai

import (
	"context"
	"time"

	"github.com/clcdev/sermon-linebot-go/internal/logger"
	"github.com/clcdev/sermon-linebot-go/internal/metrics"
)

// Extractor turns a raw user message plus topic history into an Instruction.
// Extract never fails: when every provider (or its response) is unusable the
// deterministic raw-text fallback is returned, so the search pipeline always
// has a usable instruction.
type Extractor struct {
	providers []Generator
	retry     RetryConfig
	timeout   time.Duration
	logger    *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// ExtractorConfig holds configuration for creating an Extractor.
type ExtractorConfig struct {
	// Providers is the ordered fallback chain. Nil entries are skipped, so
	// callers can pass constructor results directly.
	Providers []Generator
	Retry     RetryConfig
	// Timeout bounds one provider call. Zero means no extra deadline.
	Timeout time.Duration
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	// Now overrides the clock used for the prompt's current-date line (tests).
	Now func() time.Time
}

// NewExtractor creates an instruction extractor.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	providers := make([]Generator, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		if p != nil {
			providers = append(providers, p)
		}
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	log := cfg.Logger
	if log == nil {
		log = logger.New("info")
	}

	return &Extractor{
		providers: providers,
		retry:     retry,
		timeout:   cfg.Timeout,
		logger:    log,
		metrics:   cfg.Metrics,
		now:       now,
	}
}

// Enabled reports whether at least one provider is configured.
func (e *Extractor) Enabled() bool {
	return e != nil && len(e.providers) > 0
}

// Extract produces the normalized instruction for one user message.
// history is the session's topic history, oldest first; the model uses it to
// resolve continuations ("more", "next") to the most recent topic.
func (e *Extractor) Extract(ctx context.Context, rawText string, history []string) Instruction {
	if !e.Enabled() {
		return e.fallback(rawText, "no provider configured")
	}

	prompt := BuildPrompt(e.now(), history, rawText)

	for _, provider := range e.providers {
		inst, err := e.extractWith(ctx, provider, prompt)
		if err == nil {
			return inst
		}

		e.logger.WithModule("genai").
			WithError(err).
			WithField("provider", provider.Provider().String()).
			Warn("Instruction extraction attempt failed")
		e.metrics.RecordExtraction(provider.Provider().String(), "error", 0)

		if ctx.Err() != nil {
			break
		}
	}

	return e.fallback(rawText, "all providers failed")
}

// extractWith runs one provider with retry and decodes its response.
func (e *Extractor) extractWith(ctx context.Context, provider Generator, prompt string) (Instruction, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var inst Instruction
	start := time.Now()

	err := withRetry(ctx, e.retry, func() error {
		raw, err := provider.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		inst, err = DecodeInstruction(raw)
		return err
	})
	if err != nil {
		return Instruction{}, err
	}

	e.metrics.RecordExtraction(provider.Provider().String(), "success", time.Since(start))
	return inst, nil
}

// fallback logs and returns the deterministic raw-text instruction.
func (e *Extractor) fallback(rawText, reason string) Instruction {
	e.logger.WithModule("genai").
		WithField("reason", reason).
		Info("Using deterministic extraction fallback")
	if e.metrics != nil {
		e.metrics.ExtractionFallbackTotal.Inc()
	}
	return Fallback(rawText)
}
