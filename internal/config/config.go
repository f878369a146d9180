// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, timeouts, archive access, and LLM providers.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string

	// Archive (record source) Configuration
	SheetID           string // Google Sheets spreadsheet ID holding the sermon archive
	ArchiveBackend    string // "gviz" (JSON endpoint) or "pubhtml" (published HTML table)
	ArchiveSheetGID   string // Sheet tab GID (default "0", the first tab)
	ArchiveTimeout    time.Duration
	ArchiveMaxRetries int

	// LLM Configuration
	GeminiAPIKey string // Gemini API key for instruction extraction (primary)
	GroqAPIKey   string // Groq API key (OpenAI-compatible fallback provider)
	GeminiModel  string // Gemini model override (empty = genai package default)
	GroqModel    string // Groq model override (empty = genai package default)
	LLMTimeout   time.Duration

	// LLM Rate Limits (per chat, token bucket)
	LLMRateBurst  float64 // Maximum burst tokens per chat (default: 5)
	LLMRateRefill float64 // Tokens refilled per second (default: 0.05 = 1 per 20s)

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Sentry Configuration (optional)
	SentryDSN         string
	SentryEnvironment string

	// Better Stack Configuration (optional)
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics Basic Auth (empty = no auth)
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		LineChannelToken:  getEnv(EnvLineChannelAccessToken, ""),
		LineChannelSecret: getEnv(EnvLineChannelSecret, ""),

		SheetID:           getEnv(EnvSheetID, ""),
		ArchiveBackend:    getEnv(EnvArchiveBackend, "gviz"),
		ArchiveSheetGID:   getEnv(EnvArchiveSheetGID, "0"),
		ArchiveTimeout:    getDurationEnv(EnvArchiveTimeout, ArchiveRequest),
		ArchiveMaxRetries: getIntEnv(EnvArchiveMaxRetries, 3),

		GeminiAPIKey: getEnv(EnvGeminiAPIKey, ""),
		GroqAPIKey:   getEnv(EnvGroqAPIKey, ""),
		GeminiModel:  getEnv(EnvGeminiModel, ""),
		GroqModel:    getEnv(EnvGroqModel, ""),
		LLMTimeout:   getDurationEnv(EnvLLMTimeout, LLMRequest),

		LLMRateBurst:  getFloatEnv(EnvLLMRateBurst, 5.0),
		LLMRateRefill: getFloatEnv(EnvLLMRateRefill, 0.05), // 1 per 20s

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, Shutdown),

		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.LineChannelToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvLineChannelAccessToken))
	}
	if c.LineChannelSecret == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvLineChannelSecret))
	}
	if c.SheetID == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvSheetID))
	}
	if c.ArchiveBackend != "gviz" && c.ArchiveBackend != "pubhtml" {
		errs = append(errs, fmt.Errorf("%s must be \"gviz\" or \"pubhtml\", got %q", EnvArchiveBackend, c.ArchiveBackend))
	}
	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.ArchiveTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvArchiveTimeout, c.ArchiveTimeout))
	}
	if c.ArchiveMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvArchiveMaxRetries, c.ArchiveMaxRetries))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLLMTimeout, c.LLMTimeout))
	}
	if c.LLMRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLLMRateBurst, c.LLMRateBurst))
	}
	if c.LLMRateRefill <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLLMRateRefill, c.LLMRateRefill))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HasLLMProvider returns true if at least one LLM provider is configured.
func (c *Config) HasLLMProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != ""
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
