// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Core (Required)
	EnvLineChannelAccessToken = "SERMON_LINE_CHANNEL_ACCESS_TOKEN"
	EnvLineChannelSecret      = "SERMON_LINE_CHANNEL_SECRET"
	EnvSheetID                = "SERMON_SHEET_ID"

	// Server
	EnvPort            = "SERMON_PORT"
	EnvLogLevel        = "SERMON_LOG_LEVEL"
	EnvShutdownTimeout = "SERMON_SHUTDOWN_TIMEOUT"

	// Archive (record source)
	EnvArchiveBackend    = "SERMON_ARCHIVE_BACKEND" // "gviz" or "pubhtml"
	EnvArchiveSheetGID   = "SERMON_ARCHIVE_SHEET_GID"
	EnvArchiveTimeout    = "SERMON_ARCHIVE_TIMEOUT"
	EnvArchiveMaxRetries = "SERMON_ARCHIVE_MAX_RETRIES"

	// LLM Feature
	EnvGeminiAPIKey = "SERMON_GEMINI_API_KEY"
	EnvGroqAPIKey   = "SERMON_GROQ_API_KEY"
	EnvGeminiModel  = "SERMON_GEMINI_MODEL"
	EnvGroqModel    = "SERMON_GROQ_MODEL"
	EnvLLMTimeout   = "SERMON_LLM_TIMEOUT"

	// Rate Limits
	EnvLLMRateBurst  = "SERMON_LLM_RATE_BURST"
	EnvLLMRateRefill = "SERMON_LLM_RATE_REFILL"

	// Sentry Feature
	EnvSentryDSN         = "SERMON_SENTRY_DSN"
	EnvSentryEnvironment = "SERMON_SENTRY_ENVIRONMENT"

	// Better Stack Feature
	EnvBetterStackToken    = "SERMON_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "SERMON_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "SERMON_METRICS_USERNAME"
	EnvMetricsPassword = "SERMON_METRICS_PASSWORD"
)
