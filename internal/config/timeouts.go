package config

import "time"

// Timeout defaults. The webhook budget must cover one LLM call plus one archive
// fetch; LINE invalidates reply tokens after roughly one minute, so the whole
// pipeline has to finish well inside that.
const (
	// WebhookProcessing bounds end-to-end handling of a single event.
	WebhookProcessing = 45 * time.Second

	// LLMRequest bounds a single instruction-extraction call.
	LLMRequest = 10 * time.Second

	// ArchiveRequest bounds a single record-source fetch.
	ArchiveRequest = 15 * time.Second

	// Shutdown is the default grace period for in-flight requests on SIGTERM.
	Shutdown = 30 * time.Second
)
