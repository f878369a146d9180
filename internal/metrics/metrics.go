// Package metrics defines the Prometheus instrumentation for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Instruction extraction metrics
	ExtractionTotal           *prometheus.CounterVec
	ExtractionDurationSeconds *prometheus.HistogramVec
	ExtractionFallbackTotal   prometheus.Counter

	// Archive (record source) metrics
	ArchiveFetchTotal           *prometheus.CounterVec
	ArchiveFetchDurationSeconds prometheus.Histogram
	ArchiveRecordCount          prometheus.Gauge

	// Search metrics
	SearchTotal *prometheus.CounterVec

	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		ExtractionTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sermon_extraction_total",
				Help: "Total instruction extraction attempts by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error, fallback
		),

		ExtractionDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sermon_extraction_duration_seconds",
				Help:    "Instruction extraction duration in seconds by provider",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10}, // Matches 10s LLM timeout
			},
			[]string{"provider"},
		),

		ExtractionFallbackTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "sermon_extraction_fallback_total",
				Help: "Total searches that ran on the deterministic raw-text fallback",
			},
		),

		ArchiveFetchTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sermon_archive_fetch_total",
				Help: "Total archive fetches by backend and status",
			},
			[]string{"backend", "status"}, // backend: gviz, pubhtml; status: success, error
		),

		ArchiveFetchDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sermon_archive_fetch_duration_seconds",
				Help:    "Archive fetch duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 15},
			},
		),

		ArchiveRecordCount: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "sermon_archive_record_count",
				Help: "Number of records returned by the most recent archive fetch",
			},
		),

		SearchTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sermon_search_total",
				Help: "Total searches by kind and outcome",
			},
			[]string{"kind", "outcome"}, // kind: keyword, date; outcome: page, no_match, exhausted, error
		),

		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sermon_webhook_requests_total",
				Help: "Total webhook events by type and status",
			},
			[]string{"event_type", "status"}, // event_type: message, follow; status: success, error, skipped
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sermon_webhook_duration_seconds",
				Help:    "Webhook event processing duration in seconds by event type",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 15, 45},
			},
			[]string{"event_type"},
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sermon_rate_limiter_dropped_total",
				Help: "Total requests degraded or dropped by rate limiting, by limiter",
			},
			[]string{"limiter"}, // limiter: llm
		),
	}
}

// RecordExtraction records one extraction attempt.
func (m *Metrics) RecordExtraction(provider, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ExtractionTotal.WithLabelValues(provider, status).Inc()
	m.ExtractionDurationSeconds.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordArchiveFetch records one archive fetch.
func (m *Metrics) RecordArchiveFetch(backend, status string, duration time.Duration, records int) {
	if m == nil {
		return
	}
	m.ArchiveFetchTotal.WithLabelValues(backend, status).Inc()
	m.ArchiveFetchDurationSeconds.Observe(duration.Seconds())
	if status == "success" {
		m.ArchiveRecordCount.Set(float64(records))
	}
}

// RecordSearch records one completed search pipeline run.
func (m *Metrics) RecordSearch(kind, outcome string) {
	if m == nil {
		return
	}
	m.SearchTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordWebhook records one webhook event.
func (m *Metrics) RecordWebhook(eventType, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	if duration > 0 {
		m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration.Seconds())
	}
}
