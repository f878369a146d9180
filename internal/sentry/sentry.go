// Package sentry wraps Sentry SDK initialization and the Gin middleware.
// With no DSN configured every call is a no-op.
package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Config holds Sentry configuration.
type Config struct {
	// DSN is the Sentry project DSN. Empty disables Sentry entirely.
	DSN string

	// Environment identifies the deployment environment.
	Environment string

	// Release identifies the application release version.
	Release string

	// Debug enables Sentry SDK debug logging.
	Debug bool
}

// Initialize sets up the Sentry SDK. A missing DSN disables it.
func Initialize(cfg Config) error {
	if cfg.DSN == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Middleware returns the Gin middleware that captures panics and attaches a
// hub to the request context. It recovers the request so the server keeps
// serving.
func Middleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: false})
}

// IsEnabled reports whether Sentry was initialized with a DSN.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureException sends an error to Sentry, using the hub attached to ctx
// when present.
func CaptureException(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// Flush waits for buffered events to be sent.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
