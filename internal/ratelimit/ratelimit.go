// Package ratelimit provides token bucket rate limiting for the bot.
// The LLM extraction call is the only expensive upstream; a small per-chat
// bucket keeps one chatty conversation from draining the quota for everyone.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket rate limiter.
type Limiter struct {
	mu         sync.Mutex
	maxTokens  float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
}

// New creates a limiter with the given burst capacity and refill rate
// (tokens per second). The bucket starts full.
func New(maxTokens, refillRate float64) *Limiter {
	return &Limiter{
		maxTokens:  maxTokens,
		refillRate: refillRate,
		tokens:     maxTokens,
		lastRefill: time.Now(),
	}
}

// refill adds tokens according to elapsed time. Caller must hold mu.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.lastRefill = now

	l.tokens += elapsed * l.refillRate
	if l.tokens > l.maxTokens {
		l.tokens = l.maxTokens
	}
}

// Allow reports whether a token is available, consuming one if so.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		l.mu.Lock()
		missing := 1 - l.tokens
		var delay time.Duration
		if l.refillRate > 0 {
			delay = time.Duration(missing / l.refillRate * float64(time.Second))
		} else {
			delay = 100 * time.Millisecond
		}
		l.mu.Unlock()

		if delay < time.Millisecond {
			delay = time.Millisecond
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
