package ratelimit

import (
	"sync"
	"time"
)

// idleEvictAfter is how long an untouched bucket survives before cleanup.
const idleEvictAfter = time.Hour

// KeyedLimiter maintains one token bucket per key (chat ID).
// Buckets are created lazily and evicted after sitting idle so long-running
// processes do not accumulate a bucket for every conversation ever seen.
type KeyedLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*keyedEntry
	maxTokens  float64
	refillRate float64
}

type keyedEntry struct {
	limiter  *Limiter
	lastSeen time.Time
}

// NewKeyed creates a keyed limiter whose buckets have the given burst
// capacity and refill rate (tokens per second).
func NewKeyed(maxTokens, refillRate float64) *KeyedLimiter {
	return &KeyedLimiter{
		limiters:   make(map[string]*keyedEntry),
		maxTokens:  maxTokens,
		refillRate: refillRate,
	}
}

// Allow reports whether the bucket for key has a token, consuming one if so.
func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	entry, ok := k.limiters[key]
	if !ok {
		entry = &keyedEntry{limiter: New(k.maxTokens, k.refillRate)}
		k.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	k.mu.Unlock()

	return entry.limiter.Allow()
}

// Cleanup evicts buckets idle longer than idleEvictAfter and returns how
// many were removed. Call periodically from a background task.
func (k *KeyedLimiter) Cleanup() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := time.Now().Add(-idleEvictAfter)
	removed := 0
	for key, entry := range k.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(k.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live buckets.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.limiters)
}
