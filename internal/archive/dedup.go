package archive

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// DedupSource wraps a Source so concurrent fetches share one in-flight
// request. Every search still does a cold read, but a burst of messages in a
// group chat hits the sheet once instead of once per message.
type DedupSource struct {
	inner Source
	group singleflight.Group
}

// NewDedupSource wraps src with in-flight deduplication.
func NewDedupSource(src Source) *DedupSource {
	return &DedupSource{inner: src}
}

// Backend returns the wrapped backend name.
func (s *DedupSource) Backend() string { return s.inner.Backend() }

// FetchAll fetches through the wrapped source, collapsing concurrent calls.
func (s *DedupSource) FetchAll(ctx context.Context) ([]Record, error) {
	v, err, _ := s.group.Do("fetch", func() (any, error) {
		return s.inner.FetchAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Record), nil
}
