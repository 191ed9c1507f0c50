// Package cache provides the request cache shared by content loaders.
//
// A RequestCache deduplicates loads by key: concurrent callers share one
// in-flight load, successful results are kept for the lifetime of the cache,
// and failed loads are forgotten so the next caller retries.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader produces the value for a key on a cache miss.
type Loader[V any] func(ctx context.Context) (V, error)

// Options controls a single Get call.
type Options struct {
	// Bust bypasses memoization: the loader always runs and the cache is
	// neither read nor written.
	Bust bool
}

// Metrics receives cache lifecycle events.
type Metrics interface {
	// Hit is called when a resolved entry is returned.
	Hit()
	// Miss is called when a caller has to go through the loader path.
	Miss()
	// Bypass is called for busted calls.
	Bypass()
	// Evict is called when a failed load removes its entry.
	Evict()
}

// NoopMetrics discards every event.
type NoopMetrics struct{}

func (NoopMetrics) Hit()    {}
func (NoopMetrics) Miss()   {}
func (NoopMetrics) Bypass() {}
func (NoopMetrics) Evict()  {}

// Option configures a RequestCache.
type Option func(*config)

type config struct {
	metrics Metrics
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// RequestCache is a single-flight memoizing cache.
// It has no size bound; entries live until Forget, Reset or the cache is dropped.
type RequestCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]V

	group   singleflight.Group
	metrics Metrics
}

// New creates an empty RequestCache.
func New[V any](opts ...Option) *RequestCache[V] {
	cfg := config{metrics: NoopMetrics{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &RequestCache[V]{
		entries: make(map[string]V),
		metrics: cfg.metrics,
	}
}

// Get returns the shared result for key, invoking loader at most once for all
// concurrent callers. A failing load is removed before the error is returned,
// and every waiter of that load receives the same error.
func (c *RequestCache[V]) Get(ctx context.Context, key string, loader Loader[V], opts Options) (V, error) {
	if opts.Bust {
		c.metrics.Bypass()
		return loader(ctx)
	}

	if v, ok := c.lookup(key); ok {
		c.metrics.Hit()
		return v, nil
	}
	c.metrics.Miss()

	// Loads are not tied to the first caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	res, err, _ := c.group.Do(key, func() (any, error) {
		// A load for key may have completed between lookup and Do.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := loader(loadCtx)
		if err != nil {
			c.metrics.Evict()
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}

// Len returns the number of resolved entries.
func (c *RequestCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Forget removes a resolved entry. In-flight loads are unaffected.
func (c *RequestCache[V]) Forget(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Reset removes all resolved entries.
func (c *RequestCache[V]) Reset() {
	c.mu.Lock()
	c.entries = make(map[string]V)
	c.mu.Unlock()
}

func (c *RequestCache[V]) lookup(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}
