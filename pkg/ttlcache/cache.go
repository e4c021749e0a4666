// Package ttlcache is a process-local key/value cache whose entries expire
// after a fixed time-to-live. Expired entries are never served.
package ttlcache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kazz187/taskdigest/pkg/metrics"
)

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

type Cache[V any] struct {
	name  string
	ttl   time.Duration
	clock Clock

	mu      sync.Mutex
	entries map[string]entry[V]
	group   singleflight.Group
}

type Option func(*options)

type options struct {
	clock Clock
}

func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// New creates a cache. name labels the cache in metrics.
func New[V any](name string, ttl time.Duration, opts ...Option) *Cache[V] {
	o := &options{clock: SystemClock()}
	for _, opt := range opts {
		opt(o)
	}
	return &Cache[V]{
		name:    name,
		ttl:     ttl,
		clock:   o.clock,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the value for key if it was stored less than ttl ago.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.clock.Now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, fetchedAt: c.clock.Now()}
}

// GetOrLoad returns the cached value for key or calls load on a miss.
// Concurrent misses for the same key share one load, which runs detached from
// the cancellation of whichever caller started it. Only successful loads are
// stored.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		metrics.RecordCacheLookup(c.name, true)
		return v, nil
	}
	metrics.RecordCacheLookup(c.name, false)

	res, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
