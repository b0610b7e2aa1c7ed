package service

import (
	"context"
	"sync"
	"time"

	"github.com/skilltrust/portal/internal/api/metrics"
)

// ViewCache is an identity-keyed read cache for upstream view data. The key
// must include every parameter that affects the result (path, page, filters,
// and the session token for per-user views).
//
// Writes follow latest-request-wins ordering: each Load for a key takes a new
// generation; a load that finishes after a newer load has started for the
// same key returns its own result but never overwrites the cache, so an old
// in-flight request can never regress the visible state.
type ViewCache[T any] struct {
	mu      sync.Mutex
	entries map[string]*viewEntry[T]
	now     func() time.Time
}

type viewEntry[T any] struct {
	gen       uint64 // newest generation issued for this key
	applied   uint64 // generation of the cached value
	val       T
	ok        bool
	fetchedAt time.Time
}

func NewViewCache[T any]() *ViewCache[T] {
	return &ViewCache[T]{
		entries: make(map[string]*viewEntry[T]),
		now:     time.Now,
	}
}

// Load returns the cached value for key when younger than ttl, otherwise
// runs fetch and caches the result subject to the latest-wins rule. Errors
// are returned to the caller and never cached.
func (c *ViewCache[T]) Load(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &viewEntry[T]{}
		c.entries[key] = e
	}
	if e.ok && c.now().Sub(e.fetchedAt) < ttl {
		val := e.val
		c.mu.Unlock()
		metrics.ViewCacheTotal.WithLabelValues("hit").Inc()
		return val, nil
	}
	e.gen++
	gen := e.gen
	c.mu.Unlock()
	metrics.ViewCacheTotal.WithLabelValues("miss").Inc()

	val, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == e.gen {
		e.val = val
		e.ok = true
		e.applied = gen
		e.fetchedAt = c.now()
	} else {
		metrics.ViewCacheTotal.WithLabelValues("stale_drop").Inc()
	}
	return val, nil
}

// Peek returns the currently visible value for key without fetching.
func (c *ViewCache[T]) Peek(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && e.ok {
		return e.val, true
	}
	var zero T
	return zero, false
}

// Invalidate drops the cached values for the given keys. Bumping the
// generation supersedes loads already in flight, so a read that started
// before the mutation cannot re-cache the pre-mutation value.
func (c *ViewCache[T]) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		if e, ok := c.entries[k]; ok {
			e.ok = false
			e.gen++
		}
	}
}

// InvalidatePrefix drops every cached value whose key starts with prefix,
// used after mutations that touch a whole view family (e.g. all pages of a
// verification queue). In-flight loads are superseded the same way as in
// Invalidate.
func (c *ViewCache[T]) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			e.ok = false
			e.gen++
		}
	}
}
