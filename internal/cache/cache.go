// Package cache holds query results in memory until they expire or a
// mutation invalidates them.
//
// Keys are hierarchical, e.g. ("goals", teamID, "2025"). Invalidating a
// prefix drops every key under it, so Invalidate("goals") marks all goal
// lists stale while Invalidate("goal", id) only touches one goal.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const sep = "/"

type Key []string

func (k Key) String() string {
	return strings.Join(k, sep)
}

type entry struct {
	value   any
	expires time.Time
}

type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	gen     uint64
	group   singleflight.Group
	now     func() time.Time
}

// New creates a cache whose entries live for ttl. A ttl of zero or less
// disables storage; Fetch then always calls its loader.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Fetch returns the cached value for key or loads it. Concurrent misses for
// the same key share one load. The shared load runs detached from the
// caller's cancellation, so one caller going away does not fail the others;
// each caller stops waiting when its own ctx is done. A load that overlaps an
// invalidation is returned to its callers but not stored.
func Fetch[T any](ctx context.Context, c *Cache, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	if c == nil || c.ttl <= 0 {
		return load(ctx)
	}

	k := key.String()
	if v, ok := c.get(k); ok {
		return v.(T), nil
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		v, err := load(detached)
		if err != nil {
			return v, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.entries[k] = entry{value: v, expires: c.now().Add(c.ttl)}
		}
		c.mu.Unlock()

		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (c *Cache) get(k string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, k)
		return nil, false
	}
	return e.value, true
}

// Invalidate drops the key equal to prefix and every key below it.
func (c *Cache) Invalidate(prefix ...string) {
	if c == nil {
		return
	}

	p := Key(prefix).String()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for k := range c.entries {
		if k == p || strings.HasPrefix(k, p+sep) {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
