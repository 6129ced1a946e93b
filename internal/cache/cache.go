// Package cache memoizes search results per term for a short window.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/taigrr/appfinder/internal/textutil"
	"github.com/taigrr/appfinder/internal/types"
)

const (
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = time.Minute
)

// ComputeFunc produces the results for a term on a cache miss.
type ComputeFunc func(ctx context.Context) ([]types.SearchResult, error)

// Options configures a Cache. Zero values select the defaults.
type Options struct {
	TTL           time.Duration
	SweepInterval time.Duration
	Now           func() time.Time
	Logger        *slog.Logger
}

type entry struct {
	results   []types.SearchResult
	createdAt time.Time
}

// Cache maps normalized search terms to results. Entries are replaced,
// never modified.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	flight        singleflight.Group
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// New creates a new Cache.
func New(opts Options) *Cache {
	c := &Cache{
		entries:       make(map[string]entry),
		ttl:           opts.TTL,
		sweepInterval: opts.SweepInterval,
		now:           opts.Now,
		logger:        opts.Logger,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.sweepInterval <= 0 {
		c.sweepInterval = DefaultSweepInterval
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Key returns the normalized cache key for term.
func Key(term string) string {
	return textutil.Fold(strings.TrimSpace(term))
}

// Get returns a copy of the unexpired results cached for term.
func (c *Cache) Get(term string) ([]types.SearchResult, bool) {
	return c.lookup(Key(term))
}

func (c *Cache) lookup(key string) ([]types.SearchResult, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.expired(e) {
		return nil, false
	}
	return slices.Clone(e.results), true
}

func (c *Cache) store(key string, results []types.SearchResult) {
	c.mu.Lock()
	c.entries[key] = entry{results: slices.Clone(results), createdAt: c.now()}
	c.mu.Unlock()
}

func (c *Cache) expired(e entry) bool {
	return c.now().Sub(e.createdAt) >= c.ttl
}

// GetOrCompute returns the cached results for term, or runs compute and
// caches its result. Concurrent misses for the same term share one
// computation. Failed computations are not cached. The boolean reports a
// cache hit.
func (c *Cache) GetOrCompute(ctx context.Context, term string, compute ComputeFunc) ([]types.SearchResult, bool, error) {
	key := Key(term)
	if key == "" {
		return []types.SearchResult{}, false, nil
	}
	if results, ok := c.lookup(key); ok {
		return results, true, nil
	}

	ch := c.flight.DoChan(key, func() (any, error) {
		if results, ok := c.lookup(key); ok {
			return results, nil
		}
		results, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, results)
		return results, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err == nil {
			return slices.Clone(res.Val.([]types.SearchResult)), false, nil
		}
		// A shared computation that died with its leader's context says
		// nothing about ours.
		if res.Shared && isContextErr(res.Err) && ctx.Err() == nil {
			c.logger.Debug("shared computation cancelled, recomputing", "term", key)
			results, err := compute(ctx)
			if err != nil {
				return nil, false, err
			}
			c.store(key, results)
			return slices.Clone(results), false, nil
		}
		return nil, false, res.Err
	}
}

// Invalidate removes the entry for term.
func (c *Cache) Invalidate(term string) {
	key := Key(term)
	if key == "" {
		return
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll removes every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep removes expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps expired entries every sweep interval until ctx is done.
func (c *Cache) Run(ctx context.Context) {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.logger.Debug("swept expired search results", "removed", n, "remaining", c.Len())
			}
		}
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
