package cache

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/stvn101/carbonintelligence/core/logger"
)

// entry is a stored value with its lifetime bounds.
type entry[V any] struct {
	value     V
	createdAt time.Time
	expiresAt time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// touch records when a key was last used. seq is a per-cache counter that orders
// touches sharing the same timestamp.
type touch struct {
	at  time.Time
	seq uint64
}

func (t touch) before(o touch) bool {
	if t.at.Equal(o.at) {
		return t.seq < o.seq
	}
	return t.at.Before(o.at)
}

// Cache is a bounded in-memory cache with LRU eviction and per-entry TTL.
//
// The entry store and the recency tracker are separate maps that always hold the
// same key set. All methods are safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	entries map[K]*entry[V]
	recency map[K]touch
	seq     uint64

	hits      uint64
	misses    uint64
	evictions uint64
	sets      uint64

	maxSize    int
	defaultTTL time.Duration
	name       string
	logger     *slog.Logger
	now        func() time.Time
	clone      func(V) V
	onEvict    func(K, V)

	loads singleflight.Group
}

// New creates a cache. It fails with ErrInvalidConfig if the capacity or default
// TTL is not positive, or if a typed hook does not match K and V.
func New[K comparable, V any](opts ...Option) (*Cache[K, V], error) {
	s := settings{
		name:   "cache-" + uuid.NewString()[:8],
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}

	c := &Cache[K, V]{
		entries:    make(map[K]*entry[V]),
		recency:    make(map[K]touch),
		maxSize:    DefaultMaxSize,
		defaultTTL: DefaultTTL,
		name:       s.name,
		logger:     s.logger,
		now:        s.now,
	}

	if s.maxSize != nil {
		if *s.maxSize <= 0 {
			return nil, fmt.Errorf("%w: %w, got %d", ErrInvalidConfig, ErrInvalidMaxSize, *s.maxSize)
		}
		c.maxSize = *s.maxSize
	}
	if s.defaultTTL != nil {
		if *s.defaultTTL <= 0 {
			return nil, fmt.Errorf("%w: default ttl must be positive, got %s", ErrInvalidConfig, *s.defaultTTL)
		}
		c.defaultTTL = *s.defaultTTL
	}
	if s.clone != nil {
		fn, ok := s.clone.(func(V) V)
		if !ok {
			return nil, fmt.Errorf("%w: clone func has type %T", ErrInvalidConfig, s.clone)
		}
		c.clone = fn
	}
	if s.onEvict != nil {
		fn, ok := s.onEvict.(func(K, V))
		if !ok {
			return nil, fmt.Errorf("%w: evict callback has type %T", ErrInvalidConfig, s.onEvict)
		}
		c.onEvict = fn
	}

	return c, nil
}

// MustNew is like New but panics on error. Useful at process start.
func MustNew[K comparable, V any](opts ...Option) *Cache[K, V] {
	c, err := New[K, V](opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the instance name.
func (c *Cache[K, V]) Name() string { return c.name }

// Logger returns the logger the cache was built with.
func (c *Cache[K, V]) Logger() *slog.Logger { return c.logger }

// MaxSize returns the capacity bound.
func (c *Cache[K, V]) MaxSize() int { return c.maxSize }

// DefaultTTL returns the TTL applied when Set has no WithTTL option.
func (c *Cache[K, V]) DefaultTTL() time.Duration { return c.defaultTTL }

// Set inserts or overwrites key. When key is new and the cache is full, expired
// entries are dropped first and then the least recently touched entry is evicted.
// Set always succeeds.
func (c *Cache[K, V]) Set(key K, value V, opts ...SetOption) bool {
	o := setOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	ttl := c.defaultTTL
	if o.hasTTL {
		ttl = o.ttl
	}

	c.mu.Lock()
	now := c.now()

	var (
		victimKey K
		victimVal V
		evicted   bool
	)
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.removeExpiredLocked(now)
		if len(c.entries) >= c.maxSize {
			victimKey, victimVal, evicted = c.evictLocked()
		}
	}

	c.entries[key] = &entry[V]{
		value:     c.copy(value),
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
	c.touchLocked(key, now)
	c.sets++
	c.mu.Unlock()

	if evicted {
		c.logger.Debug("cache entry evicted",
			logger.CacheName(c.name),
			logger.Key("key", victimKey),
		)
		if c.onEvict != nil {
			c.onEvict(victimKey, victimVal)
		}
	}

	return true
}

// Get returns the value for key. A missing or expired key counts as a miss and
// any stale entry is removed. A hit refreshes the key's recency.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e, ok := c.entries[key]
	if !ok || e.expired(now) {
		if ok {
			c.removeLocked(key)
		}
		c.misses++
		var zero V
		return zero, false
	}

	c.touchLocked(key, now)
	c.hits++
	return c.copy(e.value), true
}

// Has reports whether key holds a live entry. It removes an expired entry but
// neither counts toward statistics nor refreshes recency.
func (c *Cache[K, V]) Has(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if e.expired(c.now()) {
		c.removeLocked(key)
		return false
	}
	return true
}

// Delete removes key and reports whether a live entry was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	live := !e.expired(c.now())
	c.removeLocked(key)
	return live
}

// DeleteFunc removes every entry whose key satisfies match and returns how many
// live entries were removed. Expired matches are removed without being counted.
func (c *Cache[K, V]) DeleteFunc(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !match(key) {
			continue
		}
		if !e.expired(now) {
			removed++
		}
		c.removeLocked(key)
	}
	return removed
}

// Clear removes all entries and resets statistics.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	clear(c.recency)
	c.hits, c.misses, c.evictions, c.sets = 0, 0, 0, 0
}

// Cleanup removes every expired entry and returns how many were removed.
// Swept entries are not counted as evictions.
func (c *Cache[K, V]) Cleanup() int {
	c.mu.Lock()
	removed := c.removeExpiredLocked(c.now())
	c.mu.Unlock()

	if removed > 0 {
		c.logger.Debug("expired cache entries removed",
			logger.CacheName(c.name),
			logger.Count("removed", removed),
		)
	}
	return removed
}

// Keys returns the keys of live entries, least recently touched first. Expired
// entries are left for Get, Cleanup or the janitor to remove.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	keys := make([]K, 0, len(c.recency))
	for key := range c.recency {
		if c.entries[key].expired(now) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.recency[keys[i]].before(c.recency[keys[j]])
	})
	return keys
}

// Size returns the number of stored entries, including expired ones that have
// not been swept yet.
func (c *Cache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) touchLocked(key K, now time.Time) {
	c.seq++
	c.recency[key] = touch{at: now, seq: c.seq}
}

func (c *Cache[K, V]) removeLocked(key K) {
	delete(c.entries, key)
	delete(c.recency, key)
}

func (c *Cache[K, V]) removeExpiredLocked(now time.Time) int {
	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}

// evictLocked removes the least recently touched entry with a linear scan.
func (c *Cache[K, V]) evictLocked() (K, V, bool) {
	var (
		victim K
		oldest touch
		found  bool
	)
	for key, t := range c.recency {
		if !found || t.before(oldest) {
			victim, oldest, found = key, t, true
		}
	}
	if !found {
		var zero V
		return victim, zero, false
	}

	value := c.entries[victim].value
	c.removeLocked(victim)
	c.evictions++
	return victim, value, true
}

func (c *Cache[K, V]) copy(v V) V {
	if c.clone == nil {
		return v
	}
	return c.clone(v)
}
