package cache

import (
	"log/slog"
	"time"
)

const (
	DefaultMaxSize = 100
	DefaultTTL     = time.Hour
)

// Option configures a Cache.
type Option func(*settings)

// settings is type-independent so that the same options can be passed through
// wrappers such as apicache and calccache. Typed hooks are checked in New.
type settings struct {
	maxSize    *int
	defaultTTL *time.Duration
	name       string
	logger     *slog.Logger
	now        func() time.Time
	clone      any
	onEvict    any
}

// WithMaxSize sets the capacity bound. Values <= 0 are rejected by New.
func WithMaxSize(n int) Option {
	return func(s *settings) {
		s.maxSize = &n
	}
}

// WithDefaultTTL sets the TTL used when Set is called without WithTTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.defaultTTL = &ttl
	}
}

// WithName sets the instance name used in log records and metric labels.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets the logger for eviction and sweep records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now. Tests use it to advance time deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCloneFunc makes the cache store a copy of every value it receives and hand
// out a copy on every read. The function's type must match the cache value type.
func WithCloneFunc[V any](clone func(V) V) Option {
	return func(s *settings) {
		if clone != nil {
			s.clone = clone
		}
	}
}

// WithEvictCallback registers fn to run after an entry is evicted for capacity.
// It is called outside the cache lock, so it may use the cache.
func WithEvictCallback[K comparable, V any](fn func(key K, value V)) Option {
	return func(s *settings) {
		if fn != nil {
			s.onEvict = fn
		}
	}
}

// SetOption configures a single Set call.
type SetOption func(*setOptions)

type setOptions struct {
	ttl    time.Duration
	hasTTL bool
}

// WithTTL overrides the default TTL for one entry. A TTL <= 0 stores an entry
// that is already expired.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *setOptions) {
		o.ttl = ttl
		o.hasTTL = true
	}
}
