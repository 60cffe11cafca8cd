package apicache

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/stvn101/carbonintelligence/core/cache"
	"github.com/stvn101/carbonintelligence/core/logger"
	"github.com/stvn101/carbonintelligence/pkg/cachekey"
)

const (
	DefaultMaxSize = 200
	DefaultTTL     = 10 * time.Minute
)

// ErrInvalidPattern is returned by InvalidatePattern for a malformed expression.
var ErrInvalidPattern = errors.New("apicache: invalid invalidation pattern")

// Config holds call-response cache settings loaded from the environment.
type Config struct {
	MaxSize         int           `env:"APICACHE_MAX_SIZE" envDefault:"200"`
	DefaultTTL      time.Duration `env:"APICACHE_DEFAULT_TTL" envDefault:"10m"`
	CleanupInterval time.Duration `env:"APICACHE_CLEANUP_INTERVAL" envDefault:"1m"`
}

// DefaultConfig returns the call-response cache defaults.
func DefaultConfig() Config {
	return Config{
		MaxSize:         DefaultMaxSize,
		DefaultTTL:      DefaultTTL,
		CleanupInterval: cache.DefaultCleanupInterval,
	}
}

// FetchFunc performs the external call on a cache miss.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Cache memoizes responses of idempotent external calls, keyed by endpoint and
// parameters. The embedded core cache exposes Stats, Clear, Cleanup and the rest.
type Cache[V any] struct {
	*cache.Cache[string, V]
}

// New creates a call-response cache with a capacity of 200 and a 10 minute TTL
// unless opts override them.
func New[V any](opts ...cache.Option) (*Cache[V], error) {
	base := []cache.Option{
		cache.WithName("apicache"),
		cache.WithMaxSize(DefaultMaxSize),
		cache.WithDefaultTTL(DefaultTTL),
	}
	c, err := cache.New[string, V](append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("apicache: %w", err)
	}
	return &Cache[V]{Cache: c}, nil
}

// NewFromConfig creates a call-response cache from cfg.
func NewFromConfig[V any](cfg Config, opts ...cache.Option) (*Cache[V], error) {
	base := []cache.Option{cache.WithMaxSize(cfg.MaxSize), cache.WithDefaultTTL(cfg.DefaultTTL)}
	return New[V](append(base, opts...)...)
}

// GenerateKey returns endpoint + "?" + the canonical query of params.
// Any permutation of the same params yields the same key.
func (c *Cache[V]) GenerateKey(endpoint string, params cachekey.Params) string {
	return GenerateKey(endpoint, params)
}

// GenerateKey is the key derivation used by Cache, exposed for collaborators that
// need to compute keys without an instance.
func GenerateKey(endpoint string, params cachekey.Params) string {
	return endpoint + "?" + cachekey.Query(params)
}

// CacheResponse stores response for the endpoint call.
func (c *Cache[V]) CacheResponse(endpoint string, params cachekey.Params, response V, opts ...cache.SetOption) bool {
	return c.Set(GenerateKey(endpoint, params), response, opts...)
}

// GetCachedResponse returns the stored response for the endpoint call.
func (c *Cache[V]) GetCachedResponse(endpoint string, params cachekey.Params) (V, bool) {
	return c.Get(GenerateKey(endpoint, params))
}

// Fetch returns the cached response or performs the call through fn and caches
// its result. Concurrent misses for the same call share one fn invocation.
func (c *Cache[V]) Fetch(ctx context.Context, endpoint string, params cachekey.Params, fn FetchFunc[V], opts ...cache.SetOption) (V, error) {
	v, err := c.GetOrLoad(ctx, GenerateKey(endpoint, params), cache.LoadFunc[V](fn), opts...)
	if err != nil {
		c.Logger().WarnContext(ctx, "api call failed",
			logger.CacheName(c.Name()),
			logger.Endpoint(endpoint),
			logger.Error(err),
		)
		return v, err
	}
	return v, nil
}

// InvalidatePattern deletes every key matching the regular expression pattern and
// returns how many live entries were removed.
func (c *Cache[V]) InvalidatePattern(pattern string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	removed := c.DeleteFunc(re.MatchString)
	c.Logger().Debug("cache entries invalidated",
		logger.CacheName(c.Name()),
		logger.Pattern(pattern),
		logger.Count("removed", removed),
	)
	return removed, nil
}

// InvalidateEndpoint deletes every cached response of endpoint, whatever its params.
func (c *Cache[V]) InvalidateEndpoint(endpoint string) int {
	prefix := endpoint + "?"
	return c.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}
