package calccache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stvn101/carbonintelligence/core/cache"
	"github.com/stvn101/carbonintelligence/core/logger"
	"github.com/stvn101/carbonintelligence/pkg/cachekey"
)

const (
	DefaultMaxSize = 50
	DefaultTTL     = 30 * time.Minute
)

// Config holds calculation cache settings loaded from the environment.
type Config struct {
	MaxSize         int           `env:"CALCCACHE_MAX_SIZE" envDefault:"50"`
	DefaultTTL      time.Duration `env:"CALCCACHE_DEFAULT_TTL" envDefault:"30m"`
	CleanupInterval time.Duration `env:"CALCCACHE_CLEANUP_INTERVAL" envDefault:"1m"`
}

// DefaultConfig returns the calculation cache defaults.
func DefaultConfig() Config {
	return Config{
		MaxSize:         DefaultMaxSize,
		DefaultTTL:      DefaultTTL,
		CleanupInterval: cache.DefaultCleanupInterval,
	}
}

// ComputeFunc runs the calculation on a cache miss.
type ComputeFunc[V any] func(ctx context.Context) (V, error)

// Cache memoizes results of pure calculations keyed by a calculation type and a
// hash of its parameters.
type Cache[V any] struct {
	*cache.Cache[string, V]
}

// New creates a calculation cache with a capacity of 50 and a 30 minute TTL unless
// opts override them.
func New[V any](opts ...cache.Option) (*Cache[V], error) {
	base := []cache.Option{
		cache.WithName("calccache"),
		cache.WithMaxSize(DefaultMaxSize),
		cache.WithDefaultTTL(DefaultTTL),
	}
	c, err := cache.New[string, V](append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("calccache: %w", err)
	}
	return &Cache[V]{Cache: c}, nil
}

// NewFromConfig creates a calculation cache from cfg.
func NewFromConfig[V any](cfg Config, opts ...cache.Option) (*Cache[V], error) {
	base := []cache.Option{cache.WithMaxSize(cfg.MaxSize), cache.WithDefaultTTL(cfg.DefaultTTL)}
	return New[V](append(base, opts...)...)
}

// GenerateKey returns calculationType + ":" + a hash of the canonical params.
func (c *Cache[V]) GenerateKey(calculationType string, params cachekey.Params) string {
	return GenerateKey(calculationType, params)
}

// GenerateKey is the key derivation used by Cache. Distinct params of the same
// type collide only on a 64-bit hash collision.
func GenerateKey(calculationType string, params cachekey.Params) string {
	return calculationType + ":" + cachekey.Hash(cachekey.JSON(params))
}

// CacheResult stores result for the calculation.
func (c *Cache[V]) CacheResult(calculationType string, params cachekey.Params, result V, opts ...cache.SetOption) bool {
	return c.Set(GenerateKey(calculationType, params), result, opts...)
}

// GetCachedResult returns the stored result for the calculation.
func (c *Cache[V]) GetCachedResult(calculationType string, params cachekey.Params) (V, bool) {
	return c.Get(GenerateKey(calculationType, params))
}

// Compute returns the cached result or runs fn and caches its output. Concurrent
// misses for the same calculation share one run.
func (c *Cache[V]) Compute(ctx context.Context, calculationType string, params cachekey.Params, fn ComputeFunc[V], opts ...cache.SetOption) (V, error) {
	v, err := c.GetOrLoad(ctx, GenerateKey(calculationType, params), cache.LoadFunc[V](fn), opts...)
	if err != nil {
		c.Logger().WarnContext(ctx, "calculation failed",
			logger.CacheName(c.Name()),
			logger.Type(calculationType),
			logger.Error(err),
		)
		return v, err
	}
	return v, nil
}

// InvalidateType drops every cached result of calculationType.
func (c *Cache[V]) InvalidateType(calculationType string) int {
	prefix := calculationType + ":"
	removed := c.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
	c.Logger().Debug("calculation results invalidated",
		logger.CacheName(c.Name()),
		logger.Type(calculationType),
		logger.Count("removed", removed),
	)
	return removed
}
