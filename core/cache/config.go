package cache

import "time"

// Config holds cache settings loaded from the environment.
type Config struct {
	MaxSize         int           `env:"CACHE_MAX_SIZE" envDefault:"100"`
	DefaultTTL      time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" envDefault:"1m"`
}

// DefaultConfig returns the defaults of a general-purpose cache.
func DefaultConfig() Config {
	return Config{
		MaxSize:         DefaultMaxSize,
		DefaultTTL:      DefaultTTL,
		CleanupInterval: DefaultCleanupInterval,
	}
}

// Options converts the config into constructor options.
func (cfg Config) Options() []Option {
	return []Option{
		WithMaxSize(cfg.MaxSize),
		WithDefaultTTL(cfg.DefaultTTL),
	}
}

// NewFromConfig creates a cache from cfg. Options passed explicitly take
// precedence over the config values.
func NewFromConfig[K comparable, V any](cfg Config, opts ...Option) (*Cache[K, V], error) {
	return New[K, V](append(cfg.Options(), opts...)...)
}
