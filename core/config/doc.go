// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use when one is present and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/stvn101/carbonintelligence/core/config"
//
//	type CacheConfig struct {
//		MaxSize    int           `env:"CACHE_MAX_SIZE" envDefault:"100"`
//		DefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"1h"`
//	}
//
//	func main() {
//		var cfg CacheConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 CacheConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 CacheConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently. Tests that change the environment
// between loads call Reset.
package config
