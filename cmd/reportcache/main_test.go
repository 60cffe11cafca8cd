package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stvn101/carbonintelligence/core/apicache"
	"github.com/stvn101/carbonintelligence/core/cache"
	"github.com/stvn101/carbonintelligence/core/calccache"
	"github.com/stvn101/carbonintelligence/core/server"
)

func testConfig() appConfig {
	srv := server.DefaultConfig()
	srv.Addr = "127.0.0.1:0"
	return appConfig{
		Env:       "development",
		Namespace: "test",
		Server:    srv,
		Cache:     cache.DefaultConfig(),
		API:       apicache.DefaultConfig(),
		Calc:      calccache.DefaultConfig(),
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		assert.NoError(t, run(ctx, testConfig(), log))
	})

	t.Run("invalid cache config", func(t *testing.T) {
		cfg := testConfig()
		cfg.Calc.MaxSize = 0
		err := run(context.Background(), cfg, log)
		require.Error(t, err)
		assert.ErrorIs(t, err, cache.ErrInvalidMaxSize)
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("development is debug", func(t *testing.T) {
		log := newLogger(appConfig{Env: "development"})
		assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("production is info", func(t *testing.T) {
		log := newLogger(appConfig{Env: "production"})
		assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	})

	t.Run("level override", func(t *testing.T) {
		log := newLogger(appConfig{Env: "production", LogLevel: "warn"})
		assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
	})
}
