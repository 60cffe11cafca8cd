package cache_test

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stvn101/carbonintelligence/core/cache"
)

// fakeClock is a manually advanced clock. Its zero step means every call returns
// the same instant, which exercises the recency tie-breaker.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCache[V any](t *testing.T, clock *fakeClock, opts ...cache.Option) *cache.Cache[string, V] {
	t.Helper()
	opts = append([]cache.Option{cache.WithClock(clock.Now)}, opts...)
	c, err := cache.New[string, V](opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		c, err := cache.New[string, int]()
		require.NoError(t, err)
		assert.Equal(t, cache.DefaultMaxSize, c.MaxSize())
		assert.Equal(t, cache.DefaultTTL, c.DefaultTTL())
		assert.Contains(t, c.Name(), "cache-")
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		_, err := cache.New[string, int](cache.WithMaxSize(0))
		assert.ErrorIs(t, err, cache.ErrInvalidConfig)
		assert.ErrorIs(t, err, cache.ErrInvalidMaxSize)
	})

	t.Run("rejects negative capacity", func(t *testing.T) {
		_, err := cache.New[string, int](cache.WithMaxSize(-3))
		assert.ErrorIs(t, err, cache.ErrInvalidMaxSize)
	})

	t.Run("rejects non-positive default ttl", func(t *testing.T) {
		_, err := cache.New[string, int](cache.WithDefaultTTL(0))
		assert.ErrorIs(t, err, cache.ErrInvalidConfig)
	})

	t.Run("rejects clone func of wrong type", func(t *testing.T) {
		_, err := cache.New[string, int](cache.WithCloneFunc(bytes.Clone))
		assert.ErrorIs(t, err, cache.ErrInvalidConfig)
	})

	t.Run("rejects evict callback of wrong type", func(t *testing.T) {
		_, err := cache.New[string, int](cache.WithEvictCallback(func(string, string) {}))
		assert.ErrorIs(t, err, cache.ErrInvalidConfig)
	})

	t.Run("must new panics on invalid config", func(t *testing.T) {
		assert.Panics(t, func() { cache.MustNew[string, int](cache.WithMaxSize(0)) })
	})

	t.Run("from config", func(t *testing.T) {
		cfg := cache.DefaultConfig()
		cfg.MaxSize = 7
		c, err := cache.NewFromConfig[string, int](cfg, cache.WithName("reports"))
		require.NoError(t, err)
		assert.Equal(t, 7, c.MaxSize())
		assert.Equal(t, time.Hour, c.DefaultTTL())
		assert.Equal(t, "reports", c.Name())
	})
}

func TestCache_SetGet(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		c := newCache[int](t, newFakeClock())

		assert.True(t, c.Set("k", 42, cache.WithTTL(time.Minute)))
		v, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, 42, v)
	})

	t.Run("overwrite replaces value", func(t *testing.T) {
		c := newCache[string](t, newFakeClock())

		c.Set("k", "old")
		c.Set("k", "new")

		v, ok := c.Get("k")
		require.True(t, ok)
		assert.Equal(t, "new", v)
		assert.Equal(t, 1, c.Size())
		assert.Equal(t, uint64(2), c.Stats().Sets)
	})

	t.Run("missing key is a miss", func(t *testing.T) {
		c := newCache[int](t, newFakeClock())

		v, ok := c.Get("nope")
		assert.False(t, ok)
		assert.Zero(t, v)
		assert.Equal(t, uint64(1), c.Stats().Misses)
	})
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	t.Run("expired entry is a miss and is removed", func(t *testing.T) {
		clock := newFakeClock()
		c := newCache[int](t, clock)

		c.Set("k", 1, cache.WithTTL(10*time.Millisecond))
		before := c.Stats().Misses

		clock.Advance(11 * time.Millisecond)

		_, ok := c.Get("k")
		assert.False(t, ok)
		assert.NotContains(t, c.Keys(), "k")
		assert.Equal(t, before+1, c.Stats().Misses)
		assert.Zero(t, c.Size())
	})

	t.Run("entry expires exactly at its deadline", func(t *testing.T) {
		clock := newFakeClock()
		c := newCache[int](t, clock)

		c.Set("k", 1, cache.WithTTL(time.Second))
		clock.Advance(time.Second)

		assert.False(t, c.Has("k"))
	})

	t.Run("default ttl applies when omitted", func(t *testing.T) {
		clock := newFakeClock()
		c := newCache[int](t, clock, cache.WithDefaultTTL(time.Minute))

		c.Set("k", 1)
		clock.Advance(59 * time.Second)
		assert.True(t, c.Has("k"))

		clock.Advance(time.Second)
		assert.False(t, c.Has("k"))
	})

	t.Run("non-positive ttl is already expired", func(t *testing.T) {
		for _, ttl := range []time.Duration{0, -time.Second} {
			c := newCache[int](t, newFakeClock())

			assert.True(t, c.Set("k", 1, cache.WithTTL(ttl)))
			_, ok := c.Get("k")
			assert.False(t, ok, "ttl %s", ttl)
			assert.Equal(t, uint64(1), c.Stats().Sets)
		}
	})

	t.Run("has removes expired entry without stats", func(t *testing.T) {
		clock := newFakeClock()
		c := newCache[int](t, clock)

		c.Set("k", 1, cache.WithTTL(time.Second))
		clock.Advance(2 * time.Second)

		assert.False(t, c.Has("k"))
		assert.Zero(t, c.Size())
		s := c.Stats()
		assert.Zero(t, s.Hits)
		assert.Zero(t, s.Misses)
	})
}

func TestCache_Eviction(t *testing.T) {
	t.Parallel()

	t.Run("evicts least recently set", func(t *testing.T) {
		c := newCache[int](t, newFakeClock(), cache.WithMaxSize(2))

		c.Set("a", 1)
		c.Set("b", 2)
		c.Set("c", 3)

		assert.ElementsMatch(t, []string{"b", "c"}, c.Keys())
		assert.Equal(t, uint64(1), c.Stats().Evictions)
	})

	t.Run("get refreshes recency", func(t *testing.T) {
		c := newCache[int](t, newFakeClock(), cache.WithMaxSize(2))

		c.Set("a", 1)
		c.Set("b", 2)
		_, ok := c.Get("a")
		require.True(t, ok)
		c.Set("c", 3)

		assert.ElementsMatch(t, []string{"a", "c"}, c.Keys())
		assert.False(t, c.Has("b"))
	})

	t.Run("has does not refresh recency", func(t *testing.T) {
		c := newCache[int](t, newFakeClock(), cache.WithMaxSize(2))

		c.Set("a", 1)
		c.Set("b", 2)
		require.True(t, c.Has("a"))
		c.Set("c", 3)

		assert.ElementsMatch(t, []string{"b", "c"}, c.Keys())
	})

	t.Run("overwrite refreshes recency", func(t *testing.T) {
		c := newCache[int](t, newFakeClock(), cache.WithMaxSize(2))

		c.Set("a", 1)
		c.Set("b", 2)
		c.Set("a", 10)
		c.Set("c", 3)

		assert.ElementsMatch(t, []string{"a", "c"}, c.Keys())
	})

	t.Run("overwrite at capacity does not evict", func(t *testing.T) {
		c := newCache[int](t, newFakeClock(), cache.WithMaxSize(2))

		c.Set("a", 1)
		c.Set("b", 2)
		c.Set("b", 20)
		c.Set("a", 10)

		assert.Equal(t, 2, c.Size())
		assert.Zero(t, c.Stats().Evictions)
	})

	t.Run("older timestamp loses regardless of key", func(t *testing.T) {
		clock := newFakeClock()
		c := newCache[int](t, clock, cache.WithMaxSize(3))

		c.Set("z", 1)
		clock.Advance(time.Millisecond)
		c.Set("a", 2)
		clock.Advance(time.Millisecond)
		c.Set("m", 3)
		clock.Advance(time.Millisecond)
		c.Set("n", 4)

		assert.Equal(t, []string{"a", "m", "n"}, c.Keys())
	})

	t.Run("expired entries are purged before evicting", func(t *testing.T) {
		clock := newFakeClock()
		c := newCache[int](t, clock, cache.WithMaxSize(2))

		c.Set("short", 1, cache.WithTTL(time.Second))
		c.Set("long", 2, cache.WithTTL(time.Hour))
		clock.Advance(2 * time.Second)
		c.Set("new", 3)

		assert.ElementsMatch(t, []string{"long", "new"}, c.Keys())
		assert.Zero(t, c.Stats().Evictions)
	})

	t.Run("evict callback receives victim", func(t *testing.T) {
		var gotKey string
		var gotVal int
		c := newCache[int](t, newFakeClock(),
			cache.WithMaxSize(1),
			cache.WithEvictCallback(func(k string, v int) {
				gotKey, gotVal = k, v
			}),
		)

		c.Set("a", 1)
		c.Set("b", 2)

		assert.Equal(t, "a", gotKey)
		assert.Equal(t, 1, gotVal)
	})

	t.Run("callback may use the cache", func(t *testing.T) {
		var c *cache.Cache[string, int]
		c = newCache[int](t, newFakeClock(),
			cache.WithMaxSize(1),
			cache.WithEvictCallback(func(k string, v int) {
				_ = c.Size()
			}),
		)

		c.Set("a", 1)
		c.Set("b", 2)
		assert.Equal(t, 1, c.Size())
	})

	t.Run("size never exceeds capacity", func(t *testing.T) {
		clock := newFakeClock()
		c := newCache[int](t, clock, cache.WithMaxSize(5))

		for i := range 200 {
			key := fmt.Sprintf("k%d", i%13)
			ttl := time.Duration(i%4) * time.Millisecond
			c.Set(key, i, cache.WithTTL(ttl))
			if i%3 == 0 {
				c.Get(fmt.Sprintf("k%d", (i*7)%13))
			}
			clock.Advance(time.Millisecond)
			assert.LessOrEqual(t, c.Size(), 5)
		}
	})
}

func TestCache_Keys(t *testing.T) {
	t.Parallel()

	c := newCache[int](t, newFakeClock())

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")

	assert.Equal(t, []string{"b", "c", "a"}, c.Keys())
}

func TestCache_KeysSkipsExpired(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newCache[int](t, clock)

	c.Set("short", 1, cache.WithTTL(time.Second))
	c.Set("long", 2, cache.WithTTL(time.Hour))
	clock.Advance(time.Second)

	assert.Equal(t, []string{"long"}, c.Keys())
	assert.Equal(t, 2, c.Size())
}

func TestCache_Delete(t *testing.T) {
	t.Parallel()

	t.Run("present key", func(t *testing.T) {
		c := newCache[int](t, newFakeClock())
		c.Set("k", 1)

		assert.True(t, c.Delete("k"))
		assert.False(t, c.Has("k"))
		assert.Empty(t, c.Keys())
	})

	t.Run("absent key", func(t *testing.T) {
		c := newCache[int](t, newFakeClock())
		assert.False(t, c.Delete("k"))
	})

	t.Run("expired key counts as absent", func(t *testing.T) {
		clock := newFakeClock()
		c := newCache[int](t, clock)
		c.Set("k", 1, cache.WithTTL(time.Second))
		clock.Advance(time.Second)

		assert.False(t, c.Delete("k"))
		assert.Zero(t, c.Size())
	})
}

func TestCache_DeleteFunc(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newCache[int](t, clock)

	c.Set("report:1", 1)
	c.Set("report:2", 2)
	c.Set("report:old", 3, cache.WithTTL(time.Second))
	c.Set("user:1", 4)
	clock.Advance(2 * time.Second)

	removed := c.DeleteFunc(func(k string) bool {
		return len(k) > 7 && k[:7] == "report:"
	})

	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"user:1"}, c.Keys())
}

func TestCache_Cleanup(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := newCache[int](t, clock)

	c.Set("a", 1, cache.WithTTL(time.Second))
	c.Set("b", 2, cache.WithTTL(time.Second))
	c.Set("c", 3, cache.WithTTL(time.Hour))
	clock.Advance(time.Second)

	assert.Equal(t, 2, c.Cleanup())
	assert.Equal(t, 0, c.Cleanup())
	assert.Equal(t, []string{"c"}, c.Keys())

	s := c.Stats()
	assert.Zero(t, s.Evictions)
	assert.Zero(t, s.Hits)
	assert.Zero(t, s.Misses)
}

func TestCache_Stats(t *testing.T) {
	t.Parallel()

	t.Run("hit rate", func(t *testing.T) {
		c := newCache[int](t, newFakeClock())
		c.Set("k", 1)

		c.Get("k")
		c.Get("k")
		c.Get("k")
		c.Get("missing")

		s := c.Stats()
		assert.Equal(t, uint64(3), s.Hits)
		assert.Equal(t, uint64(1), s.Misses)
		assert.InDelta(t, 0.75, s.HitRate, 1e-9)
		assert.Equal(t, 1, s.Size)
	})

	t.Run("hit rate is zero without reads", func(t *testing.T) {
		c := newCache[int](t, newFakeClock())
		c.Set("k", 1)
		assert.Zero(t, c.Stats().HitRate)
	})

	t.Run("clear resets everything", func(t *testing.T) {
		c := newCache[int](t, newFakeClock(), cache.WithMaxSize(1))
		c.Set("a", 1)
		c.Set("b", 2)
		c.Get("b")
		c.Get("a")

		c.Clear()

		assert.Equal(t, cache.Stats{}, c.Stats())
		assert.Empty(t, c.Keys())
		assert.False(t, c.Has("b"))
	})
}

func TestCache_CloneFunc(t *testing.T) {
	t.Parallel()

	c := newCache[[]byte](t, newFakeClock(), cache.WithCloneFunc(bytes.Clone))

	in := []byte("report")
	c.Set("k", in)
	in[0] = 'X'

	out, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "report", string(out))

	out[0] = 'Y'
	again, _ := c.Get("k")
	assert.Equal(t, "report", string(again))
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	c, err := cache.New[string, int](cache.WithMaxSize(50))
	require.NoError(t, err)

	const workers = 8
	const ops = 500

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range ops {
				key := fmt.Sprintf("k%d", (worker*ops+i)%120)
				c.Set(key, i)
				c.Get(key)
				c.Has(key)
				if i%50 == 0 {
					c.Cleanup()
				}
			}
		}(w)
	}
	wg.Wait()

	s := c.Stats()
	assert.LessOrEqual(t, s.Size, 50)
	assert.Equal(t, uint64(workers*ops), s.Sets)
	assert.Equal(t, uint64(workers*ops), s.Hits+s.Misses)
	assert.Len(t, c.Keys(), s.Size)
}
