// Package cache provides a bounded, process-local cache with least-recently-used
// eviction, per-entry expiry and hit/miss accounting. It is the building block for
// the keyed caches in core/apicache and core/calccache, and can be used directly
// for any memoization that fits in memory.
//
// # Features
//
//   - Generic keys and values with compile-time type safety
//   - Capacity bound enforced on every Set (LRU victim selection)
//   - Per-entry TTL with lazy expiry on reads and an explicit Cleanup sweep
//   - Hit, miss, eviction and set counters with a derived hit rate
//   - Read-through loading with duplicate suppression (GetOrLoad)
//   - Background sweeping via Janitor with errgroup-friendly lifecycle
//   - A single mutex per instance; every public method is one critical section
//
// # Usage
//
//	import "github.com/stvn101/carbonintelligence/core/cache"
//
//	c, err := cache.New[string, *Report](
//		cache.WithMaxSize(100),
//		cache.WithDefaultTTL(time.Hour),
//	)
//	if err != nil {
//		return err
//	}
//
//	c.Set("report:2024-Q1", report)
//	c.Set("report:draft", draft, cache.WithTTL(5*time.Minute))
//
//	if r, ok := c.Get("report:2024-Q1"); ok {
//		render(r)
//	}
//
// # Expiry
//
// An entry whose expiry time has been reached is treated as absent by Get and Has,
// which also remove it. Entries that are never read again stay in memory until
// Cleanup runs or capacity pressure purges them. A TTL of zero or less stores an
// entry that is already expired.
//
//	removed := c.Cleanup()
//
// Run a Janitor to sweep on a schedule:
//
//	j := cache.NewJanitor(c, cache.WithCleanupInterval(time.Minute))
//	g.Go(j.Run(ctx))
//
// # Eviction
//
// Inserting a new key into a full cache first drops expired entries, then evicts
// the entry touched least recently. Get and Set count as touches; Has does not.
// Overwriting an existing key never evicts. Ties on the touch timestamp are broken
// by touch order, so victim selection is deterministic even with a coarse clock.
//
// # Statistics
//
//	s := c.Stats()
//	fmt.Printf("hits=%d misses=%d rate=%.2f\n", s.Hits, s.Misses, s.HitRate)
//
// Clear empties the cache and resets all counters.
//
// # Values
//
// Values are handed back as stored. For slices, maps or pointers that callers might
// mutate, install a copy function so the cache never shares its state:
//
//	c, _ := cache.New[string, []byte](cache.WithCloneFunc(bytes.Clone))
package cache
