package cache

import (
	"context"
	"fmt"
)

// LoadFunc produces the value for a missing key.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// GetOrLoad returns the cached value for key, or calls load and stores its result.
// Concurrent callers missing on the same key share a single load; they all receive
// its result. A load error is returned to every waiter and nothing is cached.
//
// The shared load runs with the context of the caller that started it. A caller
// whose own ctx ends first stops waiting and gets ctx.Err().
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, load LoadFunc[V], opts ...SetOption) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	ch := c.loads.DoChan(flightKey(key), func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, opts...)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V) // nil when V is an interface and load returned nil
		return c.copy(v), nil
	}
}

// flightKey renders key in Go syntax with its dynamic type so that distinct keys
// never share a load.
func flightKey[K comparable](key K) string {
	return fmt.Sprintf("%T:%#v", key, key)
}
