// Package apicache memoizes responses of idempotent external calls.
//
// A call is identified by an endpoint name and a parameter mapping. The derived
// key is the endpoint, a '?' and the canonical query of the parameters, so the
// order parameters were assembled in never matters:
//
//	c, _ := apicache.New[[]byte]()
//	params := cachekey.Params{"year": cachekey.Int(2024), "site": cachekey.String("north")}
//
//	c.CacheResponse("/emissions", params, body)
//	body, ok := c.GetCachedResponse("/emissions", params)
//
// Fetch combines both steps and collapses concurrent misses:
//
//	body, err := c.Fetch(ctx, "/emissions", params, func(ctx context.Context) ([]byte, error) {
//		return client.Get(ctx, "/emissions", params)
//	})
//
// InvalidatePattern drops every key matching a regular expression, which is the
// coarse way to forget a whole endpoint family:
//
//	n, err := c.InvalidatePattern(`^/emissions`)
package apicache
