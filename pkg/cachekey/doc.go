// Package cachekey derives deterministic cache keys from structured parameters.
//
// Parameters are a Params mapping of names to a closed set of JSON-like values.
// Canonical forms sort every mapping by name, so logically equal inputs always
// produce the same key regardless of the order they were built in:
//
//	p := cachekey.Params{"b": cachekey.Int(2), "a": cachekey.Int(1)}
//	cachekey.Query(p) // a=1&b=2
//	cachekey.JSON(p)  // {"a":1,"b":2}
//
// Loosely typed input can be converted with FromMap:
//
//	p, err := cachekey.FromMap(map[string]any{"year": 2024, "scopes": []string{"1", "2"}})
//
// Hash shortens long canonical forms to a fixed-width token.
package cachekey
