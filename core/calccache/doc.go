// Package calccache memoizes results of pure, deterministic calculations.
//
// Keys combine a calculation type tag with a 64-bit hash of the canonical JSON
// form of the parameters, which keeps keys short however large the parameter
// mapping grows:
//
//	c, _ := calccache.New[float64]()
//	params := cachekey.MustFromMap(map[string]any{
//		"site":    "north",
//		"factors": map[string]float64{"co2": 1, "ch4": 28},
//	})
//
//	total, err := c.Compute(ctx, "scope1_total", params, func(ctx context.Context) (float64, error) {
//		return calculateScope1(ctx, params)
//	})
//
// Results of one calculation type can be dropped together with InvalidateType,
// for example after emission factors change.
package calccache
