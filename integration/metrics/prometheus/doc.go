// Package prometheus exports cache statistics to Prometheus.
//
// The collector reads Stats from every registered cache on each scrape, so no
// counters are duplicated and nothing has to be pushed from the hot path:
//
//	reg := prometheus.NewRegistry()
//	col, err := cachemetrics.Register(reg, "carbon", responses, results)
//	if err != nil {
//		return err
//	}
//	col.AddJanitor(responses.Name(), responsesJanitor)
//
// Exported series, each labelled with the cache name:
//
//   - <ns>_cache_hits_total, <ns>_cache_misses_total
//   - <ns>_cache_evictions_total, <ns>_cache_sets_total
//   - <ns>_cache_entries, <ns>_cache_hit_ratio
//   - <ns>_cache_sweeps_total, <ns>_cache_swept_entries_total, <ns>_cache_janitor_running
package prometheus
