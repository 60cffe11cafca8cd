package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stvn101/carbonintelligence/core/cache"
)

// StatsSource is a named cache that reports its statistics.
type StatsSource interface {
	Name() string
	Stats() cache.Stats
}

// SweepSource is a janitor that reports its sweep statistics.
type SweepSource interface {
	Stats() cache.JanitorStats
}

// Collector exports cache statistics as Prometheus metrics, one series per
// cache labelled by its name. Values are read at scrape time.
type Collector struct {
	mu       sync.RWMutex
	caches   []StatsSource
	janitors map[string]SweepSource

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	sets      *prometheus.Desc
	size      *prometheus.Desc
	hitRatio  *prometheus.Desc
	sweeps    *prometheus.Desc
	swept     *prometheus.Desc
	running   *prometheus.Desc
}

// NewCollector creates a collector for sources. Metric names are prefixed with
// namespace when it is not empty.
func NewCollector(namespace string, sources ...StatsSource) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "cache", name), help, []string{"cache"}, nil)
	}
	return &Collector{
		caches:    sources,
		janitors:  make(map[string]SweepSource),
		hits:      desc("hits_total", "Total number of lookups that found a live entry"),
		misses:    desc("misses_total", "Total number of lookups that found no live entry"),
		evictions: desc("evictions_total", "Total number of entries evicted to make room"),
		sets:      desc("sets_total", "Total number of store operations"),
		size:      desc("entries", "Number of stored entries including unswept expired ones"),
		hitRatio:  desc("hit_ratio", "Hits divided by lookups"),
		sweeps:    desc("sweeps_total", "Total number of janitor sweeps"),
		swept:     desc("swept_entries_total", "Total number of expired entries removed by the janitor"),
		running:   desc("janitor_running", "Whether the janitor is running"),
	}
}

// Add registers another cache with the collector.
func (c *Collector) Add(src StatsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.caches = append(c.caches, src)
}

// AddJanitor exports sweep statistics of j under the given cache name.
func (c *Collector) AddJanitor(name string, j SweepSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.janitors[name] = j
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.sets
	ch <- c.size
	ch <- c.hitRatio
	ch <- c.sweeps
	ch <- c.swept
	ch <- c.running
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, src := range c.caches {
		name := src.Name()
		s := src.Stats()
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions), name)
		ch <- prometheus.MustNewConstMetric(c.sets, prometheus.CounterValue, float64(s.Sets), name)
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size), name)
		ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, s.HitRate, name)
	}

	for name, j := range c.janitors {
		s := j.Stats()
		running := 0.0
		if s.IsRunning {
			running = 1
		}
		ch <- prometheus.MustNewConstMetric(c.sweeps, prometheus.CounterValue, float64(s.Sweeps), name)
		ch <- prometheus.MustNewConstMetric(c.swept, prometheus.CounterValue, float64(s.Removed), name)
		ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, running, name)
	}
}

// Register creates a collector for sources and registers it with reg.
func Register(reg prometheus.Registerer, namespace string, sources ...StatsSource) (*Collector, error) {
	c := NewCollector(namespace, sources...)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
