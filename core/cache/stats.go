package cache

// Stats is a snapshot of cache counters. Counters only grow until Clear.
type Stats struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	Sets      uint64  `json:"sets"`
	Size      int     `json:"size"`
	HitRate   float64 `json:"hit_rate"`
}

// Stats returns the current counters and the hit rate, hits / (hits + misses),
// which is 0 before the first read.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Sets:      c.sets,
		Size:      len(c.entries),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
