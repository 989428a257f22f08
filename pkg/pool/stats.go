package pool

import "sync/atomic"

// Stats represents pool statistics for monitoring and optimization.
type Stats struct {
	// Name is the pool name
	Name string `json:"name"`
	// Capacity is the free buffer bound
	Capacity int `json:"capacity"`
	// Free is the number of instances currently in the free buffer
	Free int `json:"free"`
	// InUse is the number of instances rented and not yet returned
	InUse int64 `json:"in_use"`
	// Created is the total number of instances built by the policy
	Created int64 `json:"created"`
	// Hits is the number of rents served from the free buffer
	Hits int64 `json:"hits"`
	// Misses is the number of rents that had to construct
	Misses int64 `json:"misses"`
	// Returned is the number of accepted returns
	Returned int64 `json:"returned"`
	// Evicted is the number of returns disposed because the buffer was full
	Evicted int64 `json:"evicted"`
	// Disposed is the number of free instances drained by Dispose
	Disposed int64 `json:"disposed"`
	// Rejected is the number of returns refused as contract violations
	Rejected int64 `json:"rejected"`
}

// HitRate is Hits over all rents, or 0 before the first rent.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type counters struct {
	created  atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64
	returned atomic.Int64
	evicted  atomic.Int64
	disposed atomic.Int64
	rejected atomic.Int64
	inUse    atomic.Int64
}

func (c *counters) snapshot(name string, capacity, free int) Stats {
	return Stats{
		Name:     name,
		Capacity: capacity,
		Free:     free,
		InUse:    c.inUse.Load(),
		Created:  c.created.Load(),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Returned: c.returned.Load(),
		Evicted:  c.evicted.Load(),
		Disposed: c.disposed.Load(),
		Rejected: c.rejected.Load(),
	}
}
