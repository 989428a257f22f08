// Package metrics exports pool statistics and workload measurements to
// Prometheus.
//
// # Overview
//
// The metrics package provides:
//   - PoolCollector, a prometheus.Collector reading pool.Stats on scrape
//   - Pre-defined workload metrics (rent latency, throughput, memory)
//   - Throughput and latency tracking utilities
//
// # Basic Usage
//
//	reg := registry.NewRegistry()
//	prometheus.MustRegister(metrics.NewPoolCollector(reg, pool.GlobalBufferPool))
//
//	timer := metrics.NewTimer("rent")
//	v := h.Rent()
//	metrics.RentLatency.WithLabelValues(h.Name()).Observe(float64(timer.Stop().Nanoseconds()))
//
// Pool counters are read from the pools at scrape time, so recording a rent
// or return costs nothing beyond the pool's own atomic counters.
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/recycler/pkg/pool"
)

const namespace = "recycler"

// StatsSource is anything that can snapshot a set of pools: a registry, a
// BufferPool or a Compressor.
type StatsSource interface {
	Stats() []pool.Stats
}

// StatsFunc adapts a function to StatsSource.
type StatsFunc func() []pool.Stats

// Stats calls f.
func (f StatsFunc) Stats() []pool.Stats { return f() }

// Single adapts one handle's Stats to StatsSource.
func Single(h interface{ Stats() pool.Stats }) StatsSource {
	return StatsFunc(func() []pool.Stats { return []pool.Stats{h.Stats()} })
}

type poolMetric struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(pool.Stats) float64
}

// PoolCollector exposes per-pool gauges and counters labelled by pool name.
type PoolCollector struct {
	mu      sync.RWMutex
	sources []StatsSource
	metrics []poolMetric
}

// NewPoolCollector creates a collector over the given sources. Pool names
// must be unique across sources.
func NewPoolCollector(sources ...StatsSource) *PoolCollector {
	labels := []string{"pool"}
	gauge := func(name, help string, v func(pool.Stats) float64) poolMetric {
		return poolMetric{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, labels, nil),
			kind:  prometheus.GaugeValue,
			value: v,
		}
	}
	counter := func(name, help string, v func(pool.Stats) int64) poolMetric {
		return poolMetric{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name+"_total"), help, labels, nil),
			kind:  prometheus.CounterValue,
			value: func(s pool.Stats) float64 { return float64(v(s)) },
		}
	}

	return &PoolCollector{
		sources: sources,
		metrics: []poolMetric{
			gauge("capacity", "Maximum number of idle instances retained", func(s pool.Stats) float64 { return float64(s.Capacity) }),
			gauge("free", "Idle instances currently retained", func(s pool.Stats) float64 { return float64(s.Free) }),
			gauge("in_use", "Instances rented and not yet returned", func(s pool.Stats) float64 { return float64(s.InUse) }),
			gauge("hit_ratio", "Fraction of rents served from the free buffer", pool.Stats.HitRate),
			counter("created", "Instances constructed by the policy", func(s pool.Stats) int64 { return s.Created }),
			counter("hits", "Rents served from the free buffer", func(s pool.Stats) int64 { return s.Hits }),
			counter("misses", "Rents that constructed a new instance", func(s pool.Stats) int64 { return s.Misses }),
			counter("returned", "Instances accepted back", func(s pool.Stats) int64 { return s.Returned }),
			counter("evicted", "Returns disposed because the pool was full", func(s pool.Stats) int64 { return s.Evicted }),
			counter("disposed", "Idle instances disposed by Dispose", func(s pool.Stats) int64 { return s.Disposed }),
			counter("rejected", "Returns rejected as contract violations", func(s pool.Stats) int64 { return s.Rejected }),
		},
	}
}

// Add registers another source.
func (c *PoolCollector) Add(src StatsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, src)
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.metrics {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.Snapshot() {
		for _, m := range c.metrics {
			ch <- prometheus.MustNewConstMetric(m.desc, m.kind, m.value(s), s.Name)
		}
	}
}

// Snapshot returns the current stats of every pool, sorted by name.
func (c *PoolCollector) Snapshot() []pool.Stats {
	c.mu.RLock()
	sources := append([]StatsSource(nil), c.sources...)
	c.mu.RUnlock()

	var all []pool.Stats
	for _, src := range sources {
		all = append(all, src.Stats()...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

var (
	// RentLatency tracks how long Rent takes, in nanoseconds.
	// Labels: pool
	RentLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rent_latency_nanoseconds",
			Help:      "Rent latency in nanoseconds",
			Buckets: []float64{
				50,   // 50ns - free buffer hit
				100,  // 100ns
				500,  // 500ns - contended lock
				1000, // 1μs - cheap construction
				1e4,  // 10μs
				1e5,  // 100μs - expensive construction
				1e6,  // 1ms
			},
		},
		[]string{"pool"},
	)

	// Throughput tracks rent/return cycles per second.
	// Labels: pool
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "throughput_ops_per_second",
			Help:      "Rent/return cycles per second",
		},
		[]string{"pool"},
	)

	// MemoryAllocated tracks process memory by kind (rss, heap).
	MemoryAllocated = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_bytes",
			Help:      "Process memory in bytes",
		},
		[]string{"kind"},
	)

	// GCCount tracks completed GC cycles observed during a workload.
	GCCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gc_cycles",
			Help:      "Completed GC cycles since process start",
		},
	)
)

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer name.
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. It may be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks rent/return cycles per second over time windows.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64     // Cycles since last reset
	lastReset time.Time // Time of last reset
	pool      string    // Pool name label
}

// NewThroughputTracker creates a new throughput tracker for a pool.
func NewThroughputTracker(poolName string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		pool:      poolName,
	}
}

// Increment adds n to the cycle count. Safe for concurrent use.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset calculates the current throughput (cycles/second), updates the
// Prometheus gauge, resets the counter and returns the throughput.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed

	t.count = 0
	t.lastReset = time.Now()

	Throughput.WithLabelValues(t.pool).Set(throughput)

	return throughput
}

// LatencyTracker keeps the most recent maxSize samples for percentiles.
type LatencyTracker struct {
	mu      sync.Mutex
	values  []time.Duration
	maxSize int
}

// NewLatencyTracker creates a new latency tracker
func NewLatencyTracker(maxSize int) *LatencyTracker {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &LatencyTracker{
		values:  make([]time.Duration, 0, maxSize),
		maxSize: maxSize,
	}
}

// Record records a latency value
func (l *LatencyTracker) Record(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.values) >= l.maxSize {
		// Remove oldest
		copy(l.values, l.values[1:])
		l.values = l.values[:len(l.values)-1]
	}
	l.values = append(l.values, d)
}

// Len returns the number of retained samples.
func (l *LatencyTracker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.values)
}

// GetPercentile returns the percentile value (0-100) over retained samples.
func (l *LatencyTracker) GetPercentile(p float64) time.Duration {
	l.mu.Lock()
	sorted := append([]time.Duration(nil), l.values...)
	l.mu.Unlock()

	if len(sorted) == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := int(float64(len(sorted)) * p / 100)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	if index < 0 {
		index = 0
	}
	return sorted[index]
}
