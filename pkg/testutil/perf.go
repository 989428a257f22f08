package testutil

import (
	"fmt"
	"runtime"
	"testing"
	"time"
)

// PerformanceTest checks throughput and allocation targets for a pool
// workload.
type PerformanceTest struct {
	t         *testing.T
	name      string
	threshold struct {
		minThroughput float64 // ops/sec
		maxMemory     int64   // bytes
	}
}

// NewPerformanceTest creates a new performance test
func NewPerformanceTest(t *testing.T, name string) *PerformanceTest {
	return &PerformanceTest{
		t:    t,
		name: name,
	}
}

// WithThroughputTarget sets minimum throughput requirement
func (p *PerformanceTest) WithThroughputTarget(opsPerSec float64) *PerformanceTest {
	p.threshold.minThroughput = opsPerSec
	return p
}

// WithMemoryTarget sets maximum bytes allocated while fn runs
func (p *PerformanceTest) WithMemoryTarget(maxBytes int64) *PerformanceTest {
	p.threshold.maxMemory = maxBytes
	return p
}

// Run executes fn, which reports how many operations it performed.
func (p *PerformanceTest) Run(fn func() int64) {
	p.t.Helper()

	initialMem := CaptureMemoryProfile()
	start := time.Now()
	ops := fn()
	duration := time.Since(start)
	finalMem := CaptureMemoryProfile()

	throughput := float64(ops) / duration.Seconds()
	allocated := int64(finalMem.TotalAlloc - initialMem.TotalAlloc)

	p.t.Logf("Performance Test: %s", p.name)
	p.t.Logf("  Ops: %d", ops)
	p.t.Logf("  Duration: %v", duration)
	p.t.Logf("  Throughput: %.0f ops/sec", throughput)
	p.t.Logf("  Allocated: %s", FormatBytes(allocated))

	if p.threshold.minThroughput > 0 && throughput < p.threshold.minThroughput {
		p.t.Errorf("Throughput %.0f ops/sec below target %.0f ops/sec",
			throughput, p.threshold.minThroughput)
	}

	if p.threshold.maxMemory > 0 && allocated > p.threshold.maxMemory {
		p.t.Errorf("Allocated %s exceeds target %s",
			FormatBytes(allocated), FormatBytes(p.threshold.maxMemory))
	}
}

// MemoryProfile captures memory statistics
type MemoryProfile struct {
	AllocBytes uint64
	TotalAlloc uint64
	Sys        uint64
	Mallocs    uint64
	Frees      uint64
	HeapAlloc  uint64
	HeapInuse  uint64
}

// CaptureMemoryProfile captures current memory profile
func CaptureMemoryProfile() *MemoryProfile {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &MemoryProfile{
		AllocBytes: m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		Mallocs:    m.Mallocs,
		Frees:      m.Frees,
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
	}
}

// FormatBytes formats bytes into human-readable string
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
