// Package performance samples process and host resource usage while pool
// workloads run.
package performance

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/logger"
)

// Usage contains resource usage information
type Usage struct {
	CPUPercent            float64 `json:"cpu_percent"`
	HostCPUPercent        float64 `json:"host_cpu_percent"`
	MemoryRSS             uint64  `json:"memory_rss"`
	MemoryVMS             uint64  `json:"memory_vms"`
	HeapAlloc             uint64  `json:"heap_alloc"`
	TotalAlloc            uint64  `json:"total_alloc"`
	Mallocs               uint64  `json:"mallocs"`
	GCCount               uint32  `json:"gc_count"`
	SystemMemoryPercent   float64 `json:"system_memory_percent"`
	SystemMemoryAvailable uint64  `json:"system_memory_available"`
	GoroutineCount        int     `json:"goroutines"`
	ThreadCount           int32   `json:"threads"`
}

// Monitor monitors system resources
type Monitor struct {
	process      *process.Process
	startCPUTime float64
	startTime    time.Time
	mu           sync.Mutex
}

// NewMonitor creates a monitor for the current process.
func NewMonitor() (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // pid fits in int32
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to open process")
	}
	m := &Monitor{process: proc, startTime: time.Now()}
	if t, err := proc.Times(); err == nil {
		m.startCPUTime = t.Total()
	}
	return m, nil
}

// Usage returns current resource usage. Host and process probes that fail
// leave their fields zero.
func (m *Monitor) Usage() Usage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var usage Usage

	if t, err := m.process.Times(); err == nil {
		if elapsed := time.Since(m.startTime).Seconds(); elapsed > 0 {
			usage.CPUPercent = ((t.Total() - m.startCPUTime) / elapsed) * 100
		}
	}
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		usage.HostCPUPercent = pct[0]
	}

	if memInfo, err := m.process.MemoryInfo(); err == nil {
		usage.MemoryRSS = memInfo.RSS
		usage.MemoryVMS = memInfo.VMS
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemoryPercent = vmStat.UsedPercent
		usage.SystemMemoryAvailable = vmStat.Available
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	usage.HeapAlloc = ms.HeapAlloc
	usage.TotalAlloc = ms.TotalAlloc
	usage.Mallocs = ms.Mallocs
	usage.GCCount = ms.NumGC

	usage.GoroutineCount = runtime.NumGoroutine()
	usage.ThreadCount, _ = m.process.NumThreads()

	return usage
}

// Sample calls fn with a fresh Usage every interval until ctx is done.
func (m *Monitor) Sample(ctx context.Context, interval time.Duration, fn func(Usage)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := logger.Named("performance")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u := m.Usage()
			log.Debug("resource sample",
				zap.Uint64("rss", u.MemoryRSS),
				zap.Uint64("heap", u.HeapAlloc),
				zap.Uint32("gc", u.GCCount))
			fn(u)
		}
	}
}
