package metrics_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/recycler/pkg/metrics"
	"github.com/ajitpratap0/recycler/pkg/pool"
)

func TestPoolCollector(t *testing.T) {
	buffers := pool.NewBuilderProvider[bytes.Buffer](pool.WithName("buffers"), pool.WithCapacity(4)).NewPool()
	b := buffers.Rent()
	require.NoError(t, buffers.Return(b))
	_ = buffers.Rent()
	assert.Error(t, buffers.Return(nil))

	c := metrics.NewPoolCollector(metrics.Single(buffers))
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	assert.Equal(t, 11, promtest.CollectAndCount(c))

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			require.Equal(t, "buffers", m.GetLabel()[0].GetValue())
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 4.0, values["recycler_pool_capacity"])
	assert.Equal(t, 0.0, values["recycler_pool_free"])
	assert.Equal(t, 1.0, values["recycler_pool_in_use"])
	assert.Equal(t, 1.0, values["recycler_pool_created_total"])
	assert.Equal(t, 1.0, values["recycler_pool_hits_total"])
	assert.Equal(t, 1.0, values["recycler_pool_misses_total"])
	assert.Equal(t, 1.0, values["recycler_pool_rejected_total"])
	assert.Equal(t, 0.5, values["recycler_pool_hit_ratio"])
}

func TestPoolCollectorSnapshot(t *testing.T) {
	c := metrics.NewPoolCollector()
	assert.Empty(t, c.Snapshot())
	assert.Zero(t, promtest.CollectAndCount(c))

	bp := pool.NewBufferPool(pool.WithName("io"))
	c.Add(bp)
	c.Add(metrics.StatsFunc(func() []pool.Stats { return []pool.Stats{{Name: "a"}} }))

	snap := c.Snapshot()
	require.Len(t, snap, len(bp.Stats())+1)
	assert.Equal(t, "a", snap[0].Name)
	for i := 1; i < len(snap); i++ {
		assert.LessOrEqual(t, snap[i-1].Name, snap[i].Name)
	}
}

func TestThroughputTracker(t *testing.T) {
	tr := metrics.NewThroughputTracker("tracker-test")
	tr.Increment(100)
	time.Sleep(10 * time.Millisecond)

	rate := tr.GetAndReset()
	assert.Greater(t, rate, 0.0)
	assert.InDelta(t, rate, promtest.ToFloat64(metrics.Throughput.WithLabelValues("tracker-test")), 0.001)
}

func TestLatencyTracker(t *testing.T) {
	l := metrics.NewLatencyTracker(4)
	assert.Zero(t, l.GetPercentile(50))

	for _, d := range []time.Duration{5, 1, 4, 2, 3} {
		l.Record(d)
	}
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, time.Duration(1), l.GetPercentile(0))
	assert.Equal(t, time.Duration(4), l.GetPercentile(100), "oldest sample (5) was evicted")
}

func TestTimer(t *testing.T) {
	timer := metrics.NewTimer("op")
	time.Sleep(time.Millisecond)
	assert.Equal(t, "op", timer.Name())
	assert.GreaterOrEqual(t, timer.Stop(), time.Millisecond)
}
