package workload

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/recycler/pkg/collections"
	"github.com/ajitpratap0/recycler/pkg/config"
	"github.com/ajitpratap0/recycler/pkg/pool"
	"github.com/ajitpratap0/recycler/pkg/registry"
	"github.com/ajitpratap0/recycler/pkg/testutil"
)

func TestRunIterations(t *testing.T) {
	r, err := NewRunner(config.WorkloadConfig{Workers: 4, Iterations: 250, PayloadSize: 64}, testutil.TestLogger(t))
	require.NoError(t, err)
	defer r.Close()

	h := pool.Erase(pool.NewBuilderProvider[bytes.Buffer](pool.WithName("buffers"), pool.WithCapacity(8)).NewPool())
	res, err := r.Run(context.Background(), h)
	require.NoError(t, err)

	assert.Equal(t, "buffers", res.Pool)
	assert.EqualValues(t, 1000, res.Cycles)
	assert.Zero(t, res.Violations)
	assert.EqualValues(t, 1000, res.Stats.Hits+res.Stats.Misses)
	assert.LessOrEqual(t, res.Stats.Created, int64(4), "at most one instance per worker")
	assert.Zero(t, res.Stats.InUse)
	assert.Positive(t, res.OpsPerSec)
}

func TestRunDuration(t *testing.T) {
	r, err := NewRunner(config.WorkloadConfig{Workers: 2, Duration: 50 * time.Millisecond, PayloadSize: 16}, testutil.TestLogger(t))
	require.NoError(t, err)

	h := pool.Erase(pool.NewCollectionProvider[collections.Set[string]](pool.WithName("sets")).NewPool())
	res, err := r.Run(context.Background(), h)
	require.NoError(t, err)
	assert.Positive(t, res.Cycles)
	assert.GreaterOrEqual(t, res.Duration, 50*time.Millisecond)
}

func TestRunAllWithCompression(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.BuildAll([]config.PoolConfig{
		{Name: "buffers", Kind: registry.KindBytesBuffer},
		{Name: "slices", Kind: registry.KindByteSlice, Engine: "ring"},
		{Name: "gzip", Kind: registry.KindGzipWriter},
		{Name: "maps", Kind: registry.KindMap},
	}))
	defer reg.DisposeAll()

	r, err := NewRunner(config.WorkloadConfig{Workers: 2, Iterations: 50, PayloadSize: 512, Compression: "zstd"}, testutil.TestLogger(t))
	require.NoError(t, err)
	defer r.Close()
	require.NotNil(t, r.Compressor())

	var handles []pool.AnyHandle
	for _, name := range reg.Names() {
		h, ok := reg.Get(name)
		require.True(t, ok)
		handles = append(handles, h)
	}

	results, err := r.RunAll(context.Background(), handles)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, res := range results {
		assert.Equal(t, reg.Names()[i], res.Pool)
		assert.EqualValues(t, 100, res.Cycles)
	}

	for _, s := range r.Compressor().Stats() {
		assert.Zero(t, s.InUse, s.Name)
	}
}

func TestRunCancelled(t *testing.T) {
	r, err := NewRunner(config.WorkloadConfig{Workers: 1, Iterations: 1_000_000}, testutil.TestLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := pool.Erase(pool.NewObjectProvider[testutil.Item]().NewPool())
	res, err := r.Run(ctx, h)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Cycles)
}

func TestNewRunnerValidates(t *testing.T) {
	_, err := NewRunner(config.WorkloadConfig{Workers: 0, Iterations: 1}, testutil.TestLogger(t))
	assert.Error(t, err)
	_, err = NewRunner(config.WorkloadConfig{Workers: 1, Iterations: 1, Compression: "brotli"}, testutil.TestLogger(t))
	assert.Error(t, err)
}

func TestExercise(t *testing.T) {
	payload := []byte("abc")

	buf := new(bytes.Buffer)
	require.NoError(t, Exercise(buf, payload))
	assert.Equal(t, "abc", buf.String())

	s := make([]byte, 0, 4)
	require.NoError(t, Exercise(&s, payload))
	assert.Len(t, s, 3)

	m := map[string]any{}
	require.NoError(t, Exercise(m, payload))
	assert.Len(t, m, 1)

	ch := make(chan []byte, 1)
	require.NoError(t, Exercise(ch, payload))
	require.NoError(t, Exercise(ch, payload), "full channel is skipped")
	assert.Len(t, ch, 1)

	require.NoError(t, Exercise(struct{}{}, payload))
}
