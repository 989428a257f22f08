package lockfree

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingExactCapacity(t *testing.T) {
	r := NewRing[int](3)

	assert.True(t, r.Enqueue(1))
	assert.True(t, r.Enqueue(2))
	assert.True(t, r.Enqueue(3))
	assert.False(t, r.Enqueue(4), "ring of 3 must reject a fourth item")
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 3, r.Cap())
}

func TestRingFIFO(t *testing.T) {
	r := NewRing[string](4)
	for _, s := range []string{"a", "b", "c"} {
		require.True(t, r.Enqueue(s))
	}

	for _, want := range []string{"a", "b", "c"} {
		got, ok := r.Dequeue()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := r.Dequeue()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRingWrapsAround(t *testing.T) {
	r := NewRing[int](2)
	for i := 0; i < 10; i++ {
		require.True(t, r.Enqueue(i))
		got, ok := r.Dequeue()
		require.True(t, ok)
		require.Equal(t, i, got)
	}
}

func TestRingZeroCapacityClamped(t *testing.T) {
	r := NewRing[int](0)
	assert.Equal(t, 1, r.Cap())
}

func TestRingConcurrentProducersConsumers(t *testing.T) {
	const (
		producers = 8
		perWorker = 1000
	)
	r := NewRing[int](64)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int]bool, producers*perWorker)
		outs int
	)

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				v := base*perWorker + i
				for !r.Enqueue(v) {
					if got, ok := r.Dequeue(); ok {
						mu.Lock()
						seen[got] = true
						outs++
						mu.Unlock()
					}
				}
			}
		}(p)
	}
	wg.Wait()

	for {
		got, ok := r.Dequeue()
		if !ok {
			break
		}
		seen[got] = true
		outs++
	}

	assert.Equal(t, producers*perWorker, outs)
	assert.Len(t, seen, producers*perWorker, "every item must come out exactly once")
}
