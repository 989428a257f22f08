package pool

import (
	"fmt"

	"go.uber.org/zap"
)

// bucketBytesLimit bounds the free bytes retained by one bucket.
const bucketBytesLimit = 64 << 20

// fixedBytes builds byte slices of one size class. Contents are not cleared.
type fixedBytes struct {
	NoHooks[[]byte]
	size int
}

func (p fixedBytes) Create() []byte { return make([]byte, p.size) }

// BufferPool manages byte buffer pooling with size-based buckets.
// It maintains one Pool per size class, automatically selecting the
// appropriate bucket based on requested size. This reduces memory
// fragmentation and improves allocation performance for I/O operations.
type BufferPool struct {
	pools []*Pool[[]byte, fixedBytes]
	sizes []int
}

// NewBufferPool creates a new buffer pool with predefined size buckets.
// Buffers larger than 16MB are allocated directly without pooling.
//
// The predefined sizes are:
//   - 512B, 1KB, 4KB, 16KB, 64KB, 256KB, 1MB, 4MB, 16MB
//
// Each bucket keeps at most 64MB of free buffers. opts apply to every
// bucket; names get the size appended.
func NewBufferPool(opts ...Option) *BufferPool {
	sizes := []int{
		512,      // 512B
		1024,     // 1KB
		4096,     // 4KB
		16384,    // 16KB
		65536,    // 64KB
		262144,   // 256KB
		1048576,  // 1MB
		4194304,  // 4MB
		16777216, // 16MB
	}

	base := resolveOptions[[]byte](opts)
	pools := make([]*Pool[[]byte, fixedBytes], len(sizes))
	for i, size := range sizes {
		o := base
		o.Name = fmt.Sprintf("%s-%d", base.Name, size)
		o.Capacity = min(base.Capacity, max(2, bucketBytesLimit/size))
		o.Logger = base.Logger.With(zap.Int("size", size))
		pools[i] = newPool[[]byte](fixedBytes{size: size}, o)
	}

	return &BufferPool{
		pools: pools,
		sizes: sizes,
	}
}

// Get returns a buffer of at least the requested size from the pool.
// It selects the smallest bucket that can accommodate the request.
// For sizes larger than 16MB, a new buffer is allocated directly.
//
// The returned buffer's length is set to the requested size, but its
// capacity may be larger. Contents are whatever the previous user left.
//
// Example:
//
//	buf := bufferPool.Get(2048)  // Returns a 4KB buffer with length 2048
//	defer bufferPool.Put(buf)
func (p *BufferPool) Get(size int) []byte {
	for i, s := range p.sizes {
		if s >= size {
			buf := p.pools[i].Rent()
			return buf[:size]
		}
	}
	return make([]byte, size)
}

// Put returns a buffer to the pool for reuse.
// The buffer is matched to its bucket by capacity. Buffers that don't match
// any bucket size are left to the garbage collector.
func (p *BufferPool) Put(buf []byte) {
	size := cap(buf)
	for i, s := range p.sizes {
		if s == size {
			// []byte has no identity to check, so Return cannot fail
			_ = p.pools[i].Return(buf[:size])
			return
		}
	}
}

// Dispose empties every bucket.
func (p *BufferPool) Dispose() {
	for _, bucket := range p.pools {
		bucket.Dispose()
	}
}

// Stats returns one snapshot per bucket, smallest first.
func (p *BufferPool) Stats() []Stats {
	stats := make([]Stats, len(p.pools))
	for i, bucket := range p.pools {
		stats[i] = bucket.Stats()
	}
	return stats
}

// GlobalBufferPool provides size-based byte buffer pooling for I/O operations.
// It manages buffers from 512B to 16MB with automatic size selection.
var GlobalBufferPool = NewBufferPool(WithName("buffers"))
