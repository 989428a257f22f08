package pool

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/recycler/pkg/errors"
)

// Pool is a bounded pool of reusable T instances driven by policy P.
// The free buffer is a LIFO slice guarded by a mutex; hooks and Create run
// outside the lock, on instances the calling goroutine owns exclusively.
//
// The pool is safe for concurrent Rent and Return. Dispose must not run
// concurrently with other operations on the same pool.
type Pool[T any, P Policy[T]] struct {
	policy   P
	name     string
	capacity int
	checks   bool
	logger   *zap.Logger

	mu   sync.Mutex
	free []T
	ids  map[uintptr]struct{} // identities of free instances, only with checks

	stats counters
}

// New creates a mutex engine pool for policy.
//
// Example:
//
//	p := pool.New[*bytes.Buffer](pool.BuilderPolicy[bytes.Buffer, *bytes.Buffer]{},
//	    pool.WithCapacity(32),
//	)
//	buf := p.Rent()
//	defer p.Return(buf)
func New[T any, P Policy[T]](policy P, opts ...Option) *Pool[T, P] {
	return newPool[T](policy, resolveOptions[T](opts))
}

func newPool[T any, P Policy[T]](policy P, o Options) *Pool[T, P] {
	p := &Pool[T, P]{
		policy:   policy,
		name:     o.Name,
		capacity: o.Capacity,
		checks:   o.ReturnChecks && trackable[T](),
		logger:   o.Logger,
		free:     make([]T, 0, o.Capacity),
	}
	if p.checks {
		p.ids = make(map[uintptr]struct{}, o.Capacity)
	}

	p.logger.Debug("pool created",
		zap.Int("capacity", p.capacity),
		zap.String("engine", string(EngineMutex)),
		zap.Bool("return_checks", p.checks))

	if o.Warm > 0 {
		p.Warm(o.Warm)
	}
	return p
}

// Rent hands out an instance, constructing one when the free buffer is
// empty. It never blocks beyond one short critical section.
func (p *Pool[T, P]) Rent() T {
	p.mu.Lock()
	if n := len(p.free); n > 0 {
		v := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		if p.checks {
			p.untrack(v)
		}
		p.mu.Unlock()

		p.stats.hits.Add(1)
		p.stats.inUse.Add(1)
		p.policy.OnRent(v)
		return v
	}
	p.mu.Unlock()

	v := p.policy.Create()
	p.stats.created.Add(1)
	p.stats.misses.Add(1)
	p.stats.inUse.Add(1)
	p.policy.OnRent(v)
	return v
}

// Return gives an instance back. The policy recycles it; if the free buffer
// is full the instance is disposed instead, which is not an error.
//
// With return checks enabled, a nil instance or one that is already in the
// free buffer is rejected with a contract error and nothing changes.
func (p *Pool[T, P]) Return(v T) error {
	var id uintptr
	tracked := false
	if p.checks {
		var ok bool
		if id, ok = identity(v); ok {
			if id == 0 {
				return p.reject("nil instance returned")
			}
			tracked = true
			p.mu.Lock()
			_, dup := p.ids[id]
			p.mu.Unlock()
			if dup {
				return p.reject("instance returned twice")
			}
		}
	}

	p.policy.OnRecycle(v)

	p.mu.Lock()
	if tracked {
		// a concurrent Return of the same instance may have won the race
		if _, dup := p.ids[id]; dup {
			p.mu.Unlock()
			return p.reject("instance returned twice")
		}
	}
	if len(p.free) < p.capacity {
		p.free = append(p.free, v)
		if tracked {
			p.ids[id] = struct{}{}
		}
		p.mu.Unlock()
		p.stats.returned.Add(1)
		p.stats.inUse.Add(-1)
		return nil
	}
	p.mu.Unlock()

	p.policy.OnDispose(v)
	p.stats.returned.Add(1)
	p.stats.evicted.Add(1)
	p.stats.inUse.Add(-1)
	return nil
}

// Dispose runs OnDispose on every free instance and empties the buffer.
// Rented instances are not affected and may still be returned; the pool
// stays usable.
func (p *Pool[T, P]) Dispose() {
	p.mu.Lock()
	free := p.free
	p.free = make([]T, 0, p.capacity)
	if p.checks {
		clear(p.ids)
	}
	p.mu.Unlock()

	var zero T
	for i, v := range free {
		p.policy.OnDispose(v)
		free[i] = zero
	}
	p.stats.disposed.Add(int64(len(free)))
	p.logger.Debug("pool disposed", zap.Int("instances", len(free)))
}

// Warm constructs up to n instances straight into the free buffer and
// reports how many were added. It stops once the buffer is full.
func (p *Pool[T, P]) Warm(n int) int {
	added := 0
	for added < n && p.Len() < p.capacity {
		v := p.policy.Create()
		p.stats.created.Add(1)
		if !p.push(v) {
			p.policy.OnDispose(v)
			p.stats.evicted.Add(1)
			break
		}
		added++
	}
	return added
}

// push adds a fresh instance to the free buffer if there is room.
func (p *Pool[T, P]) push(v T) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) >= p.capacity {
		return false
	}
	p.free = append(p.free, v)
	if p.checks {
		if id, ok := identity(v); ok && id != 0 {
			p.ids[id] = struct{}{}
		}
	}
	return true
}

func (p *Pool[T, P]) untrack(v T) {
	if id, ok := identity(v); ok && id != 0 {
		delete(p.ids, id)
	}
}

func (p *Pool[T, P]) reject(reason string) error {
	p.stats.rejected.Add(1)
	p.logger.Warn("return rejected", zap.String("reason", reason))
	return errors.New(errors.ErrorTypeContract, reason).WithDetail("pool", p.name)
}

// Len returns the number of free instances.
func (p *Pool[T, P]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Cap returns the free buffer bound.
func (p *Pool[T, P]) Cap() int { return p.capacity }

// Name returns the pool name.
func (p *Pool[T, P]) Name() string { return p.name }

// Stats returns a snapshot of the pool counters.
func (p *Pool[T, P]) Stats() Stats {
	return p.stats.snapshot(p.name, p.capacity, p.Len())
}
