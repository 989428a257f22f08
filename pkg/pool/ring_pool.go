package pool

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/lockfree"
)

// RingPool is a pool whose free buffer is a lock-free bounded ring. Free
// instances come back in FIFO order.
//
// RingPool rejects nil instances when return checks are enabled but does not
// track identities, so a double return goes unnoticed. Under heavy
// contention a Return may find the ring momentarily full and dispose an
// instance that would have fit.
type RingPool[T any, P Policy[T]] struct {
	policy P
	name   string
	checks bool
	logger *zap.Logger
	free   *lockfree.Ring[T]
	stats  counters
}

// NewRing creates a lock-free engine pool for policy.
func NewRing[T any, P Policy[T]](policy P, opts ...Option) *RingPool[T, P] {
	return newRingPool[T](policy, resolveOptions[T](opts))
}

func newRingPool[T any, P Policy[T]](policy P, o Options) *RingPool[T, P] {
	p := &RingPool[T, P]{
		policy: policy,
		name:   o.Name,
		checks: o.ReturnChecks && trackable[T](),
		logger: o.Logger,
		free:   lockfree.NewRing[T](o.Capacity),
	}

	p.logger.Debug("pool created",
		zap.Int("capacity", o.Capacity),
		zap.String("engine", string(EngineRing)),
		zap.Bool("return_checks", p.checks))

	if o.Warm > 0 {
		p.Warm(o.Warm)
	}
	return p
}

// Rent hands out an instance, constructing one when the ring is empty.
func (p *RingPool[T, P]) Rent() T {
	v, ok := p.free.Dequeue()
	if ok {
		p.stats.hits.Add(1)
	} else {
		v = p.policy.Create()
		p.stats.created.Add(1)
		p.stats.misses.Add(1)
	}
	p.stats.inUse.Add(1)
	p.policy.OnRent(v)
	return v
}

// Return recycles v and enqueues it, disposing it when the ring is full.
func (p *RingPool[T, P]) Return(v T) error {
	if p.checks {
		if id, ok := identity(v); ok && id == 0 {
			p.stats.rejected.Add(1)
			p.logger.Warn("return rejected", zap.String("reason", "nil instance returned"))
			return errors.New(errors.ErrorTypeContract, "nil instance returned").WithDetail("pool", p.name)
		}
	}

	p.policy.OnRecycle(v)
	if !p.free.Enqueue(v) {
		p.policy.OnDispose(v)
		p.stats.evicted.Add(1)
	}
	p.stats.returned.Add(1)
	p.stats.inUse.Add(-1)
	return nil
}

// Dispose drains the ring, running OnDispose on every free instance.
func (p *RingPool[T, P]) Dispose() {
	n := 0
	for {
		v, ok := p.free.Dequeue()
		if !ok {
			break
		}
		p.policy.OnDispose(v)
		n++
	}
	p.stats.disposed.Add(int64(n))
	p.logger.Debug("pool disposed", zap.Int("instances", n))
}

// Warm constructs up to n instances straight into the ring.
func (p *RingPool[T, P]) Warm(n int) int {
	added := 0
	for added < n && p.free.Len() < p.free.Cap() {
		v := p.policy.Create()
		p.stats.created.Add(1)
		if !p.free.Enqueue(v) {
			p.policy.OnDispose(v)
			p.stats.evicted.Add(1)
			break
		}
		added++
	}
	return added
}

// Len returns the approximate number of free instances.
func (p *RingPool[T, P]) Len() int { return p.free.Len() }

// Cap returns the ring capacity.
func (p *RingPool[T, P]) Cap() int { return p.free.Cap() }

// Name returns the pool name.
func (p *RingPool[T, P]) Name() string { return p.name }

// Stats returns a snapshot of the pool counters.
func (p *RingPool[T, P]) Stats() Stats {
	return p.stats.snapshot(p.name, p.free.Cap(), p.free.Len())
}
