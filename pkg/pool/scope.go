package pool

// Use rents an instance, passes it to fn and returns it on every exit path.
// A panic in fn propagates after the instance is back in the pool. The
// error from fn wins over an error from Return.
func Use[T any](h Handle[T], fn func(T) error) (err error) {
	v := h.Rent()
	defer func() {
		if rerr := h.Return(v); err == nil {
			err = rerr
		}
	}()
	return fn(v)
}

// Lease holds one rented instance until Release.
//
//	l := pool.Acquire(buffers)
//	defer l.Release()
//	l.Value().WriteString("x")
type Lease[T any] struct {
	h        Handle[T]
	v        T
	released bool
}

// Acquire rents an instance from h wrapped in a Lease.
func Acquire[T any](h Handle[T]) *Lease[T] {
	return &Lease[T]{h: h, v: h.Rent()}
}

// Value returns the leased instance.
func (l *Lease[T]) Value() T { return l.v }

// Release returns the instance. Later calls are no-ops.
func (l *Lease[T]) Release() error {
	if l.released {
		return nil
	}
	l.released = true
	v := l.v
	var zero T
	l.v = zero
	return l.h.Return(v)
}
