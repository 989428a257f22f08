package pool

// Clearable is satisfied by *C when C is a default-constructible collection
// with a Clear method.
type Clearable[C any] interface {
	*C
	Clear()
}

// Resettable is satisfied by *B when B is a default-constructible builder
// with a Reset method, such as bytes.Buffer or strings.Builder.
type Resettable[B any] interface {
	*B
	Reset()
}

// ObjectPolicy hands out zero-value *S instances and never cleans them.
type ObjectPolicy[S any] struct {
	NoHooks[*S]
}

func (ObjectPolicy[S]) Create() *S { return new(S) }

// CollectionPolicy clears a collection on rent, on recycle and on dispose,
// so a rented collection is always empty.
type CollectionPolicy[C any, PC Clearable[C]] struct{}

func (CollectionPolicy[C, PC]) Create() PC { return PC(new(C)) }

func (CollectionPolicy[C, PC]) OnRent(c PC) { c.Clear() }

func (CollectionPolicy[C, PC]) OnRecycle(c PC) { c.Clear() }

func (CollectionPolicy[C, PC]) OnDispose(c PC) { c.Clear() }

// BuilderPolicy resets a builder on recycle and on dispose. Nothing runs on
// rent: a builder fresh from the free buffer was already reset when it went
// back.
type BuilderPolicy[B any, PB Resettable[B]] struct{}

func (BuilderPolicy[B, PB]) Create() PB { return PB(new(B)) }

func (BuilderPolicy[B, PB]) OnRent(PB) {}

func (BuilderPolicy[B, PB]) OnRecycle(b PB) { b.Reset() }

func (BuilderPolicy[B, PB]) OnDispose(b PB) { b.Reset() }

// SlicePolicy pools *[]E with a starting capacity of Cap. Returned slices are
// zeroed and truncated. When MaxCap is positive, slices that grew beyond it
// are replaced by a fresh one on recycle.
type SlicePolicy[E any] struct {
	Cap    int
	MaxCap int
}

func (p SlicePolicy[E]) Create() *[]E {
	s := make([]E, 0, p.Cap)
	return &s
}

func (SlicePolicy[E]) OnRent(*[]E) {}

func (p SlicePolicy[E]) OnRecycle(s *[]E) {
	if p.MaxCap > 0 && cap(*s) > p.MaxCap {
		*s = make([]E, 0, p.Cap)
		return
	}
	clear(*s)
	*s = (*s)[:0]
}

func (SlicePolicy[E]) OnDispose(s *[]E) {
	clear(*s)
	*s = (*s)[:0]
}

// MapPolicy pools maps sized for Size entries, cleared on recycle and dispose.
type MapPolicy[K comparable, V any] struct {
	Size int
}

func (p MapPolicy[K, V]) Create() map[K]V { return make(map[K]V, p.Size) }

func (MapPolicy[K, V]) OnRent(map[K]V) {}

func (MapPolicy[K, V]) OnRecycle(m map[K]V) { clear(m) }

func (MapPolicy[K, V]) OnDispose(m map[K]V) { clear(m) }

// ChanPolicy pools buffered channels of Size slots. Channels are drained
// without blocking on recycle and dispose; they are never closed.
type ChanPolicy[E any] struct {
	Size int
}

func (p ChanPolicy[E]) Create() chan E { return make(chan E, p.Size) }

func (ChanPolicy[E]) OnRent(chan E) {}

func (ChanPolicy[E]) OnRecycle(ch chan E) { drain(ch) }

func (ChanPolicy[E]) OnDispose(ch chan E) { drain(ch) }

func drain[E any](ch chan E) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

// Funcs is a policy assembled from functions. New is required; Reset runs on
// recycle and Dispose on dispose when set. Calls go through func values, so
// prefer a dedicated policy type on hot paths.
type Funcs[T any] struct {
	New     func() T
	Reset   func(T)
	Dispose func(T)
}

func (f Funcs[T]) Create() T { return f.New() }

func (Funcs[T]) OnRent(T) {}

func (f Funcs[T]) OnRecycle(v T) {
	if f.Reset != nil {
		f.Reset(v)
	}
}

func (f Funcs[T]) OnDispose(v T) {
	if f.Dispose != nil {
		f.Dispose(v)
	}
}
