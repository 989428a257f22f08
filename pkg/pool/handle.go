package pool

import (
	"reflect"

	"github.com/ajitpratap0/recycler/pkg/errors"
)

// Handle is a pool of T with its policy erased. Both engines implement it.
type Handle[T any] interface {
	Rent() T
	Return(T) error
	Dispose()
	Warm(n int) int
	Stats() Stats
	Name() string
}

var (
	_ Handle[*struct{}] = (*Pool[*struct{}, ObjectPolicy[struct{}]])(nil)
	_ Handle[*struct{}] = (*RingPool[*struct{}, ObjectPolicy[struct{}]])(nil)
)

// AnyHandle is a fully type-erased pool, used where pools of different
// element types live side by side.
type AnyHandle interface {
	Rent() any
	// Return rejects values whose dynamic type is not ElemType.
	Return(any) error
	Dispose()
	Warm(n int) int
	Stats() Stats
	Name() string
	ElemType() reflect.Type
}

type erased[T any] struct {
	h Handle[T]
}

// Erase wraps a typed handle as an AnyHandle.
func Erase[T any](h Handle[T]) AnyHandle {
	return erased[T]{h: h}
}

// Unerase recovers the typed handle behind a. It reports false when a was
// not produced by Erase for the same T.
func Unerase[T any](a AnyHandle) (Handle[T], bool) {
	e, ok := a.(erased[T])
	if !ok {
		return nil, false
	}
	return e.h, true
}

func (e erased[T]) Rent() any { return e.h.Rent() }

func (e erased[T]) Return(v any) error {
	t, ok := v.(T)
	if !ok {
		return errors.Newf(errors.ErrorTypeContract, "cannot return %T to a pool of %s", v, e.ElemType()).
			WithDetail("pool", e.h.Name())
	}
	return e.h.Return(t)
}

func (e erased[T]) Dispose() { e.h.Dispose() }

func (e erased[T]) Warm(n int) int { return e.h.Warm(n) }

func (e erased[T]) Stats() Stats { return e.h.Stats() }

func (e erased[T]) Name() string { return e.h.Name() }

func (e erased[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }
