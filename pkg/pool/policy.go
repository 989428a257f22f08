package pool

// Hooks are the per-instance callbacks a pool invokes around reuse.
type Hooks[T any] interface {
	// OnRent runs just before an instance is handed to a caller.
	OnRent(T)
	// OnRecycle runs on Return, before the instance re-enters the free buffer.
	OnRecycle(T)
	// OnDispose runs when the pool discards an instance for good.
	OnDispose(T)
}

// Policy describes how a pool builds and cleans instances of T.
//
// Implementations are usually empty structs. Create must not return a zero
// value for pointer-like T; a panic in Create propagates to the Rent caller
// and leaves the pool unchanged.
type Policy[T any] interface {
	// Create builds a fresh instance. Only called when the free buffer is empty.
	Create() T
	Hooks[T]
}

// NoHooks provides no-op hooks. Embed it in a policy to override only the
// hooks that matter.
type NoHooks[T any] struct{}

func (NoHooks[T]) OnRent(T) {}

func (NoHooks[T]) OnRecycle(T) {}

func (NoHooks[T]) OnDispose(T) {}
