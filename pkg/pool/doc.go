// Package pool implements policy-driven object pools: a bounded free buffer
// of reusable instances plus a policy that decides how instances are built,
// cleaned and discarded.
//
// # Architecture
//
// A policy is a value type implementing Policy[T]. The engine carries it as
// a type parameter, so hook calls are resolved when the pool type is
// instantiated rather than through a stored interface or func field:
//
//	Pool[T, P Policy[T]]      mutex guarded LIFO free buffer
//	RingPool[T, P Policy[T]]  lock-free MPMC ring free buffer
//	Handle[T]                 policy erased view of either engine
//	AnyHandle                 fully erased view, used by registries
//
// The hooks run at fixed points of an instance's life:
//
//	Create     only when a Rent finds the free buffer empty
//	OnRent     just before an instance is handed out
//	OnRecycle  on Return, before the instance re-enters the free buffer
//	OnDispose  when an instance is evicted on overflow or drained by Dispose
//
// # Built-in Policies
//
//   - ObjectPolicy[S]: zero-value *S, no cleanup
//   - CollectionPolicy[C, PC]: cleared on rent, recycle and dispose
//   - BuilderPolicy[B, PB]: reset on recycle and dispose only
//   - SlicePolicy[E], MapPolicy[K, V], ChanPolicy[E]: builtin containers
//   - Funcs[T]: func fields, for registries and tests
//
// # Usage Patterns
//
// Providers build independent pools from a policy and options:
//
//	buffers := pool.NewBuilderProvider[bytes.Buffer](pool.WithCapacity(128)).NewPool()
//	buf := buffers.Rent()
//	buf.WriteString("payload")
//	if err := buffers.Return(buf); err != nil {
//		// returned twice, or nil
//	}
//
// A custom policy only overrides the hooks it needs:
//
//	type conn struct{ id int }
//
//	type connPolicy struct{ pool.NoHooks[*conn] }
//
//	func (connPolicy) Create() *conn { return &conn{} }
//
//	conns := pool.New[*conn](connPolicy{}, pool.WithName("conns"))
//
// Scoped helpers make sure an instance goes back on every exit path:
//
//	err := pool.Use(buffers, func(b *bytes.Buffer) error {
//		return render(b)
//	})
//
// # Capacity
//
// Capacity bounds the free buffer only. Rent never blocks and never fails
// for lack of stock; it constructs instead. A Return into a full buffer
// disposes the instance and counts it as evicted.
//
// # Contract Violations
//
// With return checks enabled (the default on Pool), returning an instance
// that is already free, or a nil instance, is rejected with an error of type
// errors.ErrorTypeContract and leaves the free buffer untouched. Detection is
// identity based and only covers pointer-like types. RingPool rejects nil
// instances but does not track identities.
//
// # Metrics
//
// Every pool keeps counters readable through Stats: created, hits, misses,
// returned, evicted, disposed, rejected and in-use. They are plain atomics;
// pkg/metrics exports them to Prometheus at scrape time.
package pool
