package pool

// Provider builds independent pools. Providers hold no pool state: every
// NewPool call yields a fresh pool with its own free buffer and counters.
type Provider[T any] interface {
	NewPool() Handle[T]
}

func build[T any, P Policy[T]](policy P, opts []Option) Handle[T] {
	o := resolveOptions[T](opts)
	if o.Engine == EngineRing {
		return newRingPool[T](policy, o)
	}
	return newPool[T](policy, o)
}

// ObjectProvider builds pools of zero-value *S instances.
type ObjectProvider[S any] struct {
	opts []Option
}

// NewObjectProvider creates an ObjectProvider.
func NewObjectProvider[S any](opts ...Option) ObjectProvider[S] {
	return ObjectProvider[S]{opts: opts}
}

func (p ObjectProvider[S]) NewPool() Handle[*S] {
	return build[*S](ObjectPolicy[S]{}, p.opts)
}

// CollectionProvider builds pools of collections that are cleared on rent,
// recycle and dispose.
//
//	lists := pool.NewCollectionProvider[collections.List[int]]().NewPool()
type CollectionProvider[C any, PC Clearable[C]] struct {
	opts []Option
}

// NewCollectionProvider creates a CollectionProvider.
func NewCollectionProvider[C any, PC Clearable[C]](opts ...Option) CollectionProvider[C, PC] {
	return CollectionProvider[C, PC]{opts: opts}
}

func (p CollectionProvider[C, PC]) NewPool() Handle[PC] {
	return build[PC](CollectionPolicy[C, PC]{}, p.opts)
}

// BuilderProvider builds pools of text builders that are reset on recycle
// and dispose but not on rent.
type BuilderProvider[B any, PB Resettable[B]] struct {
	opts []Option
}

// NewBuilderProvider creates a BuilderProvider.
func NewBuilderProvider[B any, PB Resettable[B]](opts ...Option) BuilderProvider[B, PB] {
	return BuilderProvider[B, PB]{opts: opts}
}

func (p BuilderProvider[B, PB]) NewPool() Handle[PB] {
	return build[PB](BuilderPolicy[B, PB]{}, p.opts)
}

// CustomCollectionProvider builds pools where the engine constructs a zero
// collection and the caller's hooks decide the cleanup.
type CustomCollectionProvider[C any, PC Clearable[C], H Hooks[PC]] struct {
	hooks H
	opts  []Option
}

// NewCustomCollectionProvider creates a CustomCollectionProvider.
func NewCustomCollectionProvider[C any, PC Clearable[C], H Hooks[PC]](hooks H, opts ...Option) CustomCollectionProvider[C, PC, H] {
	return CustomCollectionProvider[C, PC, H]{hooks: hooks, opts: opts}
}

func (p CustomCollectionProvider[C, PC, H]) NewPool() Handle[PC] {
	return build[PC](hookedCollection[C, PC, H]{hooks: p.hooks}, p.opts)
}

type hookedCollection[C any, PC Clearable[C], H Hooks[PC]] struct {
	hooks H
}

func (hookedCollection[C, PC, H]) Create() PC { return PC(new(C)) }

func (h hookedCollection[C, PC, H]) OnRent(c PC) { h.hooks.OnRent(c) }

func (h hookedCollection[C, PC, H]) OnRecycle(c PC) { h.hooks.OnRecycle(c) }

func (h hookedCollection[C, PC, H]) OnDispose(c PC) { h.hooks.OnDispose(c) }

// CustomProvider builds pools from a caller supplied policy.
//
//	encoders := pool.NewCustomProvider[*zstd.Encoder](encoderPolicy{}).NewPool()
type CustomProvider[T any, P Policy[T]] struct {
	policy P
	opts   []Option
}

// NewCustomProvider creates a CustomProvider.
func NewCustomProvider[T any, P Policy[T]](policy P, opts ...Option) CustomProvider[T, P] {
	return CustomProvider[T, P]{policy: policy, opts: opts}
}

func (p CustomProvider[T, P]) NewPool() Handle[T] {
	return build[T](p.policy, p.opts)
}
