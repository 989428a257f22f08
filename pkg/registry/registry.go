// Package registry builds named pools from configuration. Pool kinds are
// registered as factories; Build turns a config.PoolConfig into a live,
// type-erased handle that the rest of the process looks up by name.
package registry

import (
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/recycler/pkg/config"
	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/logger"
	"github.com/ajitpratap0/recycler/pkg/pool"
)

// Factory builds a pool for one declaration. opts already carry the name,
// capacity, engine, return checks and warm count from cfg.
type Factory func(cfg *config.PoolConfig, opts []pool.Option) (pool.AnyHandle, error)

// KindInfo describes a registered pool kind.
type KindInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ElemType    string `json:"elem_type"`
}

type kind struct {
	info    KindInfo
	factory Factory
}

// Registry manages pool kinds and the pools built from them
type Registry struct {
	kinds  map[string]kind
	pools  map[string]pool.AnyHandle
	order  []string
	mu     sync.RWMutex
	logger *zap.Logger
}

// Global registry instance, preloaded with the built-in kinds
var globalRegistry = NewRegistry()

// NewRegistry creates a registry with the built-in kinds registered and no
// pools built.
func NewRegistry() *Registry {
	r := &Registry{
		kinds:  make(map[string]kind),
		pools:  make(map[string]pool.AnyHandle),
		logger: logger.Get().With(zap.String("component", "pool_registry")),
	}
	registerBuiltins(r)
	return r
}

// RegisterKind registers a pool factory under info.Name.
func (r *Registry) RegisterKind(info KindInfo, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[info.Name]; exists {
		return errors.Newf(errors.ErrorTypeConflict, "pool kind %s already registered", info.Name)
	}

	r.kinds[info.Name] = kind{info: info, factory: factory}
	r.logger.Debug("pool kind registered", zap.String("kind", info.Name))
	return nil
}

// Register adds a typed kind. The element type recorded in KindInfo is
// taken from T.
func Register[T any](r *Registry, name, description string, build func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[T], error)) error {
	info := KindInfo{
		Name:        name,
		Description: description,
		ElemType:    reflect.TypeFor[T]().String(),
	}
	return r.RegisterKind(info, func(cfg *config.PoolConfig, opts []pool.Option) (pool.AnyHandle, error) {
		h, err := build(cfg, opts)
		if err != nil {
			return nil, err
		}
		return pool.Erase(h), nil
	})
}

// HasKind checks if a pool kind is registered
func (r *Registry) HasKind(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.kinds[name]
	return exists
}

// Kinds returns the registered kinds sorted by name.
func (r *Registry) Kinds() []KindInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]KindInfo, 0, len(r.kinds))
	for _, k := range r.kinds {
		infos = append(infos, k.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Build validates cfg, constructs its pool and records it under cfg.Name.
func (r *Registry) Build(cfg config.PoolConfig) (pool.AnyHandle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	k, exists := r.kinds[cfg.Kind]
	_, taken := r.pools[cfg.Name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "pool kind %s not found", cfg.Kind).
			WithDetail("pool", cfg.Name)
	}
	if taken {
		return nil, errors.Newf(errors.ErrorTypeConflict, "pool %s already built", cfg.Name)
	}

	h, err := k.factory(&cfg, cfg.PoolOptions())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to build pool "+cfg.Name).
			WithDetail("kind", cfg.Kind)
	}

	r.mu.Lock()
	if _, taken := r.pools[cfg.Name]; taken {
		r.mu.Unlock()
		h.Dispose()
		return nil, errors.Newf(errors.ErrorTypeConflict, "pool %s already built", cfg.Name)
	}
	r.pools[cfg.Name] = h
	r.order = append(r.order, cfg.Name)
	r.mu.Unlock()

	r.logger.Info("pool built",
		zap.String("pool", cfg.Name),
		zap.String("kind", cfg.Kind),
		zap.Int("capacity", h.Stats().Capacity))
	return h, nil
}

// BuildAll builds every declaration in order and stops at the first error.
// Pools built before the failure stay registered.
func (r *Registry) BuildAll(cfgs []config.PoolConfig) error {
	for _, cfg := range cfgs {
		if _, err := r.Build(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the pool built under name.
func (r *Registry) Get(name string) (pool.AnyHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.pools[name]
	return h, ok
}

// Typed returns the pool built under name as a Handle[T].
func Typed[T any](r *Registry, name string) (pool.Handle[T], error) {
	h, ok := r.Get(name)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "pool %s not found", name)
	}
	typed, ok := pool.Unerase[T](h)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeContract, "pool %s holds %s, not %s",
			name, h.ElemType(), reflect.TypeFor[T]())
	}
	return typed, nil
}

// Names returns pool names in build order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Stats snapshots every pool in build order.
func (r *Registry) Stats() []pool.Stats {
	r.mu.RLock()
	handles := make([]pool.AnyHandle, 0, len(r.order))
	for _, name := range r.order {
		handles = append(handles, r.pools[name])
	}
	r.mu.RUnlock()

	stats := make([]pool.Stats, len(handles))
	for i, h := range handles {
		stats[i] = h.Stats()
	}
	return stats
}

// Remove disposes the named pool and forgets it.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	h, ok := r.pools[name]
	if ok {
		delete(r.pools, name)
		for i, n := range r.order {
			if n == name {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if ok {
		h.Dispose()
	}
	return ok
}

// DisposeAll disposes and forgets every pool. Registered kinds are kept.
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	handles := make([]pool.AnyHandle, 0, len(r.order))
	for _, name := range r.order {
		handles = append(handles, r.pools[name])
	}
	r.pools = make(map[string]pool.AnyHandle)
	r.order = nil
	r.mu.Unlock()

	for _, h := range handles {
		h.Dispose()
	}
	r.logger.Debug("pools disposed", zap.Int("count", len(handles)))
}

// Global registry functions

// RegisterKind registers a pool kind in the global registry
func RegisterKind(info KindInfo, factory Factory) error {
	return globalRegistry.RegisterKind(info, factory)
}

// Build builds a pool in the global registry
func Build(cfg config.PoolConfig) (pool.AnyHandle, error) {
	return globalRegistry.Build(cfg)
}

// Get returns a pool from the global registry
func Get(name string) (pool.AnyHandle, bool) {
	return globalRegistry.Get(name)
}

// Kinds lists the kinds registered in the global registry
func Kinds() []KindInfo {
	return globalRegistry.Kinds()
}

// GetRegistry returns the global registry instance.
func GetRegistry() *Registry {
	return globalRegistry
}
