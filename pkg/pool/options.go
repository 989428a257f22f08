package pool

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/ajitpratap0/recycler/pkg/logger"
)

// DefaultCapacity is the free buffer bound used when none is configured.
const DefaultCapacity = 64

// Engine selects the free buffer implementation behind a pool.
type Engine string

const (
	// EngineMutex is a mutex guarded LIFO slice. It supports return checks.
	EngineMutex Engine = "mutex"
	// EngineRing is a lock-free bounded ring. It has FIFO order and does not
	// track identities.
	EngineRing Engine = "ring"
)

// ParseEngine maps a configuration string to an Engine. The empty string
// selects EngineMutex.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineMutex:
		return EngineMutex, nil
	case EngineRing:
		return EngineRing, nil
	}
	return "", fmt.Errorf("unknown pool engine %q", s)
}

// Options configure a pool at construction.
type Options struct {
	Name         string
	Capacity     int
	Engine       Engine
	ReturnChecks bool
	Warm         int
	Logger       *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithCapacity bounds the free buffer. Values <= 0 select DefaultCapacity.
func WithCapacity(n int) Option {
	return func(o *Options) { o.Capacity = n }
}

// WithName names the pool in logs, stats and metrics.
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}

// WithLogger sets the logger used for cold-path events.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithReturnChecks toggles double-return and nil detection on Return.
func WithReturnChecks(enabled bool) Option {
	return func(o *Options) { o.ReturnChecks = enabled }
}

// WithEngine selects the free buffer implementation used by providers.
func WithEngine(e Engine) Option {
	return func(o *Options) { o.Engine = e }
}

// WithWarm pre-constructs n instances when the pool is built.
func WithWarm(n int) Option {
	return func(o *Options) { o.Warm = n }
}

func resolveOptions[T any](opts []Option) Options {
	o := Options{
		Capacity:     DefaultCapacity,
		Engine:       EngineMutex,
		ReturnChecks: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Capacity <= 0 {
		o.Capacity = DefaultCapacity
	}
	if o.Name == "" {
		o.Name = reflect.TypeFor[T]().String()
	}
	if o.Logger == nil {
		o.Logger = logger.Named("pool")
	}
	o.Logger = o.Logger.With(zap.String("pool", o.Name))
	return o
}
