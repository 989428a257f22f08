package config

import (
	"runtime"
	"time"

	"github.com/ajitpratap0/recycler/pkg/compression"
	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/logger"
	"github.com/ajitpratap0/recycler/pkg/pool"
)

// Config is the root configuration document.
type Config struct {
	// Version indicates the configuration version
	Version string `yaml:"version" json:"version"`

	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" json:"logging"`

	// Metrics configures the Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Tracing configures OpenTelemetry spans around workload runs
	Tracing TracingConfig `yaml:"tracing" json:"tracing"`

	// Workload drives the CLI rent/return exerciser
	Workload WorkloadConfig `yaml:"workload" json:"workload"`

	// Pools lists the named pools to build
	Pools []PoolConfig `yaml:"pools" json:"pools"`
}

// MetricsConfig contains Prometheus exporter settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address" json:"address"`
	Path    string `yaml:"path" json:"path"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	ServiceName string  `yaml:"service_name" json:"service_name"`
	SampleRate  float64 `yaml:"sample_rate" json:"sample_rate"`
}

// WorkloadConfig shapes the synthetic workload run against every pool.
type WorkloadConfig struct {
	// Workers is the number of goroutines renting concurrently
	Workers int `yaml:"workers" json:"workers"`
	// Iterations is the number of rent/return cycles per worker
	Iterations int `yaml:"iterations" json:"iterations"`
	// Duration bounds the run; zero means run all iterations
	Duration time.Duration `yaml:"duration" json:"duration"`
	// PayloadSize is the number of bytes written into each rented instance
	PayloadSize int `yaml:"payload_size" json:"payload_size"`
	// Compression compresses each payload with this algorithm, none to skip
	Compression string `yaml:"compression" json:"compression"`
}

// PoolConfig declares one named pool.
type PoolConfig struct {
	// Name identifies the pool in the registry, logs and metrics
	Name string `yaml:"name" json:"name"`
	// Kind selects the registered factory (bytes_buffer, map, ...)
	Kind string `yaml:"kind" json:"kind"`
	// Capacity bounds the free buffer; 0 selects the default
	Capacity int `yaml:"capacity" json:"capacity"`
	// Engine is mutex (default) or ring
	Engine string `yaml:"engine" json:"engine"`
	// ReturnChecks toggles double-return detection; unset means enabled
	ReturnChecks *bool `yaml:"return_checks,omitempty" json:"return_checks,omitempty"`
	// Warm pre-constructs this many instances
	Warm int `yaml:"warm" json:"warm"`
	// Options carries kind specific settings
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// Default returns a configuration with production defaults and no pools.
func Default() *Config {
	return &Config{
		Version: "1",
		Logging: logger.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "recycler",
			SampleRate:  1.0,
		},
		Workload: WorkloadConfig{
			Workers:     runtime.NumCPU(),
			Iterations:  10000,
			PayloadSize: 256,
			Compression: string(compression.None),
		},
	}
}

// Validate checks the configuration for correctness. Pool kinds are checked
// later, against the registry they are built in.
func (c *Config) Validate() error {
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return errors.New(errors.ErrorTypeValidation, "metrics.address is required when metrics are enabled")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return errors.Newf(errors.ErrorTypeValidation, "tracing.sample_rate must be within [0, 1], got %v", c.Tracing.SampleRate)
	}
	if err := c.Workload.Validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Pools))
	for i := range c.Pools {
		p := &c.Pools[i]
		if err := p.Validate(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeValidation, "invalid pool").
				WithDetail("index", i)
		}
		if _, dup := seen[p.Name]; dup {
			return errors.Newf(errors.ErrorTypeConflict, "pool %q is declared twice", p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Validate checks the workload section.
func (w *WorkloadConfig) Validate() error {
	if w.Workers <= 0 {
		return errors.New(errors.ErrorTypeValidation, "workload.workers must be positive")
	}
	if w.Iterations <= 0 && w.Duration <= 0 {
		return errors.New(errors.ErrorTypeValidation, "workload needs iterations or a duration")
	}
	if w.PayloadSize < 0 {
		return errors.New(errors.ErrorTypeValidation, "workload.payload_size cannot be negative")
	}
	if w.Compression != "" {
		if _, err := compression.ParseAlgorithm(w.Compression); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks one pool declaration.
func (p *PoolConfig) Validate() error {
	if p.Name == "" {
		return errors.New(errors.ErrorTypeValidation, "name is required")
	}
	if p.Kind == "" {
		return errors.Newf(errors.ErrorTypeValidation, "pool %q: kind is required", p.Name)
	}
	if p.Capacity < 0 {
		return errors.Newf(errors.ErrorTypeValidation, "pool %q: capacity cannot be negative", p.Name)
	}
	if p.Warm < 0 {
		return errors.Newf(errors.ErrorTypeValidation, "pool %q: warm cannot be negative", p.Name)
	}
	if _, err := pool.ParseEngine(p.Engine); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, p.Name)
	}
	return nil
}

// ChecksEnabled reports whether return checks are on for this pool.
func (p *PoolConfig) ChecksEnabled() bool {
	return p.ReturnChecks == nil || *p.ReturnChecks
}

// PoolOptions translates the declaration into pool options.
func (p *PoolConfig) PoolOptions() []pool.Option {
	engine, _ := pool.ParseEngine(p.Engine)
	return []pool.Option{
		pool.WithName(p.Name),
		pool.WithCapacity(p.Capacity),
		pool.WithEngine(engine),
		pool.WithReturnChecks(p.ChecksEnabled()),
		pool.WithWarm(p.Warm),
	}
}

// Int reads an integer option. YAML yields int, JSON and viper may yield
// float64 or int64.
func (p *PoolConfig) Int(key string, def int) int {
	switch v := p.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// String reads a string option.
func (p *PoolConfig) String(key, def string) string {
	if v, ok := p.Options[key].(string); ok {
		return v
	}
	return def
}
