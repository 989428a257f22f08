package main

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/recycler/pkg/config"
	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/registry"
)

// envPrefix scopes environment overrides, e.g. RECYCLER_WORKLOAD_WORKERS.
const envPrefix = "RECYCLER"

// defaultPools are built when the config declares none.
var defaultPools = []config.PoolConfig{
	{Name: "buffers", Kind: registry.KindBytesBuffer, Capacity: 64},
	{Name: "slices", Kind: registry.KindByteSlice, Capacity: 64, Engine: "ring"},
	{Name: "maps", Kind: registry.KindMap, Capacity: 32},
	{Name: "sets", Kind: registry.KindSet, Capacity: 32},
}

// overrides maps viper keys to the flags that set them.
var overrides = map[string]string{
	"logging.level":         "log-level",
	"metrics.enabled":       "metrics",
	"metrics.address":       "metrics-addr",
	"tracing.enabled":       "trace",
	"workload.workers":      "workers",
	"workload.iterations":   "iterations",
	"workload.duration":     "duration",
	"workload.payload_size": "payload-size",
	"workload.compression":  "compression",
}

// loadSettings reads the YAML file (if any) and layers environment and
// explicitly set flags on top. Precedence: flag > env > file > default.
func loadSettings(path string, flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key, flag := range overrides {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to bind env "+key)
		}
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to bind flag "+flag)
			}
		}
	}

	apply := func(key string, set func()) {
		if f := flags.Lookup(overrides[key]); (f != nil && f.Changed) || envSet(key) {
			set()
		}
	}
	apply("logging.level", func() { cfg.Logging.Level = v.GetString("logging.level") })
	apply("metrics.enabled", func() { cfg.Metrics.Enabled = v.GetBool("metrics.enabled") })
	apply("metrics.address", func() { cfg.Metrics.Address = v.GetString("metrics.address") })
	apply("tracing.enabled", func() { cfg.Tracing.Enabled = v.GetBool("tracing.enabled") })
	apply("workload.workers", func() { cfg.Workload.Workers = v.GetInt("workload.workers") })
	apply("workload.iterations", func() { cfg.Workload.Iterations = v.GetInt("workload.iterations") })
	apply("workload.duration", func() { cfg.Workload.Duration = v.GetDuration("workload.duration") })
	apply("workload.payload_size", func() { cfg.Workload.PayloadSize = v.GetInt("workload.payload_size") })
	apply("workload.compression", func() { cfg.Workload.Compression = v.GetString("workload.compression") })

	if len(cfg.Pools) == 0 {
		cfg.Pools = append([]config.PoolConfig(nil), defaultPools...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	return ok
}
