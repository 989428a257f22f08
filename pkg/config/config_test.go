package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ajitpratap0/recycler/pkg/config"
	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/pool"
	"github.com/ajitpratap0/recycler/pkg/testutil"
)

type ConfigTestSuite struct {
	testutil.ConfigSuite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestLoadFile() {
	s.T().Setenv("RECYCLER_TEST_CAP", "48")
	path := s.CreateTempFile("recycler.yaml", []byte(`
version: "1"
logging:
  level: debug
metrics:
  enabled: true
  address: "${RECYCLER_TEST_ADDR:-:9191}"
workload:
  workers: 4
  iterations: 100
  duration: 2s
  compression: zstd
pools:
  - name: buffers
    kind: bytes_buffer
    capacity: ${RECYCLER_TEST_CAP}
    warm: 8
  - name: events
    kind: byte_slice
    engine: ring
    return_checks: false
    options:
      cap: 4096
      label: hot
`))

	cfg, err := config.LoadFile(path)
	s.Require().NoError(err)

	s.Equal("debug", cfg.Logging.Level)
	s.Equal(":9191", cfg.Metrics.Address)
	s.Equal("/metrics", cfg.Metrics.Path, "unset fields keep their defaults")
	s.Equal(4, cfg.Workload.Workers)
	s.Equal(2*time.Second, cfg.Workload.Duration)
	s.Equal("zstd", cfg.Workload.Compression)

	s.Require().Len(cfg.Pools, 2)
	buffers, events := cfg.Pools[0], cfg.Pools[1]
	s.Equal(48, buffers.Capacity)
	s.Equal(8, buffers.Warm)
	s.True(buffers.ChecksEnabled())

	s.Equal(string(pool.EngineRing), events.Engine)
	s.False(events.ChecksEnabled())
	s.Equal(4096, events.Int("cap", 0))
	s.Equal(7, events.Int("missing", 7))
	s.Equal("hot", events.String("label", ""))
	s.Equal("x", events.String("cap", "x"), "wrong option type falls back")
}

func (s *ConfigTestSuite) TestLoadFileErrors() {
	_, err := config.LoadFile(filepath.Join(s.TempDir(), "missing.yaml"))
	s.Require().Error(err)
	s.True(errors.IsType(err, errors.ErrorTypeFile))

	bad := s.CreateTempFile("bad.yaml", []byte("pools: [unterminated"))
	_, err = config.LoadFile(bad)
	s.Require().Error(err)
	s.True(errors.IsType(err, errors.ErrorTypeConfig))

	invalid := s.CreateTempFile("invalid.yaml", []byte(`
pools:
  - name: broken
    kind: map
    engine: spinlock
`))
	_, err = config.LoadFile(invalid)
	s.Require().Error(err)
	s.Contains(err.Error(), "spinlock")
}

func (s *ConfigTestSuite) TestSaveRoundTrip() {
	cfg := config.Default()
	cfg.Pools = []config.PoolConfig{{Name: "sets", Kind: "set", Capacity: 16}}
	path := filepath.Join(s.TempDir(), "saved.yaml")

	s.Require().NoError(config.Save(path, cfg))
	_, err := os.Stat(path)
	s.Require().NoError(err)

	loaded, err := config.LoadFile(path)
	s.Require().NoError(err)
	s.Equal(cfg.Pools, loaded.Pools)
	s.Equal(cfg.Workload, loaded.Workload)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"no workers", func(c *config.Config) { c.Workload.Workers = 0 }, "workers must be positive"},
		{"no iterations or duration", func(c *config.Config) { c.Workload.Iterations = 0 }, "iterations or a duration"},
		{"duration only", func(c *config.Config) {
			c.Workload.Iterations = 0
			c.Workload.Duration = time.Second
		}, ""},
		{"unknown compression", func(c *config.Config) { c.Workload.Compression = "brotli" }, "brotli"},
		{"sample rate", func(c *config.Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
		{"metrics address", func(c *config.Config) {
			c.Metrics.Enabled = true
			c.Metrics.Address = ""
		}, "metrics.address"},
		{"pool without name", func(c *config.Config) {
			c.Pools = []config.PoolConfig{{Kind: "map"}}
		}, "name is required"},
		{"pool without kind", func(c *config.Config) {
			c.Pools = []config.PoolConfig{{Name: "m"}}
		}, "kind is required"},
		{"negative capacity", func(c *config.Config) {
			c.Pools = []config.PoolConfig{{Name: "m", Kind: "map", Capacity: -1}}
		}, "capacity cannot be negative"},
		{"negative warm", func(c *config.Config) {
			c.Pools = []config.PoolConfig{{Name: "m", Kind: "map", Warm: -1}}
		}, "warm cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPoolOptions(t *testing.T) {
	pc := config.PoolConfig{Name: "events", Kind: "byte_slice", Capacity: 3, Engine: "ring", Warm: 2}
	o := pool.Options{}
	for _, opt := range pc.PoolOptions() {
		opt(&o)
	}

	if o.Name != "events" || o.Capacity != 3 || o.Engine != pool.EngineRing || o.Warm != 2 || !o.ReturnChecks {
		t.Errorf("unexpected options: %+v", o)
	}
}
