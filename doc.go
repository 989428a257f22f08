// Package recycler provides bounded, policy-driven object pools for Go.
//
// A pool hands out instances of one type, takes them back, and keeps at most
// a fixed number of idle instances for reuse. Everything type specific lives
// in a Policy: how to construct an instance and what to do to it when it is
// rented, returned for reuse, or discarded.
//
// # Architecture
//
// Recycler is organised in layers:
//
// 1. Policies (pkg/pool): Create plus three hooks. NoHooks makes every hook
// optional; built-in policies cover plain objects, clearable collections,
// resettable builders, slices, maps and channels.
//
// 2. Engines (pkg/pool): a mutex-guarded LIFO Pool with double-return
// detection, and a lock-free RingPool for hot paths.
//
// 3. Providers and handles (pkg/pool): factories that produce independent
// pools, and type-erased handles so pools of different types can be managed
// side by side.
//
// 4. Registry and configuration (pkg/registry, pkg/config): named pools built
// from a YAML file.
//
// 5. Tooling (cmd/recycler): a CLI that drives concurrent workloads against
// the configured pools and exports Prometheus metrics and OpenTelemetry
// spans.
//
// # Quick Start
//
//	import "github.com/ajitpratap0/recycler/pkg/pool"
//
//	buffers := pool.NewBuilderProvider[bytes.Buffer](pool.WithCapacity(128)).NewPool()
//
//	buf := buffers.Rent()
//	buf.WriteString("hello")
//	if err := buffers.Return(buf); err != nil {
//	    // contract violation: nil or a double return
//	}
//
// # Key Packages
//
//	pkg/pool          - Policies, engines, providers and handles
//	pkg/registry      - Named pools built from configuration
//	pkg/config        - YAML configuration with env substitution
//	pkg/compression   - Codecs whose encoder state is pooled
//	pkg/strings       - Pooled zero-copy string builders
//	pkg/collections   - Clearable List, Set and Dict
//	pkg/lockfree      - Bounded MPMC ring used by RingPool
//	pkg/metrics       - Prometheus collector over pool statistics
//	pkg/observability - OpenTelemetry tracing for workloads
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//
// # Development
//
// Run tests and benchmarks:
//
//	go test ./...
//	go test -bench=. ./pkg/pool
//	go run ./cmd/recycler run --workers 8 --duration 5s
package recycler
