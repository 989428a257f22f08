// Package config provides the configuration model for recycler: named pool
// declarations plus the logging, metrics, tracing and workload sections the
// CLI needs.
//
// # Key Features
//
// - Config: single YAML document describing every pool the process builds
// - Environment variable substitution with ${VAR_NAME} and ${VAR_NAME:-default}
// - Defaults via Default, checked by Validate
//
// # Usage
//
//	cfg, err := config.LoadFile("recycler.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, p := range cfg.Pools {
//		fmt.Println(p.Name, p.Kind, p.Capacity)
//	}
//
// # File Format
//
//	version: "1"
//	logging:
//	  level: info
//	metrics:
//	  enabled: true
//	  address: "${METRICS_ADDR:-:9090}"
//	workload:
//	  workers: 8
//	  iterations: 100000
//	pools:
//	  - name: buffers
//	    kind: bytes_buffer
//	    capacity: 128
//	    warm: 16
//	  - name: events
//	    kind: byte_slice
//	    engine: ring
//	    options:
//	      cap: 4096
//
// A capacity of zero selects pool.DefaultCapacity. Return checks default to
// enabled; set return_checks: false to trade double-return detection for
// speed.
package config
