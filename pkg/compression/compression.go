// Package compression provides compression support for recycler workloads
// with multiple algorithms and configurable levels. Encoders, decoders and
// output buffers are recycled through pkg/pool, so the expensive state of a
// codec (zstd encoders in particular) is built once per pool slot.
//
// # Algorithm Selection
//
//   - Snappy/S2: Best for speed, moderate compression
//   - LZ4: Extremely fast, decent compression
//   - Zstd: Best compression ratio, good speed
//   - Gzip: Wide compatibility, good compression
//   - Deflate: Standard algorithm, wide support
//
// # Basic Usage
//
//	comp, err := compression.NewCompressor(&compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Default,
//	})
//	defer comp.Close()
//
//	compressed, err := comp.Compress(data)
//	original, err := comp.Decompress(compressed)
package compression

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/pool"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
	// Deflate represents deflate compression
	Deflate Algorithm = "deflate"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

func (l Level) String() string {
	switch l {
	case Fastest:
		return "fastest"
	case Default:
		return "default"
	case Better:
		return "better"
	case Best:
		return "best"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Compressor provides compression and decompression functionality.
// All implementations are safe for concurrent use.
type Compressor interface {
	// Compress compresses data and returns the compressed bytes.
	// The input data is not modified.
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data and returns the original bytes.
	Decompress(data []byte) ([]byte, error)

	// CompressStream compresses from reader to writer.
	CompressStream(dst io.Writer, src io.Reader) error

	// DecompressStream decompresses from reader to writer.
	DecompressStream(dst io.Writer, src io.Reader) error

	// Algorithm returns the compression algorithm used.
	Algorithm() Algorithm

	// Level returns the compression level configured.
	Level() Level

	// Stats reports the pools backing this compressor.
	Stats() []pool.Stats

	// Close disposes pooled codec state. The compressor must not be used
	// afterwards.
	Close() error
}

// Config represents compressor configuration.
type Config struct {
	Algorithm Algorithm `yaml:"algorithm" json:"algorithm"`
	Level     Level     `yaml:"level" json:"level"`
	// PoolSize bounds each internal codec pool.
	PoolSize int `yaml:"pool_size" json:"pool_size"`
	// MaxDecompressedSize rejects in-memory decompression beyond this many
	// bytes. Zero means no limit.
	MaxDecompressedSize int64 `yaml:"max_decompressed_size" json:"max_decompressed_size"`
}

// DefaultConfig returns default compression configuration optimized for
// balance between speed and compression ratio.
func DefaultConfig() *Config {
	return &Config{
		Algorithm:           Snappy,
		Level:               Default,
		PoolSize:            pool.DefaultCapacity,
		MaxDecompressedSize: 256 << 20,
	}
}

// NewCompressor creates a new compressor based on the provided configuration.
// If config is nil, default configuration is used.
func NewCompressor(config *Config) (Compressor, error) {
	if config == nil {
		config = DefaultConfig()
	}

	base := baseCompressor{
		algorithm: config.Algorithm,
		level:     config.Level,
		limit:     config.MaxDecompressedSize,
	}
	opts := []pool.Option{pool.WithCapacity(config.PoolSize)}
	named := func(kind string) []pool.Option {
		return append(opts[:len(opts):len(opts)], pool.WithName(fmt.Sprintf("%s-%s", config.Algorithm, kind)))
	}

	switch config.Algorithm {
	case None:
		return &noneCompressor{baseCompressor: base}, nil
	case Gzip:
		return newGzipCompressor(base, named), nil
	case Snappy:
		return &snappyCompressor{baseCompressor: base}, nil
	case LZ4:
		return newLZ4Compressor(base, named), nil
	case Zstd:
		return newZstdCompressor(base, named), nil
	case S2:
		return &s2Compressor{baseCompressor: base}, nil
	case Deflate:
		return newDeflateCompressor(base, named), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported compression algorithm: %s", config.Algorithm)
	}
}

// ParseAlgorithm validates a configuration string.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms {
		if string(a) == s {
			return a, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeValidation, "unsupported compression algorithm: %s", s)
}

// ParseLevel accepts the names produced by Level.String. An empty string
// selects Default.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return Default, nil
	}
	for _, l := range []Level{Fastest, Default, Better, Best} {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeValidation, "unsupported compression level: %s", s)
}
