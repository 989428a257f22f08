package compression

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ajitpratap0/recycler/pkg/errors"
)

func sampleData() []byte {
	return bytes.Repeat([]byte(`{"pool":"buffers","rented":42,"returned":41} `), 200)
}

func TestRoundTripAllAlgorithms(t *testing.T) {
	original := sampleData()

	for _, algo := range Algorithms {
		for _, level := range []Level{Fastest, Default, Better, Best} {
			t.Run(fmt.Sprintf("%s/%s", algo, level), func(t *testing.T) {
				compressor, err := NewCompressor(&Config{Algorithm: algo, Level: level, PoolSize: 4})
				if err != nil {
					t.Fatalf("Failed to create compressor: %v", err)
				}
				defer compressor.Close()

				compressed, err := compressor.Compress(original)
				if err != nil {
					t.Fatalf("Failed to compress: %v", err)
				}
				if algo != None && len(compressed) >= len(original) {
					t.Errorf("expected %s to shrink repetitive data, got %d >= %d", algo, len(compressed), len(original))
				}

				decompressed, err := compressor.Decompress(compressed)
				if err != nil {
					t.Fatalf("Failed to decompress: %v", err)
				}
				if !bytes.Equal(original, decompressed) {
					t.Errorf("Decompressed data doesn't match original")
				}

				var compressedBuf bytes.Buffer
				if err := compressor.CompressStream(&compressedBuf, bytes.NewReader(original)); err != nil {
					t.Fatalf("Failed to compress stream: %v", err)
				}

				var decompressedBuf bytes.Buffer
				if err := compressor.DecompressStream(&decompressedBuf, &compressedBuf); err != nil {
					t.Fatalf("Failed to decompress stream: %v", err)
				}
				if !bytes.Equal(original, decompressedBuf.Bytes()) {
					t.Errorf("Stream decompressed data doesn't match original")
				}
			})
		}
	}
}

func TestCodecStateIsRecycled(t *testing.T) {
	for _, algo := range []Algorithm{Gzip, LZ4, Zstd, Deflate} {
		t.Run(string(algo), func(t *testing.T) {
			compressor, err := NewCompressor(&Config{Algorithm: algo, Level: Default, PoolSize: 2})
			if err != nil {
				t.Fatalf("Failed to create compressor: %v", err)
			}

			for i := 0; i < 10; i++ {
				payload := []byte(fmt.Sprintf("payload %d %s", i, bytes.Repeat([]byte("x"), i*10)))
				compressed, err := compressor.Compress(payload)
				if err != nil {
					t.Fatalf("compress %d: %v", i, err)
				}
				out, err := compressor.Decompress(compressed)
				if err != nil {
					t.Fatalf("decompress %d: %v", i, err)
				}
				if !bytes.Equal(payload, out) {
					t.Fatalf("round %d mismatch", i)
				}
			}

			stats := compressor.Stats()
			if len(stats) != 2 {
				t.Fatalf("expected 2 pools, got %d", len(stats))
			}
			for _, s := range stats {
				if s.Created != 1 {
					t.Errorf("%s: expected one codec built and reused, got %d", s.Name, s.Created)
				}
				if s.Hits != 9 {
					t.Errorf("%s: expected 9 hits, got %d", s.Name, s.Hits)
				}
			}

			if err := compressor.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
			for _, s := range compressor.Stats() {
				if s.Free != 0 || s.Disposed != 1 {
					t.Errorf("%s: expected pool drained on close, free=%d disposed=%d", s.Name, s.Free, s.Disposed)
				}
			}
		})
	}
}

func TestDecompressionLimit(t *testing.T) {
	original := bytes.Repeat([]byte("a"), 4096)

	for _, algo := range []Algorithm{Gzip, Snappy, LZ4, Zstd, S2, Deflate} {
		t.Run(string(algo), func(t *testing.T) {
			big, err := NewCompressor(&Config{Algorithm: algo, Level: Default})
			if err != nil {
				t.Fatal(err)
			}
			defer big.Close()

			compressed, err := big.Compress(original)
			if err != nil {
				t.Fatal(err)
			}

			small, err := NewCompressor(&Config{Algorithm: algo, Level: Default, MaxDecompressedSize: 1024})
			if err != nil {
				t.Fatal(err)
			}
			defer small.Close()

			if _, err := small.Decompress(compressed); err == nil {
				t.Errorf("expected %s decompression beyond the limit to fail", algo)
			}
		})
	}
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := NewCompressor(&Config{Algorithm: "brotli"})
	if !errors.IsType(err, errors.ErrorTypeConfig) {
		t.Errorf("expected config error, got %v", err)
	}

	if _, err := ParseAlgorithm("brotli"); err == nil {
		t.Error("expected ParseAlgorithm to reject brotli")
	}
	if a, err := ParseAlgorithm("zstd"); err != nil || a != Zstd {
		t.Errorf("ParseAlgorithm(zstd) = %v, %v", a, err)
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{Fastest, Default, Better, Best} {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLevel(%s) = %v, %v", l, got, err)
		}
	}
	if got, _ := ParseLevel(""); got != Default {
		t.Errorf("empty level should select default, got %s", got)
	}
	if _, err := ParseLevel("ultra"); !errors.IsType(err, errors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	compressor, err := NewCompressor(nil)
	if err != nil {
		t.Fatal(err)
	}
	if compressor.Algorithm() != Snappy || compressor.Level() != Default {
		t.Errorf("unexpected defaults %s/%s", compressor.Algorithm(), compressor.Level())
	}
}

func BenchmarkCompress(b *testing.B) {
	data := sampleData()
	for _, algo := range []Algorithm{Gzip, Snappy, LZ4, Zstd, S2, Deflate} {
		b.Run(string(algo), func(b *testing.B) {
			compressor, err := NewCompressor(&Config{Algorithm: algo, Level: Default})
			if err != nil {
				b.Fatal(err)
			}
			defer compressor.Close()

			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := compressor.Compress(data); err != nil {
						b.Error(err)
						return
					}
				}
			})
		})
	}
}
