package registry

import (
	"bytes"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/recycler/pkg/collections"
	"github.com/ajitpratap0/recycler/pkg/compression"
	"github.com/ajitpratap0/recycler/pkg/config"
	"github.com/ajitpratap0/recycler/pkg/pool"
	stringpool "github.com/ajitpratap0/recycler/pkg/strings"
)

// Built-in kind names.
const (
	KindBytesBuffer   = "bytes_buffer"
	KindStringBuilder = "string_builder"
	KindTextBuilder   = "text_builder"
	KindByteSlice     = "byte_slice"
	KindStringSlice   = "string_slice"
	KindMap           = "map"
	KindSet           = "set"
	KindList          = "list"
	KindDict          = "dict"
	KindChan          = "chan"
	KindZstdEncoder   = "zstd_encoder"
	KindZstdDecoder   = "zstd_decoder"
	KindGzipWriter    = "gzip_writer"
	KindDeflateWriter = "deflate_writer"
	KindLZ4Writer     = "lz4_writer"
)

func registerBuiltins(r *Registry) {
	must(Register(r, KindBytesBuffer, "bytes.Buffer, reset on return",
		func(_ *config.PoolConfig, opts []pool.Option) (pool.Handle[*bytes.Buffer], error) {
			return pool.NewBuilderProvider[bytes.Buffer](opts...).NewPool(), nil
		}))
	must(Register(r, KindStringBuilder, "strings.Builder, reset on return",
		func(_ *config.PoolConfig, opts []pool.Option) (pool.Handle[*strings.Builder], error) {
			return pool.NewBuilderProvider[strings.Builder](opts...).NewPool(), nil
		}))
	must(Register(r, KindTextBuilder, "zero-copy text builder, reset on return",
		func(_ *config.PoolConfig, opts []pool.Option) (pool.Handle[*stringpool.Builder], error) {
			return pool.NewBuilderProvider[stringpool.Builder](opts...).NewPool(), nil
		}))

	must(Register(r, KindByteSlice, "byte slices (options: cap, max_cap), zeroed and truncated on return",
		func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[*[]byte], error) {
			policy := pool.SlicePolicy[byte]{Cap: cfg.Int("cap", 1024), MaxCap: cfg.Int("max_cap", 0)}
			return pool.NewCustomProvider[*[]byte](policy, opts...).NewPool(), nil
		}))
	must(Register(r, KindStringSlice, "string slices (options: cap, max_cap), zeroed and truncated on return",
		func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[*[]string], error) {
			policy := pool.SlicePolicy[string]{Cap: cfg.Int("cap", 64), MaxCap: cfg.Int("max_cap", 0)}
			return pool.NewCustomProvider[*[]string](policy, opts...).NewPool(), nil
		}))
	must(Register(r, KindMap, "map[string]any (options: size), cleared on return",
		func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[map[string]any], error) {
			policy := pool.MapPolicy[string, any]{Size: cfg.Int("size", 16)}
			return pool.NewCustomProvider[map[string]any](policy, opts...).NewPool(), nil
		}))
	must(Register(r, KindChan, "buffered chan []byte (options: size), drained on return",
		func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[chan []byte], error) {
			policy := pool.ChanPolicy[[]byte]{Size: cfg.Int("size", 16)}
			return pool.NewCustomProvider[chan []byte](policy, opts...).NewPool(), nil
		}))

	must(Register(r, KindSet, "collections.Set[string], empty on rent",
		func(_ *config.PoolConfig, opts []pool.Option) (pool.Handle[*collections.Set[string]], error) {
			return pool.NewCollectionProvider[collections.Set[string]](opts...).NewPool(), nil
		}))
	must(Register(r, KindList, "collections.List[any], empty on rent",
		func(_ *config.PoolConfig, opts []pool.Option) (pool.Handle[*collections.List[any]], error) {
			return pool.NewCollectionProvider[collections.List[any]](opts...).NewPool(), nil
		}))
	must(Register(r, KindDict, "collections.Dict[string, any], empty on rent",
		func(_ *config.PoolConfig, opts []pool.Option) (pool.Handle[*collections.Dict[string, any]], error) {
			return pool.NewCollectionProvider[collections.Dict[string, any]](opts...).NewPool(), nil
		}))

	must(Register(r, KindZstdEncoder, "zstd encoders (options: level)",
		func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[*zstd.Encoder], error) {
			level, err := compression.ParseLevel(cfg.String("level", ""))
			if err != nil {
				return nil, err
			}
			return pool.NewCustomProvider[*zstd.Encoder](compression.ZstdEncoderPolicy{Level: level}, opts...).NewPool(), nil
		}))
	must(Register(r, KindZstdDecoder, "zstd decoders (options: max_memory)",
		func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[*zstd.Decoder], error) {
			policy := compression.ZstdDecoderPolicy{MaxMemory: uint64(cfg.Int("max_memory", 256<<20))}
			return pool.NewCustomProvider[*zstd.Decoder](policy, opts...).NewPool(), nil
		}))
	must(Register(r, KindGzipWriter, "gzip writers (options: level)",
		func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[*gzip.Writer], error) {
			level, err := compression.ParseLevel(cfg.String("level", ""))
			if err != nil {
				return nil, err
			}
			return pool.NewCustomProvider[*gzip.Writer](compression.GzipWriterPolicy{Level: level}, opts...).NewPool(), nil
		}))
	must(Register(r, KindDeflateWriter, "raw deflate writers (options: level)",
		func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[*flate.Writer], error) {
			level, err := compression.ParseLevel(cfg.String("level", ""))
			if err != nil {
				return nil, err
			}
			return pool.NewCustomProvider[*flate.Writer](compression.FlateWriterPolicy{Level: level}, opts...).NewPool(), nil
		}))
	must(Register(r, KindLZ4Writer, "lz4 frame writers (options: level)",
		func(cfg *config.PoolConfig, opts []pool.Option) (pool.Handle[*lz4.Writer], error) {
			level, err := compression.ParseLevel(cfg.String("level", ""))
			if err != nil {
				return nil, err
			}
			return pool.NewCustomProvider[*lz4.Writer](compression.LZ4WriterPolicy{Level: level}, opts...).NewPool(), nil
		}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
