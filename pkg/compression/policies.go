package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/pool"
)

// ZstdEncoderPolicy builds single-goroutine zstd encoders. Recycled encoders
// are detached from their last writer; disposed encoders are closed.
type ZstdEncoderPolicy struct {
	Level Level
}

func (p ZstdEncoderPolicy) Create() *zstd.Encoder {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(mapZstdLevel(p.Level)),
		zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(errors.Wrap(err, errors.ErrorTypeConstruction, "zstd encoder"))
	}
	return enc
}

func (ZstdEncoderPolicy) OnRent(*zstd.Encoder) {}

func (ZstdEncoderPolicy) OnRecycle(enc *zstd.Encoder) { enc.Reset(io.Discard) }

func (ZstdEncoderPolicy) OnDispose(enc *zstd.Encoder) { _ = enc.Close() }

// ZstdDecoderPolicy builds single-goroutine zstd decoders. MaxMemory caps
// the decoded size when positive.
type ZstdDecoderPolicy struct {
	MaxMemory uint64
}

func (p ZstdDecoderPolicy) Create() *zstd.Decoder {
	opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
	if p.MaxMemory > 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(p.MaxMemory))
	}
	dec, err := zstd.NewReader(nil, opts...)
	if err != nil {
		panic(errors.Wrap(err, errors.ErrorTypeConstruction, "zstd decoder"))
	}
	return dec
}

func (ZstdDecoderPolicy) OnRent(*zstd.Decoder) {}

func (ZstdDecoderPolicy) OnRecycle(dec *zstd.Decoder) { _ = dec.Reset(nil) }

func (ZstdDecoderPolicy) OnDispose(dec *zstd.Decoder) { dec.Close() }

// GzipWriterPolicy builds gzip writers at Level, detached on recycle.
type GzipWriterPolicy struct {
	pool.NoHooks[*gzip.Writer]
	Level Level
}

func (p GzipWriterPolicy) Create() *gzip.Writer {
	w, err := gzip.NewWriterLevel(io.Discard, mapGzipLevel(p.Level))
	if err != nil {
		panic(errors.Wrap(err, errors.ErrorTypeConstruction, "gzip writer"))
	}
	return w
}

func (GzipWriterPolicy) OnRecycle(w *gzip.Writer) { w.Reset(io.Discard) }

// FlateWriterPolicy builds raw deflate writers at Level.
type FlateWriterPolicy struct {
	pool.NoHooks[*flate.Writer]
	Level Level
}

func (p FlateWriterPolicy) Create() *flate.Writer {
	w, err := flate.NewWriter(io.Discard, mapDeflateLevel(p.Level))
	if err != nil {
		panic(errors.Wrap(err, errors.ErrorTypeConstruction, "flate writer"))
	}
	return w
}

func (FlateWriterPolicy) OnRecycle(w *flate.Writer) { w.Reset(io.Discard) }

// LZ4WriterPolicy builds lz4 frame writers at Level.
type LZ4WriterPolicy struct {
	pool.NoHooks[*lz4.Writer]
	Level Level
}

func (p LZ4WriterPolicy) Create() *lz4.Writer {
	w := lz4.NewWriter(io.Discard)
	if err := w.Apply(lz4.CompressionLevelOption(mapLZ4Level(p.Level))); err != nil {
		panic(errors.Wrap(err, errors.ErrorTypeConstruction, "lz4 writer"))
	}
	return w
}

func (LZ4WriterPolicy) OnRecycle(w *lz4.Writer) { w.Reset(io.Discard) }

type lz4Readers struct {
	pool.NoHooks[*lz4.Reader]
}

func (lz4Readers) Create() *lz4.Reader { return lz4.NewReader(nil) }

func (lz4Readers) OnRecycle(r *lz4.Reader) { r.Reset(nil) }

// flateReaders pools the io.ReadCloser returned by flate.NewReader, which
// also implements flate.Resetter.
type flateReaders struct {
	pool.NoHooks[io.ReadCloser]
}

func (flateReaders) Create() io.ReadCloser { return flate.NewReader(bytes.NewReader(nil)) }

func (flateReaders) OnRecycle(r io.ReadCloser) {
	_ = r.(flate.Resetter).Reset(bytes.NewReader(nil), nil)
}

func (flateReaders) OnDispose(r io.ReadCloser) { _ = r.Close() }

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func mapDeflateLevel(level Level) int {
	switch level {
	case Fastest:
		return flate.BestSpeed
	case Best:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}
