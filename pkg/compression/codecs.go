package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/pool"
	stringpool "github.com/ajitpratap0/recycler/pkg/strings"
)

// Base compressor implementation
type baseCompressor struct {
	algorithm Algorithm
	level     Level
	limit     int64
}

// Algorithm returns the compression algorithm
func (bc *baseCompressor) Algorithm() Algorithm {
	return bc.algorithm
}

// Level returns the compression level
func (bc *baseCompressor) Level() Level {
	return bc.level
}

// readAll drains r into an owned slice through a pooled builder, enforcing
// the decompressed size limit.
func (bc *baseCompressor) readAll(r io.Reader) ([]byte, error) {
	builder := stringpool.GetBuilder(stringpool.Medium)
	defer stringpool.PutBuilder(builder, stringpool.Medium)

	if bc.limit > 0 {
		r = io.LimitReader(r, bc.limit+1)
	}
	if _, err := io.Copy(builder, r); err != nil {
		return nil, err
	}
	if bc.limit > 0 && int64(builder.Len()) > bc.limit {
		return nil, errors.Newf(errors.ErrorTypeData, "decompressed size exceeds %d bytes", bc.limit)
	}
	return bytes.Clone(builder.Bytes()), nil
}

// None compressor (no compression)
type noneCompressor struct {
	baseCompressor
}

func (nc *noneCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (nc *noneCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func (nc *noneCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, src)
	return err
}

func (nc *noneCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, src)
	return err
}

func (nc *noneCompressor) Stats() []pool.Stats { return nil }

func (nc *noneCompressor) Close() error { return nil }

// Gzip compressor
type gzipCompressor struct {
	baseCompressor
	writers pool.Handle[*gzip.Writer]
	readers pool.Handle[*gzip.Reader]
}

func newGzipCompressor(base baseCompressor, named func(string) []pool.Option) *gzipCompressor {
	return &gzipCompressor{
		baseCompressor: base,
		writers:        pool.NewCustomProvider[*gzip.Writer](GzipWriterPolicy{Level: base.level}, named("writers")...).NewPool(),
		readers:        pool.NewObjectProvider[gzip.Reader](named("readers")...).NewPool(),
	}
}

func (gc *gzipCompressor) Compress(data []byte) ([]byte, error) {
	builder := stringpool.GetBuilder(stringpool.Medium)
	defer stringpool.PutBuilder(builder, stringpool.Medium)

	w := gc.writers.Rent()
	defer gc.writers.Return(w)

	w.Reset(builder)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return bytes.Clone(builder.Bytes()), nil
}

func (gc *gzipCompressor) Decompress(data []byte) ([]byte, error) {
	r := gc.readers.Rent()
	defer gc.readers.Return(r)

	if err := r.Reset(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return gc.readAll(r)
}

func (gc *gzipCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	w := gc.writers.Rent()
	defer gc.writers.Return(w)

	w.Reset(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (gc *gzipCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	r := gc.readers.Rent()
	defer gc.readers.Return(r)

	if err := r.Reset(src); err != nil {
		return err
	}
	_, err := io.Copy(dst, r)
	return err
}

func (gc *gzipCompressor) Stats() []pool.Stats {
	return []pool.Stats{gc.writers.Stats(), gc.readers.Stats()}
}

func (gc *gzipCompressor) Close() error {
	gc.writers.Dispose()
	gc.readers.Dispose()
	return nil
}

// Snappy compressor
type snappyCompressor struct {
	baseCompressor
}

func (sc *snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (sc *snappyCompressor) Decompress(data []byte) ([]byte, error) {
	if sc.limit > 0 {
		n, err := snappy.DecodedLen(data)
		if err != nil {
			return nil, err
		}
		if int64(n) > sc.limit {
			return nil, errors.Newf(errors.ErrorTypeData, "decompressed size exceeds %d bytes", sc.limit)
		}
	}
	return snappy.Decode(nil, data)
}

func (sc *snappyCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	w := snappy.NewBufferedWriter(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (sc *snappyCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, snappy.NewReader(src))
	return err
}

func (sc *snappyCompressor) Stats() []pool.Stats { return nil }

func (sc *snappyCompressor) Close() error { return nil }

// LZ4 compressor
type lz4Compressor struct {
	baseCompressor
	writers pool.Handle[*lz4.Writer]
	readers pool.Handle[*lz4.Reader]
}

func newLZ4Compressor(base baseCompressor, named func(string) []pool.Option) *lz4Compressor {
	return &lz4Compressor{
		baseCompressor: base,
		writers:        pool.NewCustomProvider[*lz4.Writer](LZ4WriterPolicy{Level: base.level}, named("writers")...).NewPool(),
		readers:        pool.NewCustomProvider[*lz4.Reader](lz4Readers{}, named("readers")...).NewPool(),
	}
}

func (lc *lz4Compressor) Compress(data []byte) ([]byte, error) {
	builder := stringpool.GetBuilder(stringpool.Medium)
	defer stringpool.PutBuilder(builder, stringpool.Medium)

	w := lc.writers.Rent()
	defer lc.writers.Return(w)

	w.Reset(builder)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return bytes.Clone(builder.Bytes()), nil
}

func (lc *lz4Compressor) Decompress(data []byte) ([]byte, error) {
	r := lc.readers.Rent()
	defer lc.readers.Return(r)

	r.Reset(bytes.NewReader(data))
	return lc.readAll(r)
}

func (lc *lz4Compressor) CompressStream(dst io.Writer, src io.Reader) error {
	w := lc.writers.Rent()
	defer lc.writers.Return(w)

	w.Reset(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (lc *lz4Compressor) DecompressStream(dst io.Writer, src io.Reader) error {
	r := lc.readers.Rent()
	defer lc.readers.Return(r)

	r.Reset(src)
	_, err := io.Copy(dst, r)
	return err
}

func (lc *lz4Compressor) Stats() []pool.Stats {
	return []pool.Stats{lc.writers.Stats(), lc.readers.Stats()}
}

func (lc *lz4Compressor) Close() error {
	lc.writers.Dispose()
	lc.readers.Dispose()
	return nil
}

// Zstd compressor
type zstdCompressor struct {
	baseCompressor
	encoders pool.Handle[*zstd.Encoder]
	decoders pool.Handle[*zstd.Decoder]
}

func newZstdCompressor(base baseCompressor, named func(string) []pool.Option) *zstdCompressor {
	var maxMemory uint64
	if base.limit > 0 {
		maxMemory = uint64(base.limit)
	}
	return &zstdCompressor{
		baseCompressor: base,
		encoders:       pool.NewCustomProvider[*zstd.Encoder](ZstdEncoderPolicy{Level: base.level}, named("encoders")...).NewPool(),
		decoders:       pool.NewCustomProvider[*zstd.Decoder](ZstdDecoderPolicy{MaxMemory: maxMemory}, named("decoders")...).NewPool(),
	}
}

func (zc *zstdCompressor) Compress(data []byte) ([]byte, error) {
	enc := zc.encoders.Rent()
	defer zc.encoders.Return(enc)

	return enc.EncodeAll(data, nil), nil
}

func (zc *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	dec := zc.decoders.Rent()
	defer zc.decoders.Return(dec)

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "zstd decode")
	}
	return out, nil
}

func (zc *zstdCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	enc := zc.encoders.Rent()
	defer zc.encoders.Return(enc)

	enc.Reset(dst)
	if _, err := io.Copy(enc, src); err != nil {
		return err
	}
	return enc.Close()
}

func (zc *zstdCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	dec := zc.decoders.Rent()
	defer zc.decoders.Return(dec)

	if err := dec.Reset(src); err != nil {
		return err
	}
	_, err := io.Copy(dst, dec)
	return err
}

func (zc *zstdCompressor) Stats() []pool.Stats {
	return []pool.Stats{zc.encoders.Stats(), zc.decoders.Stats()}
}

func (zc *zstdCompressor) Close() error {
	zc.encoders.Dispose()
	zc.decoders.Dispose()
	return nil
}

// S2 compressor (Snappy-compatible but better compression)
type s2Compressor struct {
	baseCompressor
}

func (sc *s2Compressor) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (sc *s2Compressor) Decompress(data []byte) ([]byte, error) {
	if sc.limit > 0 {
		n, err := s2.DecodedLen(data)
		if err != nil {
			return nil, err
		}
		if int64(n) > sc.limit {
			return nil, errors.Newf(errors.ErrorTypeData, "decompressed size exceeds %d bytes", sc.limit)
		}
	}
	return s2.Decode(nil, data)
}

func (sc *s2Compressor) CompressStream(dst io.Writer, src io.Reader) error {
	w := s2.NewWriter(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (sc *s2Compressor) DecompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, s2.NewReader(src))
	return err
}

func (sc *s2Compressor) Stats() []pool.Stats { return nil }

func (sc *s2Compressor) Close() error { return nil }

// Deflate compressor
type deflateCompressor struct {
	baseCompressor
	writers pool.Handle[*flate.Writer]
	readers pool.Handle[io.ReadCloser]
}

func newDeflateCompressor(base baseCompressor, named func(string) []pool.Option) *deflateCompressor {
	return &deflateCompressor{
		baseCompressor: base,
		writers:        pool.NewCustomProvider[*flate.Writer](FlateWriterPolicy{Level: base.level}, named("writers")...).NewPool(),
		readers:        pool.NewCustomProvider[io.ReadCloser](flateReaders{}, named("readers")...).NewPool(),
	}
}

func (dc *deflateCompressor) Compress(data []byte) ([]byte, error) {
	builder := stringpool.GetBuilder(stringpool.Medium)
	defer stringpool.PutBuilder(builder, stringpool.Medium)

	w := dc.writers.Rent()
	defer dc.writers.Return(w)

	w.Reset(builder)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return bytes.Clone(builder.Bytes()), nil
}

func (dc *deflateCompressor) Decompress(data []byte) ([]byte, error) {
	r := dc.readers.Rent()
	defer dc.readers.Return(r)

	if err := r.(flate.Resetter).Reset(bytes.NewReader(data), nil); err != nil {
		return nil, err
	}
	return dc.readAll(r)
}

func (dc *deflateCompressor) CompressStream(dst io.Writer, src io.Reader) error {
	w := dc.writers.Rent()
	defer dc.writers.Return(w)

	w.Reset(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (dc *deflateCompressor) DecompressStream(dst io.Writer, src io.Reader) error {
	r := dc.readers.Rent()
	defer dc.readers.Return(r)

	if err := r.(flate.Resetter).Reset(src, nil); err != nil {
		return err
	}
	_, err := io.Copy(dst, r)
	return err
}

func (dc *deflateCompressor) Stats() []pool.Stats {
	return []pool.Stats{dc.writers.Stats(), dc.readers.Stats()}
}

func (dc *deflateCompressor) Close() error {
	dc.writers.Dispose()
	dc.readers.Dispose()
	return nil
}
