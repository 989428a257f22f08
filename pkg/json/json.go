// Package json provides goccy/go-json serialization backed by pooled buffers.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/recycler/pkg/pool"
)

// maxPooledBuffer bounds the buffers kept for reuse.
const maxPooledBuffer = 1 << 20

// jsonBuffers hands out 4KB buffers and replaces any that grew past
// maxPooledBuffer instead of retaining them.
type jsonBuffers struct {
	pool.NoHooks[*bytes.Buffer]
}

func (jsonBuffers) Create() *bytes.Buffer {
	return bytes.NewBuffer(make([]byte, 0, 4096))
}

func (jsonBuffers) OnRecycle(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		*buf = *bytes.NewBuffer(make([]byte, 0, 4096))
		return
	}
	buf.Reset()
}

var buffers = pool.New[*bytes.Buffer](jsonBuffers{}, pool.WithName("json-buffers"), pool.WithCapacity(128))

// GetBuffer rents an empty buffer.
func GetBuffer() *bytes.Buffer {
	return buffers.Rent()
}

// PutBuffer returns a buffer rented with GetBuffer.
func PutBuffer(buf *bytes.Buffer) error {
	return buffers.Return(buf)
}

// BufferStats reports the shared buffer pool.
func BufferStats() pool.Stats {
	return buffers.Stats()
}

// Marshal is a high-performance drop-in replacement for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a high-performance drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is a high-performance replacement for json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// MarshalToWriter encodes v into a pooled buffer and writes it to w in one
// call.
func MarshalToWriter(w io.Writer, v interface{}) error {
	return pool.Use[*bytes.Buffer](buffers, func(buf *bytes.Buffer) error {
		enc := gojson.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return err
		}
		_, err := buf.WriteTo(w)
		return err
	})
}

// MarshalArray marshals values as a JSON array.
func MarshalArray[T any](values []T) ([]byte, error) {
	if len(values) == 0 {
		return []byte("[]"), nil
	}

	var result []byte
	err := pool.Use[*bytes.Buffer](buffers, func(buf *bytes.Buffer) error {
		buf.WriteByte('[')
		for i, v := range values {
			if i > 0 {
				buf.WriteByte(',')
			}
			data, err := gojson.Marshal(v)
			if err != nil {
				return err
			}
			buf.Write(data)
		}
		buf.WriteByte(']')

		// Copy out, the buffer goes back to the pool
		result = append([]byte(nil), buf.Bytes()...)
		return nil
	})
	return result, err
}

// StreamingEncoder writes values as a JSON array or as JSON lines.
type StreamingEncoder struct {
	writer  io.Writer
	encoder *gojson.Encoder
	first   bool
	isArray bool
	pretty  bool
}

// NewStreamingEncoder creates a new streaming encoder. For arrays the
// opening bracket is written immediately.
func NewStreamingEncoder(w io.Writer, isArray bool) (*StreamingEncoder, error) {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)

	se := &StreamingEncoder{
		writer:  w,
		encoder: enc,
		first:   true,
		isArray: isArray,
	}

	if isArray {
		if _, err := w.Write([]byte{'['}); err != nil {
			return nil, err
		}
	}
	return se, nil
}

// SetPretty enables pretty printing
func (se *StreamingEncoder) SetPretty(indent string) {
	se.pretty = true
	se.encoder.SetIndent("", indent)
}

// Encode encodes a single value
func (se *StreamingEncoder) Encode(v interface{}) error {
	if se.isArray && !se.first {
		if _, err := se.writer.Write([]byte{','}); err != nil {
			return err
		}
	}
	se.first = false
	return se.encoder.Encode(v)
}

// Close writes the closing bracket for arrays.
func (se *StreamingEncoder) Close() error {
	if !se.isArray {
		return nil
	}
	_, err := se.writer.Write([]byte{']'})
	return err
}

// MarshalStats renders pool snapshots as "array" (default) or "lines".
func MarshalStats(stats []pool.Stats, format string) ([]byte, error) {
	if format != "lines" {
		return MarshalArray(stats)
	}

	var result []byte
	err := pool.Use[*bytes.Buffer](buffers, func(buf *bytes.Buffer) error {
		se, err := NewStreamingEncoder(buf, false)
		if err != nil {
			return err
		}
		for _, s := range stats {
			if err := se.Encode(s); err != nil {
				return err
			}
		}
		result = append([]byte(nil), buf.Bytes()...)
		return se.Close()
	})
	return result, err
}
