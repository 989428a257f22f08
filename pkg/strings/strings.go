// Package strings provides zero-copy string utilities with pooled builders
package strings

import (
	"fmt"
	"strconv"
	"unsafe"

	"github.com/ajitpratap0/recycler/pkg/pool"
)

// BytesToString converts byte slice to string without allocation
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBytes converts string to byte slice without allocation
// WARNING: The returned byte slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Builder provides efficient string building with zero-copy operations.
// Reset keeps the backing array, which is what makes pooling it worthwhile.
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder
func (b *Builder) WriteString(s string) (int, error) {
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteByte appends a single byte
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Write implements io.Writer interface
func (b *Builder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion. The result is
// only valid until the builder is written to, reset or returned to a pool.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Bytes returns the underlying byte slice
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the length of the built string
func (b *Builder) Len() int {
	return len(b.buf)
}

// Cap returns the capacity of the underlying buffer
func (b *Builder) Cap() int {
	return cap(b.buf)
}

// Reset resets the builder for reuse
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Grow grows the buffer capacity
func (b *Builder) Grow(n int) {
	if cap(b.buf)-len(b.buf) < n {
		newBuf := make([]byte, len(b.buf), len(b.buf)+2*cap(b.buf)+n)
		copy(newBuf, b.buf)
		b.buf = newBuf
	}
}

// Clone creates a copy of a string (useful when you need to own the memory)
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}

// BuilderSize represents different builder sizes
type BuilderSize int

const (
	Small  BuilderSize = iota // < 1KB
	Medium                    // 1KB - 16KB
	Large                     // 16KB+
)

func (s BuilderSize) String() string {
	switch s {
	case Medium:
		return "medium"
	case Large:
		return "large"
	}
	return "small"
}

// sizedBuilders resets builders on recycle and drops any that grew past
// four times their class so one huge string does not pin memory.
type sizedBuilders struct {
	capacity int
}

func (p sizedBuilders) Create() *Builder { return NewBuilder(p.capacity) }

func (sizedBuilders) OnRent(*Builder) {}

func (p sizedBuilders) OnRecycle(b *Builder) {
	if b.Cap() > 4*p.capacity {
		b.buf = make([]byte, 0, p.capacity)
		return
	}
	b.Reset()
}

func (sizedBuilders) OnDispose(b *Builder) { b.buf = nil }

var builderPools = [...]*pool.Pool[*Builder, sizedBuilders]{
	Small:  pool.New[*Builder](sizedBuilders{capacity: 1024}, pool.WithName("builders-small"), pool.WithCapacity(256)),
	Medium: pool.New[*Builder](sizedBuilders{capacity: 16 * 1024}, pool.WithName("builders-medium"), pool.WithCapacity(64)),
	Large:  pool.New[*Builder](sizedBuilders{capacity: 64 * 1024}, pool.WithName("builders-large"), pool.WithCapacity(16)),
}

func builderPool(size BuilderSize) *pool.Pool[*Builder, sizedBuilders] {
	if size < Small || size > Large {
		size = Small
	}
	return builderPools[size]
}

// sizeFor picks the class for an expected output length.
func sizeFor(n int) BuilderSize {
	switch {
	case n > 16*1024:
		return Large
	case n > 1024:
		return Medium
	}
	return Small
}

// GetBuilder retrieves a pooled, empty builder of the specified size
func GetBuilder(size BuilderSize) *Builder {
	return builderPool(size).Rent()
}

// PutBuilder returns a builder to the pool it came from. Returning a builder
// twice is reported as an error and otherwise ignored.
func PutBuilder(builder *Builder, size BuilderSize) error {
	if builder == nil {
		return nil
	}
	return builderPool(size).Return(builder)
}

// PoolStats returns the builder pool statistics, small first.
func PoolStats() []pool.Stats {
	stats := make([]pool.Stats, len(builderPools))
	for i, p := range builderPools {
		stats[i] = p.Stats()
	}
	return stats
}

// BuildWith runs fn on a pooled builder and returns an owned copy of the result
func BuildWith(size BuilderSize, fn func(*Builder)) string {
	var out string
	_ = pool.Use[*Builder](builderPool(size), func(b *Builder) error {
		fn(b)
		out = Clone(b.String())
		return nil
	})
	return out
}

// BuildString provides a simple way to build strings with a function
func BuildString(fn func(*Builder)) string {
	return BuildWith(Small, fn)
}

// Concat efficiently concatenates strings using pooled builder
func Concat(parts ...string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}

	totalLen := 0
	for _, s := range parts {
		totalLen += len(s)
	}

	return BuildWith(sizeFor(totalLen), func(b *Builder) {
		b.Grow(totalLen)
		for _, s := range parts {
			b.WriteString(s)
		}
	})
}

// Join joins parts with delimiter using a pooled builder
func Join(parts []string, delimiter string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}

	totalLen := (len(parts) - 1) * len(delimiter)
	for _, s := range parts {
		totalLen += len(s)
	}

	return BuildWith(sizeFor(totalLen), func(b *Builder) {
		b.WriteString(parts[0])
		for _, s := range parts[1:] {
			b.WriteString(delimiter)
			b.WriteString(s)
		}
	})
}

// Sprintf provides a pooled alternative to fmt.Sprintf
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	// rough estimate, 16 bytes per argument
	return BuildWith(sizeFor(len(format)+len(args)*16), func(b *Builder) {
		fmt.Fprintf(b, format, args...)
	})
}

// ValueToString converts common scalar values without going through fmt
func ValueToString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return string(v)
	default:
		return Sprintf("%v", value)
	}
}
