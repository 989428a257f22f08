package strings

import (
	"strings"
	"testing"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}

	// Test empty slice
	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestStringToBytes(t *testing.T) {
	b := StringToBytes("hello world")
	if string(b) != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", string(b))
	}

	if empty := StringToBytes(""); empty != nil {
		t.Errorf("expected nil slice, got %v", empty)
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	builder.WriteByte(' ')
	builder.WriteString("world")

	if result := builder.String(); result != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", result)
	}
	if builder.Len() != 11 {
		t.Errorf("expected length 11, got %d", builder.Len())
	}

	builder.Reset()
	if builder.Len() != 0 || builder.Cap() != 32 {
		t.Errorf("expected empty builder keeping capacity 32, got len %d cap %d", builder.Len(), builder.Cap())
	}
}

func TestBuilderGrow(t *testing.T) {
	builder := NewBuilder(2)
	initialCap := builder.Cap()

	builder.Grow(10)
	if builder.Cap() <= initialCap {
		t.Errorf("expected capacity to grow, initial: %d, after: %d", initialCap, builder.Cap())
	}
}

func TestPooledBuilderComesBackEmpty(t *testing.T) {
	b := GetBuilder(Medium)
	b.WriteString("left over")
	if err := PutBuilder(b, Medium); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again := GetBuilder(Medium)
	defer PutBuilder(again, Medium)
	if again.Len() != 0 {
		t.Errorf("expected empty builder, got %q", again.String())
	}
	if again.Cap() < 16*1024 {
		t.Errorf("expected medium capacity, got %d", again.Cap())
	}
}

func TestPutBuilderTwice(t *testing.T) {
	b := GetBuilder(Small)
	if err := PutBuilder(b, Small); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := PutBuilder(b, Small); err == nil {
		t.Error("expected an error on double put")
	}
}

func TestOversizedBuilderIsReplaced(t *testing.T) {
	p := sizedBuilders{capacity: 8}
	b := p.Create()
	b.Grow(100)
	p.OnRecycle(b)
	if b.Cap() != 8 {
		t.Errorf("expected capacity 8 after recycle, got %d", b.Cap())
	}
}

func TestConcat(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b", "c"}, "abc"},
		{[]string{strings.Repeat("x", 2000), "y"}, strings.Repeat("x", 2000) + "y"},
	}

	for _, tt := range tests {
		if got := Concat(tt.parts...); got != tt.want {
			t.Errorf("Concat(%d parts) = %d bytes, want %d", len(tt.parts), len(got), len(tt.want))
		}
	}
}

func TestJoin(t *testing.T) {
	if got := Join([]string{"a", "b", "c"}, ", "); got != "a, b, c" {
		t.Errorf("expected 'a, b, c', got '%s'", got)
	}
	if got := Join(nil, ","); got != "" {
		t.Errorf("expected empty string, got '%s'", got)
	}
}

func TestSprintfOwnsResult(t *testing.T) {
	first := Sprintf("pool=%s size=%d", "buffers", 64)
	second := Sprintf("pool=%s size=%d", "maps", 8)

	if first != "pool=buffers size=64" {
		t.Errorf("unexpected first result %q", first)
	}
	if second != "pool=maps size=8" {
		t.Errorf("unexpected second result %q", second)
	}
}

func TestValueToString(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint64(7), "7"},
		{1.5, "1.5"},
		{true, "true"},
		{[]byte("b"), "b"},
		{[]int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		if got := ValueToString(tt.in); got != tt.want {
			t.Errorf("ValueToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPoolStats(t *testing.T) {
	stats := PoolStats()
	if len(stats) != 3 {
		t.Fatalf("expected 3 pools, got %d", len(stats))
	}
	if stats[Large].Name != "builders-large" {
		t.Errorf("unexpected name %q", stats[Large].Name)
	}
}

func BenchmarkConcat(b *testing.B) {
	parts := []string{"rent", "-", "recycle", "-", "dispose"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Concat(parts...)
	}
}

func BenchmarkStdlibBuilder(b *testing.B) {
	parts := []string{"rent", "-", "recycle", "-", "dispose"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var sb strings.Builder
		for _, p := range parts {
			sb.WriteString(p)
		}
		_ = sb.String()
	}
}
