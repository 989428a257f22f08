package json

import (
	"bytes"
	stdjson "encoding/json"
	"strings"
	"testing"

	"github.com/ajitpratap0/recycler/pkg/pool"
)

type sample struct {
	ID    int               `json:"id"`
	Name  string            `json:"name"`
	Tags  []string          `json:"tags"`
	Attrs map[string]string `json:"attrs"`
}

func TestMarshalCorrectness(t *testing.T) {
	v := sample{ID: 7, Name: "<pool>", Tags: []string{"a", "b"}, Attrs: map[string]string{"k": "v"}}

	got, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := stdjson.Marshal(v)
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal = %s, want %s", got, want)
	}

	var back sample
	if err := Unmarshal(got, &back); err != nil {
		t.Fatal(err)
	}
	if back.Name != v.Name || len(back.Tags) != 2 {
		t.Errorf("Unmarshal mismatch: %+v", back)
	}
}

func TestMarshalToWriter(t *testing.T) {
	var out bytes.Buffer
	if err := MarshalToWriter(&out, sample{ID: 1, Name: "<b>"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"<b>"`) {
		t.Errorf("expected unescaped HTML, got %s", out.String())
	}
	if BufferStats().InUse != 0 {
		t.Error("buffer not returned")
	}
}

func TestMarshalArray(t *testing.T) {
	empty, err := MarshalArray([]int{})
	if err != nil || string(empty) != "[]" {
		t.Errorf("empty array = %s, %v", empty, err)
	}

	got, err := MarshalArray([]int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "[1,2,3]" {
		t.Errorf("MarshalArray = %s", got)
	}
}

func TestStreamingEncoder(t *testing.T) {
	var out bytes.Buffer
	se, err := NewStreamingEncoder(&out, true)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := se.Encode(map[string]int{"i": i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := se.Close(); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]int
	if err := stdjson.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid array %q: %v", out.String(), err)
	}
	if len(decoded) != 3 || decoded[2]["i"] != 2 {
		t.Errorf("unexpected decode %v", decoded)
	}
}

func TestMarshalStats(t *testing.T) {
	stats := []pool.Stats{{Name: "a", Capacity: 1}, {Name: "b", Capacity: 2}}

	arr, err := MarshalStats(stats, "array")
	if err != nil {
		t.Fatal(err)
	}
	var decoded []pool.Stats
	if err := Unmarshal(arr, &decoded); err != nil || len(decoded) != 2 || decoded[1].Name != "b" {
		t.Errorf("array form = %s, %v", arr, err)
	}

	lines, err := MarshalStats(stats, "lines")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(lines), "\n"); n != 2 {
		t.Errorf("expected 2 lines, got %d in %q", n, lines)
	}
}

func TestOversizedBufferIsReplaced(t *testing.T) {
	buf := GetBuffer()
	buf.Grow(2 * maxPooledBuffer)
	if err := PutBuffer(buf); err != nil {
		t.Fatal(err)
	}
	if buf.Cap() > maxPooledBuffer {
		t.Errorf("oversized buffer retained with cap %d", buf.Cap())
	}
	if err := PutBuffer(buf); err == nil {
		t.Error("expected double return to be rejected")
	}
}

func BenchmarkMarshalToWriter(b *testing.B) {
	v := sample{ID: 1, Name: "bench", Tags: []string{"x", "y"}, Attrs: map[string]string{"a": "b"}}
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		var out bytes.Buffer
		for pb.Next() {
			out.Reset()
			_ = MarshalToWriter(&out, v)
		}
	})
}
