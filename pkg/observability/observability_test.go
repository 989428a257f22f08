package observability

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ajitpratap0/recycler/pkg/pool"
)

// keepSpans stops provider shutdown from clearing recorded spans.
type keepSpans struct {
	*tracetest.InMemoryExporter
}

func (keepSpans) Shutdown(context.Context) error { return nil }

func initRecorder(t *testing.T) (*tracetest.InMemoryExporter, ShutdownFunc) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	shutdown, err := InitTracingWithExporter(TracingConfig{
		Enabled:      true,
		ServiceName:  "recycler-test",
		SamplingRate: 1.0,
	}, keepSpans{exporter})
	if err != nil {
		t.Fatalf("Failed to initialize tracing: %v", err)
	}
	return exporter, shutdown
}

func TestTraceWorkload(t *testing.T) {
	exporter, shutdown := initRecorder(t)

	h := pool.NewBuilderProvider[bytes.Buffer](pool.WithName("buffers")).NewPool()
	pt := NewPoolTracer("buffers", 2)

	err := pt.TraceWorkload(context.Background(), h.Stats, func(context.Context) error {
		return h.Return(h.Rent())
	})
	if err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	if err := pt.TraceWorkload(context.Background(), h.Stats, func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}

	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name != "buffers.workload" {
		t.Errorf("unexpected span name %q", spans[0].Name)
	}
	if len(spans[0].Events) != 1 || spans[0].Events[0].Name != "pool.stats" {
		t.Errorf("expected pool.stats event, got %+v", spans[0].Events)
	}
	if spans[0].Status.Code == codes.Error {
		t.Error("successful workload should not be marked failed")
	}
	if spans[1].Status.Code != codes.Error {
		t.Error("failed workload should be marked failed")
	}
}

func TestStatsAttributes(t *testing.T) {
	attrs := StatsAttributes(pool.Stats{Name: "p", Capacity: 4, Hits: 3, Misses: 1})
	got := map[string]any{}
	for _, kv := range attrs {
		got[string(kv.Key)] = kv.Value.AsInterface()
	}
	if got["pool.name"] != "p" || got["pool.capacity"] != int64(4) || got["pool.hit_rate"] != 0.75 {
		t.Errorf("unexpected attributes %v", got)
	}
}

func TestTracingMiddleware(t *testing.T) {
	exporter, shutdown := initRecorder(t)

	handler := TracingMiddleware("recycler-test")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("unexpected status %d", rec.Code)
	}
	if rec.Header().Get("traceparent") == "" {
		t.Error("expected trace context in response headers")
	}

	_ = shutdown(context.Background())
	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "GET /stats" {
		t.Errorf("unexpected spans %+v", spans)
	}
}

func TestDisabledTracing(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{Enabled: false})
	if err != nil {
		t.Fatal(err)
	}
	_, span := NewSpan(context.Background(), "noop")
	span.SetAttribute("k", 1)
	span.SetError(errors.New("ignored"))
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestStdoutTracing(t *testing.T) {
	var out bytes.Buffer
	shutdown, err := InitTracing(TracingConfig{Enabled: true, ServiceName: "recycler-test", SamplingRate: 1, Writer: &out})
	if err != nil {
		t.Fatal(err)
	}
	_, span := NewSpan(context.Background(), "stdout-span")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Bytes(), []byte("stdout-span")) {
		t.Errorf("expected span in exporter output, got %q", out.String())
	}
}
