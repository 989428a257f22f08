// Package observability wires OpenTelemetry tracing around pool workloads
// and the HTTP endpoints that expose pool state.
package observability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/pool"
)

const instrumentationName = "github.com/ajitpratap0/recycler"

// TracingConfig contains tracing configuration
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	SamplingRate   float64
	// Writer receives stdout exporter output; nil means os.Stderr
	Writer       io.Writer
	BatchTimeout time.Duration
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// InitTracing installs a global tracer provider exporting to stdout. When
// tracing is disabled a no-op provider is installed and the returned
// shutdown does nothing.
func InitTracing(config TracingConfig) (ShutdownFunc, error) {
	if !config.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	w := config.Writer
	if w == nil {
		w = os.Stderr
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create stdout exporter")
	}
	return InitTracingWithExporter(config, exporter)
}

// InitTracingWithExporter installs a global tracer provider that batches
// spans to exporter.
func InitTracingWithExporter(config TracingConfig, exporter sdktrace.SpanExporter) (ShutdownFunc, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create resource")
	}

	// Configure sampling
	var sampler sdktrace.Sampler
	if config.SamplingRate <= 0 {
		sampler = sdktrace.NeverSample()
	} else if config.SamplingRate >= 1.0 {
		sampler = sdktrace.AlwaysSample()
	} else {
		sampler = sdktrace.TraceIDRatioBased(config.SamplingRate)
	}

	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Tracer returns the recycler tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Span wraps a trace span and batches attributes until End.
type Span struct {
	span       trace.Span
	attributes []attribute.KeyValue
}

// NewSpan starts a span on the recycler tracer.
func NewSpan(ctx context.Context, operationName string) (context.Context, *Span) {
	ctx, span := Tracer().Start(ctx, operationName)
	return ctx, &Span{span: span}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	case time.Duration:
		attr = attribute.String(key, v.String())
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}

	s.attributes = append(s.attributes, attr)
}

// AddEvent adds an event to the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetError records err and marks the span failed. A nil err is ignored.
func (s *Span) SetError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End flushes batched attributes and ends the span.
func (s *Span) End() {
	if len(s.attributes) > 0 {
		s.span.SetAttributes(s.attributes...)
	}
	s.span.End()
}

// StatsAttributes converts a pool snapshot to span attributes.
func StatsAttributes(s pool.Stats) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("pool.name", s.Name),
		attribute.Int("pool.capacity", s.Capacity),
		attribute.Int("pool.free", s.Free),
		attribute.Int64("pool.in_use", s.InUse),
		attribute.Int64("pool.created", s.Created),
		attribute.Int64("pool.hits", s.Hits),
		attribute.Int64("pool.misses", s.Misses),
		attribute.Int64("pool.evicted", s.Evicted),
		attribute.Int64("pool.rejected", s.Rejected),
		attribute.Float64("pool.hit_rate", s.HitRate()),
	}
}

// PoolTracer traces workloads run against one pool.
type PoolTracer struct {
	pool    string
	workers int
}

// NewPoolTracer creates a tracer for the named pool.
func NewPoolTracer(poolName string, workers int) *PoolTracer {
	return &PoolTracer{pool: poolName, workers: workers}
}

// StartSpan starts a span named "<pool>.<operation>".
func (pt *PoolTracer) StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	ctx, span := NewSpan(ctx, pt.pool+"."+operation)
	span.SetAttribute("pool.name", pt.pool)
	span.SetAttribute("workload.workers", pt.workers)
	return ctx, span
}

// TraceWorkload runs fn inside a "workload" span and attaches the pool
// snapshot returned by stats once fn completes.
func (pt *PoolTracer) TraceWorkload(ctx context.Context, stats func() pool.Stats, fn func(context.Context) error) error {
	ctx, span := pt.StartSpan(ctx, "workload")
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	span.SetAttribute("workload.duration", time.Since(start))
	span.AddEvent("pool.stats", StatsAttributes(stats())...)
	span.SetError(err)
	return err
}

// TracingMiddleware starts a server span for each request, continuing any
// trace propagated in the request headers.
func TracingMiddleware(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			operationName := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
			ctx, span := Tracer().Start(ctx, operationName, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.url", r.URL.String()),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.String("service.name", serviceName),
			)

			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(w.Header()))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
