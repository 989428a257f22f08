// Package workload drives concurrent rent/return cycles against configured
// pools and reports throughput and latency.
package workload

import (
	"bytes"
	"context"
	stderrors "errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/recycler/pkg/compression"
	"github.com/ajitpratap0/recycler/pkg/config"
	"github.com/ajitpratap0/recycler/pkg/errors"
	"github.com/ajitpratap0/recycler/pkg/metrics"
	"github.com/ajitpratap0/recycler/pkg/observability"
	"github.com/ajitpratap0/recycler/pkg/pool"
)

// Result summarises one pool's run.
type Result struct {
	Pool       string        `json:"pool"`
	Cycles     int64         `json:"cycles"`
	Violations int64         `json:"violations"`
	Duration   time.Duration `json:"duration"`
	OpsPerSec  float64       `json:"ops_per_sec"`
	P50        time.Duration `json:"p50"`
	P99        time.Duration `json:"p99"`
	Stats      pool.Stats    `json:"stats"`
}

// Runner executes the configured workload.
type Runner struct {
	cfg        config.WorkloadConfig
	payload    []byte
	compressor compression.Compressor
	logger     *zap.Logger
}

// NewRunner prepares a payload and, when configured, a compressor that every
// cycle runs the payload through.
func NewRunner(cfg config.WorkloadConfig, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:     cfg,
		payload: bytes.Repeat([]byte("recycler"), cfg.PayloadSize/8+1)[:cfg.PayloadSize],
		logger:  logger,
	}

	if cfg.Compression != "" && cfg.Compression != string(compression.None) {
		algo, err := compression.ParseAlgorithm(cfg.Compression)
		if err != nil {
			return nil, err
		}
		c, err := compression.NewCompressor(&compression.Config{
			Algorithm: algo,
			Level:     compression.Default,
			PoolSize:  cfg.Workers,
		})
		if err != nil {
			return nil, err
		}
		r.compressor = c
	}
	return r, nil
}

// Compressor returns the payload compressor, or nil.
func (r *Runner) Compressor() compression.Compressor {
	return r.compressor
}

// Close releases the compressor pools.
func (r *Runner) Close() error {
	if r.compressor == nil {
		return nil
	}
	return r.compressor.Close()
}

// RunAll runs every handle concurrently. Results keep the order of handles.
func (r *Runner) RunAll(ctx context.Context, handles []pool.AnyHandle) ([]Result, error) {
	results := make([]Result, len(handles))
	g, ctx := errgroup.WithContext(ctx)
	for i, h := range handles {
		g.Go(func() error {
			res, err := r.Run(ctx, h)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Run drives cfg.Workers goroutines of rent/exercise/return against h until
// the iterations are done, the configured duration elapses or ctx ends.
func (r *Runner) Run(ctx context.Context, h pool.AnyHandle) (Result, error) {
	if r.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Duration)
		defer cancel()
	}

	var (
		cycles     atomic.Int64
		violations atomic.Int64
		latency    = metrics.NewLatencyTracker(4096)
		throughput = metrics.NewThroughputTracker(h.Name())
		rentHist   = metrics.RentLatency.WithLabelValues(h.Name())
	)

	start := time.Now()
	tracer := observability.NewPoolTracer(h.Name(), r.cfg.Workers)
	err := tracer.TraceWorkload(ctx, h.Stats, func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < r.cfg.Workers; w++ {
			g.Go(func() error {
				for i := 0; r.cfg.Iterations <= 0 || i < r.cfg.Iterations; i++ {
					if gctx.Err() != nil {
						return nil
					}

					timer := metrics.NewTimer("rent")
					v := h.Rent()
					elapsed := timer.Stop()
					rentHist.Observe(float64(elapsed.Nanoseconds()))
					latency.Record(elapsed)

					if err := r.cycle(v); err != nil {
						_ = h.Return(v)
						return err
					}
					if err := h.Return(v); err != nil {
						if !errors.IsContractViolation(err) {
							return err
						}
						violations.Add(1)
					}
					cycles.Add(1)
					throughput.Increment(1)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		return ctx.Err()
	})
	if stderrors.Is(err, context.DeadlineExceeded) {
		err = nil
	}

	res := Result{
		Pool:       h.Name(),
		Cycles:     cycles.Load(),
		Violations: violations.Load(),
		Duration:   time.Since(start),
		OpsPerSec:  throughput.GetAndReset(),
		P50:        latency.GetPercentile(50),
		P99:        latency.GetPercentile(99),
		Stats:      h.Stats(),
	}

	r.logger.Info("workload finished",
		zap.String("pool", res.Pool),
		zap.Int64("cycles", res.Cycles),
		zap.Duration("duration", res.Duration),
		zap.Float64("ops_per_sec", res.OpsPerSec),
		zap.Float64("hit_rate", res.Stats.HitRate()))
	return res, err
}

func (r *Runner) cycle(v any) error {
	if err := Exercise(v, r.payload); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "exercise failed")
	}
	if r.compressor == nil {
		return nil
	}
	compressed, err := r.compressor.Compress(r.payload)
	if err != nil {
		return err
	}
	_, err = r.compressor.Decompress(compressed)
	return err
}
