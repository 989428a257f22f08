package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/recycler/internal/workload"
	"github.com/ajitpratap0/recycler/pkg/config"
	"github.com/ajitpratap0/recycler/pkg/json"
	"github.com/ajitpratap0/recycler/pkg/logger"
	"github.com/ajitpratap0/recycler/pkg/metrics"
	"github.com/ajitpratap0/recycler/pkg/observability"
	"github.com/ajitpratap0/recycler/pkg/performance"
	"github.com/ajitpratap0/recycler/pkg/pool"
	"github.com/ajitpratap0/recycler/pkg/registry"
)

// session holds everything built from one configuration.
type session struct {
	cfg       *config.Config
	log       *zap.Logger
	reg       *registry.Registry
	runner    *workload.Runner
	collector *metrics.PoolCollector
	monitor   *performance.Monitor
	shutdown  observability.ShutdownFunc
}

func openSession(cmd *cobra.Command, configFile string) (*session, error) {
	cfg, err := loadSettings(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, err
	}
	log := logger.Get().With(zap.String("component", "recycler-cli"))

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
		SamplingRate:   cfg.Tracing.SampleRate,
		Writer:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log, reg: registry.NewRegistry(), shutdown: shutdown}
	if err := s.reg.BuildAll(cfg.Pools); err != nil {
		s.Close()
		return nil, err
	}

	s.runner, err = workload.NewRunner(cfg.Workload, log)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.collector = metrics.NewPoolCollector(s.reg, pool.GlobalBufferPool, metrics.Single(jsonBuffers{}))
	if c := s.runner.Compressor(); c != nil {
		s.collector.Add(c)
	}

	s.monitor, err = performance.NewMonitor()
	if err != nil {
		log.Warn("resource monitor unavailable", zap.Error(err))
	}
	return s, nil
}

// jsonBuffers exposes the shared JSON buffer pool to the collector.
type jsonBuffers struct{}

func (jsonBuffers) Stats() pool.Stats { return json.BufferStats() }

func (s *session) handles() []pool.AnyHandle {
	names := s.reg.Names()
	handles := make([]pool.AnyHandle, 0, len(names))
	for _, name := range names {
		if h, ok := s.reg.Get(name); ok {
			handles = append(handles, h)
		}
	}
	return handles
}

// Close disposes every pool and flushes telemetry.
func (s *session) Close() {
	s.reg.DisposeAll()
	if s.runner != nil {
		if err := s.runner.Close(); err != nil {
			s.log.Warn("failed to close compressor", zap.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.shutdown(ctx); err != nil {
		s.log.Warn("failed to flush traces", zap.Error(err))
	}
	_ = logger.Sync()
}

// handler serves Prometheus metrics, pool stats as JSON and a health check.
func (s *session) handler() http.Handler {
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		s.collector,
		metrics.RentLatency,
		metrics.Throughput,
		metrics.MemoryAllocated,
		metrics.GCCount,
		collectors.NewGoCollector(),
	)

	mux := http.NewServeMux()
	mux.Handle(s.cfg.Metrics.Path, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
	mux.Handle("/stats", observability.TracingMiddleware("recycler")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := json.MarshalStats(s.collector.Snapshot(), r.URL.Query().Get("format"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// serveBackground starts the metrics server and resource sampler in g.
func (s *session) serveBackground(ctx context.Context, g *errgroup.Group) {
	if s.cfg.Metrics.Enabled {
		srv := &http.Server{
			Addr:              s.cfg.Metrics.Address,
			Handler:           s.handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			s.log.Info("serving metrics", zap.String("address", srv.Addr), zap.String("path", s.cfg.Metrics.Path))
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if s.monitor != nil {
		g.Go(func() error {
			s.monitor.Sample(ctx, time.Second, recordUsage)
			return nil
		})
	}
}

func recordUsage(u performance.Usage) {
	metrics.MemoryAllocated.WithLabelValues("rss").Set(float64(u.MemoryRSS))
	metrics.MemoryAllocated.WithLabelValues("heap").Set(float64(u.HeapAlloc))
	metrics.GCCount.Set(float64(u.GCCount))
}

func newRunCommand() *cobra.Command {
	var configFile, output, cpuProfile, memProfile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the workload once against every configured pool",
		Long: `Build the pools declared in the configuration file and drive the
workload against all of them concurrently, then print a summary.

Example:
  recycler run --config recycler.yaml --workers 8 --duration 10s`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, configFile)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			bgCtx, cancelBg := context.WithCancel(ctx)
			g, bgCtx := errgroup.WithContext(bgCtx)
			s.serveBackground(bgCtx, g)

			stopCPU, err := startCPUProfile(cpuProfile)
			if err != nil {
				cancelBg()
				_ = g.Wait()
				return err
			}
			results, runErr := s.runner.RunAll(ctx, s.handles())
			stopCPU()
			cancelBg()
			if err := g.Wait(); err != nil {
				return err
			}
			if runErr != nil && !stderrors.Is(runErr, context.Canceled) {
				return runErr
			}
			if err := writeHeapProfile(memProfile); err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), output, results, s.monitor)
		},
	}

	addConfigFlags(cmd, &configFile)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	cmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&memProfile, "memprofile", "", "Write memory profile to file")
	return cmd
}

func newServeCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve metrics while repeating the workload until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("metrics") {
				_ = cmd.Flags().Set("metrics", "true")
			}
			s, err := openSession(cmd, configFile)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			g, gctx := errgroup.WithContext(ctx)
			s.serveBackground(gctx, g)

			g.Go(func() error {
				for round := 1; gctx.Err() == nil; round++ {
					if _, err := s.runner.RunAll(gctx, s.handles()); err != nil {
						if stderrors.Is(err, context.Canceled) {
							return nil
						}
						return err
					}
					s.log.Debug("workload round finished", zap.Int("round", round))
				}
				return nil
			})
			return g.Wait()
		},
	}

	addConfigFlags(cmd, &configFile)
	return cmd
}

func addConfigFlags(cmd *cobra.Command, configFile *string) {
	f := cmd.Flags()
	f.StringVarP(configFile, "config", "c", "", "Path to YAML configuration file")
	f.String("log-level", "warn", "Log level (debug, info, warn, error)")
	f.Bool("metrics", false, "Serve Prometheus metrics")
	f.String("metrics-addr", ":9090", "Metrics listen address")
	f.Bool("trace", false, "Export OpenTelemetry spans to stderr")
	f.Int("workers", 0, "Concurrent workers per pool")
	f.Int("iterations", 0, "Rent/return cycles per worker")
	f.Duration("duration", 0, "Stop each pool's run after this long")
	f.Int("payload-size", 0, "Bytes written into each rented instance")
	f.String("compression", "", "Compress each payload (none, gzip, snappy, lz4, zstd, s2, deflate)")
}

func printResults(w io.Writer, format string, results []workload.Result, monitor *performance.Monitor) error {
	if format == "json" {
		out := struct {
			Results []workload.Result  `json:"results"`
			Usage   *performance.Usage `json:"usage,omitempty"`
		}{Results: results}
		if monitor != nil {
			u := monitor.Usage()
			out.Usage = &u
		}
		return json.MarshalToWriter(w, out)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "POOL\tCYCLES\tOPS/S\tP50\tP99\tHIT%\tCREATED\tEVICTED\tREJECTED\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%.0f\t%s\t%s\t%.1f\t%d\t%d\t%d\t\n",
			r.Pool, r.Cycles, r.OpsPerSec, r.P50, r.P99, r.Stats.HitRate()*100,
			r.Stats.Created, r.Stats.Evicted, r.Stats.Rejected)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if monitor != nil {
		u := monitor.Usage()
		fmt.Fprintf(w, "\nrss=%s heap=%s gc=%d goroutines=%d\n",
			formatBytes(u.MemoryRSS), formatBytes(u.HeapAlloc), u.GCCount, u.GoroutineCount)
	}
	return nil
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
