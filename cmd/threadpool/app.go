package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	threadpool "github.com/Swind/go-threadpool"
	"github.com/Swind/go-threadpool/core"
	obs "github.com/Swind/go-threadpool/observability/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "threadpool",
		Usage: "Run a synthetic workload on the default and I/O thread pools",

		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "io-threadpool-size",
				EnvVars: []string{threadpool.IOThreadPoolSizeEnv},
				Value:   threadpool.DefaultIOThreadPoolSize,
				Usage:   "number of threads used for doing IO",
			},
			&cli.IntFlag{
				Name:  "tasks",
				Value: 1000,
				Usage: "CPU-bound tasks to submit to the default pool",
			},
			&cli.IntFlag{
				Name:  "io-tasks",
				Value: 200,
				Usage: "blocking tasks to submit to the I/O pool",
			},
			&cli.DurationFlag{
				Name:  "io-latency",
				Value: 10 * time.Millisecond,
				Usage: "how long each I/O task blocks",
			},
			&cli.IntFlag{
				Name:  "submitters",
				Value: 4,
				Usage: "goroutines submitting concurrently",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve Prometheus metrics on this address (e.g. :2112)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "debug, info, warn or error",
			},
		},

		Action: runAction,
	}
}

// workload is the validated flag set of one run
type workload struct {
	ioSize     int
	tasks      int
	ioTasks    int
	ioLatency  time.Duration
	submitters int
}

func runAction(c *cli.Context) error {
	// 1. Get flags
	w := workload{
		ioSize:     c.Int("io-threadpool-size"),
		tasks:      c.Int("tasks"),
		ioTasks:    c.Int("io-tasks"),
		ioLatency:  c.Duration("io-latency"),
		submitters: c.Int("submitters"),
	}

	// 2. Validate (format only)
	if w.tasks < 0 || w.ioTasks < 0 {
		return cli.Exit("task counts must not be negative", 1)
	}
	if w.submitters <= 0 {
		return cli.Exit("submitters must be positive", 1)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return cli.Exit(fmt.Sprintf("invalid log level: %v", err), 1)
	}
	logger := core.NewSlogLogger(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})))

	// 3. Wire pools, metrics and the optional endpoint
	reg := prom.NewRegistry()
	exporter, err := obs.NewMetricsExporter("threadpool", reg, obs.ExporterOptions{})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	poller, err := obs.NewSnapshotPoller(reg, 100*time.Millisecond)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}

	pools := threadpool.NewRegistry()
	if err := pools.SetIOThreadPoolSize(w.ioSize); err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	if err := pools.SetConfig(&threadpool.ThreadPoolConfig{Logger: logger, Metrics: exporter}); err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}
	defer pools.Shutdown()

	poller.AddPool(threadpool.DefaultPoolID, pools.Default())
	poller.AddPool(threadpool.IOPoolID, pools.IO())
	poller.Start(c.Context)
	defer poller.Stop()

	if addr := c.String("metrics-addr"); addr != "" {
		stop, err := serveMetrics(addr, reg, logger)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
		}
		defer stop()
	}

	// 4. Run
	res, err := w.run(c.Context, pools.Default(), pools.IO())
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed: %v", err), 1)
	}

	// 5. Format output
	fmt.Fprintf(c.App.Writer, "✓ default pool: %d/%d tasks on %d workers\n", res.cpuDone, w.tasks, pools.Default().WorkerCount())
	fmt.Fprintf(c.App.Writer, "✓ io pool: %d/%d tasks on %d workers\n", res.ioDone, w.ioTasks, pools.IO().WorkerCount())
	fmt.Fprintf(c.App.Writer, "  elapsed: %v\n", res.elapsed.Round(time.Millisecond))
	return nil
}

type result struct {
	cpuDone int64
	ioDone  int64
	elapsed time.Duration
}

// run spreads the workload over w.submitters goroutines and waits for both pools.
func (w workload) run(ctx context.Context, cpu, io *threadpool.ThreadPool) (result, error) {
	var cpuDone, ioDone atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for s := 0; s < w.submitters; s++ {
		g.Go(func() error {
			for i := s; i < w.tasks; i += w.submitters {
				if err := ctx.Err(); err != nil {
					return err
				}
				cpu.Submit(func() {
					sha256.Sum256([]byte(fmt.Sprintf("task-%d", i)))
					cpuDone.Add(1)
				})
			}
			for i := s; i < w.ioTasks; i += w.submitters {
				if err := ctx.Err(); err != nil {
					return err
				}
				io.Submit(func() {
					time.Sleep(w.ioLatency)
					ioDone.Add(1)
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result{}, err
	}

	cpu.Wait()
	io.Wait()

	return result{
		cpuDone: cpuDone.Load(),
		ioDone:  ioDone.Load(),
		elapsed: time.Since(start),
	}, nil
}

// serveMetrics starts a /metrics endpoint and returns a func that stops it.
func serveMetrics(addr string, reg *prom.Registry, logger core.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", core.F("addr", addr), core.F("error", err))
		}
	}()
	logger.Info("serving metrics", core.F("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
