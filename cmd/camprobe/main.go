package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	camprobe "github.com/fllarpy/camprobe"
	"github.com/fllarpy/camprobe/config"
	"github.com/fllarpy/camprobe/debuglog"
	httpinstrumentation "github.com/fllarpy/camprobe/instrumentation/http"
	"github.com/fllarpy/camprobe/internal/adapters/framefetch"
	"github.com/fllarpy/camprobe/internal/adapters/timedhttp"
	"github.com/fllarpy/camprobe/internal/application/hostloop"
	"github.com/fllarpy/camprobe/internal/ports/http_reporter"
	"github.com/fllarpy/camprobe/internal/ports/promexport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.yaml")
	iterations := flag.Int("n", 0, "number of loop iterations, 0 runs until interrupted")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := debuglog.New(os.Stdout, debuglog.Level(cfg.Debug.Level))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	probe, err := camprobe.NewProbe(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialize probe: %v", err)
	}
	defer probe.Shutdown(context.Background())

	set := probe.Set()
	streamRead := set.Add("stream read")
	frameDecode := set.Add("frame decode")
	display := set.Add("display")

	client := timedhttp.NewClient(&http.Client{Timeout: 5 * time.Second}, nil, probe.TracerProvider())
	fetcher, err := framefetch.New(client, cfg.StreamURL(), cfg.Buffers.Count, cfg.Buffers.Size)
	if err != nil {
		log.Fatalf("failed to allocate frame buffers: %v", err)
	}
	defer fetcher.Close()

	var frame []byte
	partHeader := []byte(cfg.Stream.PartHeader1)
	loop := hostloop.New(set, probe.Policy(), logger,
		hostloop.Stage{Profile: streamRead, Run: func(ctx context.Context) error {
			chunk, err := fetcher.Fetch(ctx)
			frame = chunk
			return err
		}},
		// Decoding and rendering belong to the display driver; the loop only
		// times their call sites.
		hostloop.Stage{Profile: frameDecode, Run: func(context.Context) error {
			if bytes.Contains(frame, partHeader) {
				logger.Printf(debuglog.Verbose, "Loop: part header in %d byte chunk", len(frame))
			}
			return nil
		}},
		hostloop.Stage{Profile: display, Run: func(context.Context) error { return nil }},
	)

	if cfg.Debug.ListenAddr != "" {
		srv := newDebugServer(cfg.Debug.ListenAddr, probe)
		go func() {
			logger.Printf(debuglog.Progress, "Debug: serving /debug/profile and /metrics on %s", cfg.Debug.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf(debuglog.Progress, "Debug: server stopped: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	logger.Printf(debuglog.Progress, "Loop: reading %s", cfg.StreamURL())
	if err := loop.Run(ctx, *iterations); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf(debuglog.Progress, "Loop: stopped: %v", err)
	}
	_ = set.WriteTable(logger.Writer())
}

func newDebugServer(addr string, probe *camprobe.Probe) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(promexport.NewCollector(probe.Set()))

	mux := http.NewServeMux()
	mux.Handle("/debug/profile", http_reporter.NewHandler(probe.Set()))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              addr,
		Handler:           httpinstrumentation.NewMiddleware(mux, "debug-server", probe.TracerProvider()),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
