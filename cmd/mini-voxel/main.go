// Command mini-voxel runs the voxel simulation headless: it streams and
// meshes terrain around a scripted player and serves Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"mini-voxel/internal/config"
	"mini-voxel/internal/game"
	"mini-voxel/internal/logging"
	"mini-voxel/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML config file (defaults to $"+config.EnvPath+")")
		frames      = flag.Uint64("frames", 0, "stop after this many frames, 0 runs until interrupted")
		walk        = flag.Bool("walk", true, "drive the player with a scripted walk")
		metricsAddr = flag.String("metrics-addr", "", "override metrics.addr, \"-\" disables the endpoint")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *metricsAddr == "-" {
		cfg.Metrics.Addr = ""
	} else if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	s, err := game.NewSession(cfg, log, m)
	if err != nil {
		log.Error("create session", zap.Error(err))
		os.Exit(1)
	}

	srv := serveMetrics(cfg.Metrics.Addr, reg, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	closer.Bind(func() {
		cancel()
		<-done
		s.Close()
		if srv != nil {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("metrics server shutdown", zap.Error(err))
			}
		}
		log.Info("stopped", zap.Uint64("frames", s.Frames()))
		_ = log.Sync()
	})

	go func() {
		err := run(ctx, s, *frames, *walk, log)
		close(done)
		if err != nil {
			closer.Fatalln(err)
		}
		closer.Close()
	}()
	closer.Hold()
}

func run(ctx context.Context, s *game.Session, frames uint64, walk bool, log *zap.Logger) error {
	if err := s.Spawn(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	sc := &script{enabled: walk, log: log}
	return s.Run(ctx, game.RunOptions{
		MaxFrames:  frames,
		BeforeStep: sc.step,
	})
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}
