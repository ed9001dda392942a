package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/promenade/internal/metrics"
	"github.com/danielpatrickdp/promenade/internal/rpc"
	"github.com/danielpatrickdp/promenade/internal/state"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Simulator gRPC service and prometheus metrics",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// #region serve
func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	var store *state.Store
	if !noStore {
		store, err = state.NewStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}
	gs := grpc.NewServer()
	rpc.Register(gs, rpc.NewServer(logger, rec, store))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 2)
	go func() {
		logger.Info("grpc listening", "addr", lis.Addr().String())
		errc <- gs.Serve(lis)
	}()
	go func() {
		logger.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errc:
		logger.Error("server failed", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	metricsSrv.Shutdown(shutdownCtx)
	gs.GracefulStop()
	return err
}
// #endregion serve
