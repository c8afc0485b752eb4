package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/fx/hypostatfx"
	"github.com/hypostat/hypostat/internal/httpapi"
	"github.com/hypostat/hypostat/internal/stats"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the test computations over HTTP.

Endpoints:
  POST /v1/tests/{family}   compute a test from a JSON request body
  POST /v1/tests            same, with the family in the body
  GET  /v1/families         list supported families
  GET  /healthz             liveness
  GET  /metrics             Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			logger, err := newServerLogger(a.cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			var (
				engine    *hypostat.Engine
				registry  *prometheus.Registry
				collector stats.Collector
			)
			fxApp := fx.New(
				fx.WithLogger(func() fxevent.Logger { return &fxevent.ZapLogger{Logger: logger.Named("fx")} }),
				fx.Supply(a.cfg, logger),
				hypostatfx.Module,
				fx.Populate(&engine, &registry, &collector),
			)
			if err := fxApp.Start(cmd.Context()); err != nil {
				return fmt.Errorf("starting: %w", err)
			}
			defer fxApp.Stop(context.Background()) //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpapi.New(engine,
				httpapi.WithDefaults(a.defaults()),
				httpapi.WithPrecision(a.cfg.Precision),
				httpapi.WithGatherer(registry),
				httpapi.WithStats(collector),
				httpapi.WithLogger(logger),
			)
			return srv.ListenAndServe(ctx, a.cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	return cmd
}

// newServerLogger builds a JSON production logger at the given level.
func newServerLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
