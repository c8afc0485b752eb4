// Package hypostatfx provides an fx module for a hypostat engine whose
// metrics are exported through a private Prometheus registry.
package hypostatfx

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/internal/config"
	"github.com/hypostat/hypostat/internal/stats"
	statslogger "github.com/hypostat/hypostat/internal/stats/logger"
	promstats "github.com/hypostat/hypostat/internal/stats/prometheus"
)

// Module provides *hypostat.Engine, stats.Collector and the
// *prometheus.Registry the collector registers on.
// Requires a config.Config and a *zap.Logger to be provided.
var Module = fx.Module("hypostat",
	fx.Provide(
		newRegistry,
		newStatsCollector,
		newEngine,
	),
)

func newRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// newStatsCollector exports metrics to the registry and also logs them at
// debug level.
func newStatsCollector(reg *prometheus.Registry, log *zap.Logger) stats.Collector {
	return stats.NewTee(
		promstats.New(reg),
		statslogger.NewAtLevel(log.Named("hypostat.stats"), zapcore.DebugLevel),
	)
}

// Params holds dependencies for creating the engine.
type Params struct {
	fx.In

	Config    config.Config
	Logger    *zap.Logger
	Collector stats.Collector
}

// Result holds the provided engine.
type Result struct {
	fx.Out

	Engine *hypostat.Engine
}

func newEngine(p Params) (Result, error) {
	engine, err := hypostat.New(
		hypostat.WithQuantileCache(p.Config.CacheSize),
		hypostat.WithStats(p.Collector),
		hypostat.WithLogger(p.Logger.Named("hypostat")),
	)
	if err != nil {
		return Result{}, err
	}
	return Result{Engine: engine}, nil
}
