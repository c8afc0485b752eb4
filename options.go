package hypostat

import (
	"go.uber.org/zap"

	"github.com/hypostat/hypostat/internal/dist"
	"github.com/hypostat/hypostat/internal/stats"
)

// Option configures an Engine.
type Option interface {
	apply(*options)
}

// options holds the engine configuration.
type options struct {
	provider  dist.Provider
	cacheSize int
	stats     stats.Collector
	logger    *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		provider: dist.NewGonum(),
		stats:    stats.NewNoop(),
		logger:   zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithProvider sets the quantile provider.
// If not set, gonum's distributions are used.
func WithProvider(p dist.Provider) Option {
	return optionFunc(func(o *options) {
		o.provider = p
	})
}

// WithQuantileCache memoizes up to size quantiles in an LRU cache.
// A size of zero disables caching, which is the default.
func WithQuantileCache(size int) Option {
	return optionFunc(func(o *options) {
		o.cacheSize = size
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		if c != nil {
			o.stats = c
		}
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		if l != nil {
			o.logger = l.Named("engine")
		}
	})
}
