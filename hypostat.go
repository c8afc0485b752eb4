// Package hypostat computes the intermediate quantities of classical
// parametric hypothesis tests: the test statistic, its degrees of freedom
// and the critical value(s) for a significance level and tail. It does not
// decide whether to reject the null hypothesis.
//
// Example usage:
//
//	engine, err := hypostat.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := engine.OneSampleT(hypostat.OneSampleT{
//	    Sample: hypostat.SummaryFromStdDev(52, 10, 25),
//	    Mu0:    50,
//	    Alpha:  0.05,
//	    Tail:   hypostat.TwoTailed,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	t, _ := res.Get("t_calc")
//	fmt.Printf("t = %.2f\n", t)
package hypostat

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hypostat/hypostat/internal/dist"
	"github.com/hypostat/hypostat/internal/dist/cacheddist"
	"github.com/hypostat/hypostat/internal/stats"
	"github.com/hypostat/hypostat/internal/validate"
)

// Sentinel errors for the input error taxonomy. Every error returned by the
// engine wraps exactly one of them; use errors.Is to classify.
var (
	ErrInvalidNumericFormat     = validate.ErrInvalidNumericFormat
	ErrInvalidSignificanceLevel = validate.ErrInvalidSignificanceLevel
	ErrInsufficientSampleSize   = validate.ErrInsufficientSampleSize
	ErrInvalidSpread            = validate.ErrInvalidSpread
	ErrInvalidNullVariance      = validate.ErrInvalidNullVariance
	ErrInvalidProportion        = validate.ErrInvalidProportion
	ErrIncompleteInput          = validate.ErrIncompleteInput
	ErrInvalidTail              = validate.ErrInvalidTail
	ErrDomain                   = validate.ErrDomain

	// ErrDivisionByZero indicates a statistic whose divisor is zero, such as
	// a zero standard deviation or a null proportion of 0 or 1. It also
	// matches ErrDomain.
	ErrDivisionByZero = validate.ErrDivisionByZero

	// ErrUnknownFamily indicates a test family id that is not supported.
	ErrUnknownFamily = errors.New("hypostat: unknown test family")
)

// Engine runs hypothesis test computations.
// An Engine is safe for concurrent use by multiple goroutines.
type Engine struct {
	provider dist.Provider
	stats    stats.Collector
	logger   *zap.Logger
}

// New creates a new Engine with the given options.
// If no options are provided, gonum quantiles are used without caching.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	e := &Engine{
		provider: cfg.provider,
		stats:    cfg.stats,
		logger:   cfg.logger,
	}
	if e.provider == nil {
		e.provider = dist.NewGonum()
	}

	if cfg.cacheSize > 0 {
		cached, err := cacheddist.New(e.provider, cfg.cacheSize, e.stats)
		if err != nil {
			return nil, fmt.Errorf("creating quantile cache: %w", err)
		}
		e.provider = cached
	}

	e.logger.Debug("engine initialized",
		zap.Int("quantileCacheSize", cfg.cacheSize),
	)

	return e, nil
}

// Run validates and computes any test request.
func (e *Engine) Run(req Request) (*Result, error) {
	start := time.Now()
	res, err := e.run(req)
	e.stats.ObserveHistogram(stats.MetricTestDuration, time.Since(start).Seconds())

	if err != nil {
		e.stats.IncCounter(stats.MetricTestErrors, 1)
		e.logger.Debug("test rejected", zap.Error(err))
		return nil, err
	}

	e.stats.IncCounter(stats.MetricTests, 1)
	e.logger.Debug("test computed",
		zap.String("family", string(res.Family)),
		zap.Stringer("tail", res.Tail),
		zap.Float64("statistic", res.Statistic()),
	)
	return res, nil
}

func (e *Engine) run(req Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: no test request", ErrIncompleteInput)
	}

	alpha, tail := req.level()
	if err := validate.Alpha(alpha); err != nil {
		return nil, err
	}
	switch {
	case tail == 0:
		return nil, fmt.Errorf("%w: tail is required", ErrIncompleteInput)
	case !tail.valid():
		return nil, fmt.Errorf("%w: %v", ErrInvalidTail, tail)
	}

	c, err := req.compute(tail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Family(), err)
	}
	if err := c.checkFinite(); err != nil {
		return nil, fmt.Errorf("%s: %w", req.Family(), err)
	}
	critical, err := e.criticalValues(c, alpha, tail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.Family(), err)
	}
	return assemble(req.Family(), tail, alpha, c, critical), nil
}

// OneSampleT runs a one-sample t test.
func (e *Engine) OneSampleT(r OneSampleT) (*Result, error) { return e.Run(r) }

// OneSampleZ runs a one-sample z test.
func (e *Engine) OneSampleZ(r OneSampleZ) (*Result, error) { return e.Run(r) }

// OneSampleVariance runs a chi-square test of a single variance.
func (e *Engine) OneSampleVariance(r OneSampleVariance) (*Result, error) { return e.Run(r) }

// OneSampleProportion runs a one-sample proportion z test.
func (e *Engine) OneSampleProportion(r OneSampleProportion) (*Result, error) { return e.Run(r) }

// PooledT runs a two-sample t test with pooled variance.
func (e *Engine) PooledT(r PooledT) (*Result, error) { return e.Run(r) }

// WelchT runs Welch's two-sample t test.
func (e *Engine) WelchT(r WelchT) (*Result, error) { return e.Run(r) }

// PairedT runs a paired t test.
func (e *Engine) PairedT(r PairedT) (*Result, error) { return e.Run(r) }

// TwoSampleZ runs a two-sample z test with known variances.
func (e *Engine) TwoSampleZ(r TwoSampleZ) (*Result, error) { return e.Run(r) }

// TwoProportionZ runs a two-proportion z test.
func (e *Engine) TwoProportionZ(r TwoProportionZ) (*Result, error) { return e.Run(r) }

// VarianceRatioF runs an F test of two variances.
func (e *Engine) VarianceRatioF(r VarianceRatioF) (*Result, error) { return e.Run(r) }
