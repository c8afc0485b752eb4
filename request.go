package hypostat

import (
	"fmt"
	"math"

	"github.com/hypostat/hypostat/internal/dist"
)

// Request is a complete description of one hypothesis test. It is
// implemented by the ten request types of this package.
type Request interface {
	// Family reports which test the request describes.
	Family() Family

	level() (alpha float64, tail Tail)
	compute(tail Tail) (computation, error)
}

// computation is the family-specific part of a test: everything up to the
// statistic and its degrees of freedom. The critical value is derived from
// it by a policy shared by every family.
type computation struct {
	inputs    []Metric
	derived   []Metric
	statistic Metric
	df        []Metric

	dist   dist.Family
	dfArgs []float64
	prefix string // metric name prefix, e.g. "t" for t_critical
}

// checkFinite rejects a computation whose statistic, derived values or
// degrees of freedom overflowed.
func (c computation) checkFinite() error {
	metrics := append(append([]Metric{c.statistic}, c.derived...), c.df...)
	for _, m := range metrics {
		if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
			return fmt.Errorf("%w: %s is %v", ErrDomain, m.Name, m.Value)
		}
	}
	return nil
}

// OneSampleT tests a mean against Mu0 when the population spread is unknown.
type OneSampleT struct {
	Sample Sample
	Mu0    float64
	Alpha  float64
	Tail   Tail
}

// OneSampleZ tests a mean against Mu0 with a known population standard
// deviation Sigma. Only the sample's mean and size are used.
type OneSampleZ struct {
	Sample Sample
	Sigma  float64
	Mu0    float64
	Alpha  float64
	Tail   Tail
}

// OneSampleVariance tests a sample variance against NullVariance.
type OneSampleVariance struct {
	Sample       Sample
	NullVariance float64
	Alpha        float64
	Tail         Tail
}

// OneSampleProportion tests an observed proportion against P0.
type OneSampleProportion struct {
	Proportion Proportion
	P0         float64
	Alpha      float64
	Tail       Tail
}

// PooledT compares two means assuming equal population variances.
type PooledT struct {
	Sample1 Sample
	Sample2 Sample
	Alpha   float64
	Tail    Tail
}

// WelchT compares two means without assuming equal population variances.
type WelchT struct {
	Sample1 Sample
	Sample2 Sample
	Alpha   float64
	Tail    Tail
}

// PairedT tests the mean of paired differences against Delta.
// Differences is either a Pairs value or a sample of precomputed differences.
type PairedT struct {
	Differences Sample
	Delta       float64
	Alpha       float64
	Tail        Tail
}

// TwoSampleZ compares two means with known population standard deviations.
type TwoSampleZ struct {
	Sample1 Sample
	Sample2 Sample
	Sigma1  float64
	Sigma2  float64
	Alpha   float64
	Tail    Tail
}

// TwoProportionZ compares two proportions using the pooled proportion.
type TwoProportionZ struct {
	Proportion1 Proportion
	Proportion2 Proportion
	Alpha       float64
	Tail        Tail
}

// VarianceRatioF compares two variances. The upper-tailed form tests
// s1²/s2²; the two-tailed form puts the larger variance in the numerator.
// Lower-tailed tests are not supported.
type VarianceRatioF struct {
	Sample1 Sample
	Sample2 Sample
	Alpha   float64
	Tail    Tail
}

func (OneSampleT) Family() Family          { return FamilyOneSampleT }
func (OneSampleZ) Family() Family          { return FamilyOneSampleZ }
func (OneSampleVariance) Family() Family   { return FamilyOneSampleVariance }
func (OneSampleProportion) Family() Family { return FamilyOneSampleProportion }
func (PooledT) Family() Family             { return FamilyPooledT }
func (WelchT) Family() Family              { return FamilyWelchT }
func (PairedT) Family() Family             { return FamilyPairedT }
func (TwoSampleZ) Family() Family          { return FamilyTwoSampleZ }
func (TwoProportionZ) Family() Family      { return FamilyTwoProportionZ }
func (VarianceRatioF) Family() Family      { return FamilyVarianceRatioF }

func (r OneSampleT) level() (float64, Tail)          { return r.Alpha, r.Tail }
func (r OneSampleZ) level() (float64, Tail)          { return r.Alpha, r.Tail }
func (r OneSampleVariance) level() (float64, Tail)   { return r.Alpha, r.Tail }
func (r OneSampleProportion) level() (float64, Tail) { return r.Alpha, r.Tail }
func (r PooledT) level() (float64, Tail)             { return r.Alpha, r.Tail }
func (r WelchT) level() (float64, Tail)              { return r.Alpha, r.Tail }
func (r PairedT) level() (float64, Tail)             { return r.Alpha, r.Tail }
func (r TwoSampleZ) level() (float64, Tail)          { return r.Alpha, r.Tail }
func (r TwoProportionZ) level() (float64, Tail)      { return r.Alpha, r.Tail }
func (r VarianceRatioF) level() (float64, Tail)      { return r.Alpha, r.Tail }

func value(name string, v float64) Metric {
	return Metric{Name: name, Value: v}
}

func count(name string, n int) Metric {
	return Metric{Name: name, Value: float64(n), Integer: true}
}
