// Package sample reduces raw observations to the sufficient statistics the
// test families consume.
package sample

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/hypostat/hypostat/internal/validate"
)

// Summary holds the canonical sufficient statistics of a sample.
type Summary struct {
	Mean     float64
	Variance float64 // unbiased, divisor n-1
	StdDev   float64
	N        int
}

// Summarize computes the mean, unbiased variance and standard deviation of xs.
// It fails with validate.ErrInsufficientSampleSize when len(xs) < 2.
// A constant sample yields zero variance; rejecting that is left to the
// test that divides by it.
func Summarize(xs []float64) (Summary, error) {
	if err := validate.SampleSize("sample size", len(xs)); err != nil {
		return Summary{}, err
	}
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Summary{}, fmt.Errorf("%w: observation %d is %v", validate.ErrInvalidNumericFormat, i+1, x)
		}
	}

	mean, variance := stat.MeanVariance(xs, nil)
	if variance < 0 {
		// Rounding in the compensated sum can leave a tiny negative value.
		variance = 0
	}
	return Summary{
		Mean:     mean,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		N:        len(xs),
	}, nil
}

// Differences returns x[i]-y[i] for paired observations.
// It fails with validate.ErrIncompleteInput when the lengths differ.
func Differences(x, y []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: paired samples have %d and %d observations", validate.ErrIncompleteInput, len(x), len(y))
	}
	d := make([]float64, len(x))
	for i := range x {
		d[i] = x[i] - y[i]
	}
	return d, nil
}
