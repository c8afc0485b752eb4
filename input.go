package hypostat

import (
	"fmt"
	"math"

	"github.com/hypostat/hypostat/internal/sample"
	"github.com/hypostat/hypostat/internal/validate"
)

// Sample is the input of a mean or variance test: raw Observations, a
// pre-aggregated Summary, or Pairs for paired tests. Raw input is reduced
// to the same sufficient statistics as a Summary before any formula runs.
type Sample interface {
	summarize() (sample.Summary, error)
}

// Observations is a raw sample. It needs at least two values.
type Observations []float64

func (o Observations) summarize() (sample.Summary, error) {
	return sample.Summarize(o)
}

// Summary supplies a sample's sufficient statistics directly.
// Set either Variance or StdDev; the other is derived. When both are set
// StdDev squared must agree with Variance to a relative 1e-9.
type Summary struct {
	Mean     float64
	Variance float64
	StdDev   float64
	N        int
}

// SummaryFromStdDev builds a Summary from a mean, standard deviation and size.
func SummaryFromStdDev(mean, sd float64, n int) Summary {
	return Summary{Mean: mean, Variance: sd * sd, StdDev: sd, N: n}
}

// SummaryFromVariance builds a Summary from a mean, variance and size.
func SummaryFromVariance(mean, variance float64, n int) Summary {
	return Summary{Mean: mean, Variance: variance, StdDev: math.Sqrt(variance), N: n}
}

func (s Summary) summarize() (sample.Summary, error) {
	if err := validate.SampleSize("sample size", s.N); err != nil {
		return sample.Summary{}, err
	}
	if err := validate.Finite("mean", s.Mean); err != nil {
		return sample.Summary{}, err
	}
	if err := validate.Variance("variance", s.Variance); err != nil {
		return sample.Summary{}, err
	}
	if err := validate.Variance("standard deviation", s.StdDev); err != nil {
		return sample.Summary{}, err
	}
	if math.IsInf(s.Variance, 0) || math.IsInf(s.StdDev, 0) {
		return sample.Summary{}, fmt.Errorf("%w: spread is infinite", validate.ErrInvalidNumericFormat)
	}

	if s.Variance != 0 && s.StdDev != 0 &&
		math.Abs(s.StdDev*s.StdDev-s.Variance) > 1e-9*math.Max(1, s.Variance) {
		return sample.Summary{}, fmt.Errorf("%w: standard deviation %v does not match variance %v",
			validate.ErrInvalidSpread, s.StdDev, s.Variance)
	}

	out := sample.Summary{Mean: s.Mean, Variance: s.Variance, StdDev: s.StdDev, N: s.N}
	switch {
	case out.Variance == 0 && out.StdDev != 0:
		out.Variance = out.StdDev * out.StdDev
	case out.StdDev == 0 && out.Variance != 0:
		out.StdDev = math.Sqrt(out.Variance)
	}
	return out, nil
}

// Pairs holds matched observations for a paired test. The test runs on the
// differences X[i]-Y[i]; both slices must have the same length.
type Pairs struct {
	X []float64
	Y []float64
}

func (p Pairs) summarize() (sample.Summary, error) {
	d, err := sample.Differences(p.X, p.Y)
	if err != nil {
		return sample.Summary{}, err
	}
	return sample.Summarize(d)
}

func resolveSample(name string, s Sample) (sample.Summary, error) {
	if s == nil {
		return sample.Summary{}, fmt.Errorf("%w: %s is required", ErrIncompleteInput, name)
	}
	sum, err := s.summarize()
	if err != nil {
		return sample.Summary{}, fmt.Errorf("%s: %w", name, err)
	}
	return sum, nil
}

// Proportion is the input of a proportion test: an observed Rate or a
// success Count.
type Proportion interface {
	resolve() (pHat float64, n int, err error)
}

// Rate is an observed proportion p̂ out of N trials.
type Rate struct {
	PHat float64
	N    int
}

func (r Rate) resolve() (float64, int, error) {
	if err := validate.SampleSize("sample size", r.N); err != nil {
		return 0, 0, err
	}
	if err := validate.Proportion("p_hat", r.PHat); err != nil {
		return 0, 0, err
	}
	return r.PHat, r.N, nil
}

// Count is a number of successes out of N trials.
type Count struct {
	Successes int
	N         int
}

func (c Count) resolve() (float64, int, error) {
	if err := validate.SampleSize("sample size", c.N); err != nil {
		return 0, 0, err
	}
	if err := validate.Successes("successes", c.Successes, c.N); err != nil {
		return 0, 0, err
	}
	return float64(c.Successes) / float64(c.N), c.N, nil
}

func resolveProportion(name string, p Proportion) (float64, int, error) {
	if p == nil {
		return 0, 0, fmt.Errorf("%w: %s is required", ErrIncompleteInput, name)
	}
	pHat, n, err := p.resolve()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", name, err)
	}
	return pHat, n, nil
}
