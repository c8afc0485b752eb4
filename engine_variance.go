package hypostat

import (
	"fmt"

	"github.com/hypostat/hypostat/internal/dist"
	"github.com/hypostat/hypostat/internal/validate"
)

func (r OneSampleVariance) compute(Tail) (computation, error) {
	s, err := resolveSample("sample", r.Sample)
	if err != nil {
		return computation{}, err
	}
	if err := validate.NullVariance(r.NullVariance); err != nil {
		return computation{}, err
	}

	df := s.N - 1
	chi2 := float64(df) * s.Variance / r.NullVariance
	return computation{
		inputs: []Metric{
			value("s_sq", s.Variance),
			value("sigma_0_sq", r.NullVariance),
			count("n", s.N),
		},
		statistic: value("chi2_calc", chi2),
		df:        []Metric{count("df", df)},
		dist:      dist.ChiSquared,
		dfArgs:    []float64{float64(df)},
		prefix:    "chi2",
	}, nil
}

// compute places s1² over s2² for the upper-tailed test. The two-tailed
// test places the larger variance in the numerator and orders the df pair
// to match; equal variances keep sample 1 in the numerator.
func (r VarianceRatioF) compute(tail Tail) (computation, error) {
	if tail == LowerTailed {
		return computation{}, fmt.Errorf("%w: %s supports only two-tailed and upper tests", ErrInvalidTail, FamilyVarianceRatioF)
	}
	a, b, err := resolvePair(r.Sample1, r.Sample2)
	if err != nil {
		return computation{}, err
	}

	num, den := a.Variance, b.Variance
	dfNum, dfDen := a.N-1, b.N-1
	if tail == TwoTailed && b.Variance > a.Variance {
		num, den = b.Variance, a.Variance
		dfNum, dfDen = b.N-1, a.N-1
	}
	if err := validate.Spread("denominator variance", den); err != nil {
		return computation{}, err
	}

	return computation{
		inputs: []Metric{
			value("s_sq_1", a.Variance),
			value("s_sq_2", b.Variance),
			count("n_1", a.N),
			count("n_2", b.N),
		},
		statistic: value("f_calc", num/den),
		df: []Metric{
			count("df_numerator", dfNum),
			count("df_denominator", dfDen),
		},
		dist:   dist.F,
		dfArgs: []float64{float64(dfNum), float64(dfDen)},
		prefix: "f",
	}, nil
}
