package hypostat

import (
	"math"

	"github.com/hypostat/hypostat/internal/dist"
	"github.com/hypostat/hypostat/internal/sample"
	"github.com/hypostat/hypostat/internal/validate"
)

func resolvePair(s1, s2 Sample) (sample.Summary, sample.Summary, error) {
	a, err := resolveSample("sample 1", s1)
	if err != nil {
		return sample.Summary{}, sample.Summary{}, err
	}
	b, err := resolveSample("sample 2", s2)
	if err != nil {
		return sample.Summary{}, sample.Summary{}, err
	}
	return a, b, nil
}

func (r PooledT) compute(Tail) (computation, error) {
	a, b, err := resolvePair(r.Sample1, r.Sample2)
	if err != nil {
		return computation{}, err
	}

	n1, n2 := float64(a.N), float64(b.N)
	df := a.N + b.N - 2
	spSq := ((n1-1)*a.Variance + (n2-1)*b.Variance) / float64(df)
	sp := math.Sqrt(spSq)
	if err := validate.Spread("pooled standard deviation", sp); err != nil {
		return computation{}, err
	}

	t := (a.Mean - b.Mean) / (sp * math.Sqrt(1/n1+1/n2))
	return computation{
		inputs: []Metric{
			value("x_bar_1", a.Mean),
			value("x_bar_2", b.Mean),
			value("s_sq_1", a.Variance),
			value("s_sq_2", b.Variance),
			count("n_1", a.N),
			count("n_2", b.N),
		},
		derived: []Metric{
			value("s_p_sq", spSq),
			value("s_p", sp),
		},
		statistic: value("t_calc", t),
		df:        []Metric{count("df", df)},
		dist:      dist.StudentT,
		dfArgs:    []float64{float64(df)},
		prefix:    "t",
	}, nil
}

// welchDF is the Welch approximation to the degrees of freedom of the
// difference of two means with unequal variances. It is fractional.
func welchDF(w1, w2 float64, n1, n2 int) float64 {
	num := (w1 + w2) * (w1 + w2)
	den := w1*w1/float64(n1+1) + w2*w2/float64(n2+1)
	return num / den
}

func (r WelchT) compute(Tail) (computation, error) {
	a, b, err := resolvePair(r.Sample1, r.Sample2)
	if err != nil {
		return computation{}, err
	}

	w1 := a.Variance / float64(a.N)
	w2 := b.Variance / float64(b.N)
	se := math.Sqrt(w1 + w2)
	if err := validate.Spread("standard error", se); err != nil {
		return computation{}, err
	}

	t := (a.Mean - b.Mean) / se
	df := welchDF(w1, w2, a.N, b.N)
	return computation{
		inputs: []Metric{
			value("x_bar_1", a.Mean),
			value("x_bar_2", b.Mean),
			value("s_sq_1", a.Variance),
			value("s_sq_2", b.Variance),
			count("n_1", a.N),
			count("n_2", b.N),
		},
		derived: []Metric{
			value("w_1", w1),
			value("w_2", w2),
		},
		statistic: value("t_calc", t),
		df:        []Metric{value("df", df)},
		dist:      dist.StudentT,
		dfArgs:    []float64{df},
		prefix:    "t",
	}, nil
}

func (r TwoSampleZ) compute(Tail) (computation, error) {
	a, b, err := resolvePair(r.Sample1, r.Sample2)
	if err != nil {
		return computation{}, err
	}
	if err := validate.Finite("sigma_1", r.Sigma1); err != nil {
		return computation{}, err
	}
	if err := validate.Spread("sigma_1", r.Sigma1); err != nil {
		return computation{}, err
	}
	if err := validate.Finite("sigma_2", r.Sigma2); err != nil {
		return computation{}, err
	}
	if err := validate.Spread("sigma_2", r.Sigma2); err != nil {
		return computation{}, err
	}

	se := math.Sqrt(r.Sigma1*r.Sigma1/float64(a.N) + r.Sigma2*r.Sigma2/float64(b.N))
	z := (a.Mean - b.Mean) / se
	return computation{
		inputs: []Metric{
			value("x_bar_1", a.Mean),
			value("x_bar_2", b.Mean),
			value("sigma_1", r.Sigma1),
			value("sigma_2", r.Sigma2),
			count("n_1", a.N),
			count("n_2", b.N),
		},
		statistic: value("z_calc", z),
		dist:      dist.Normal,
		prefix:    "z",
	}, nil
}
