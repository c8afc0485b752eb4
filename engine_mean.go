package hypostat

import (
	"math"

	"github.com/hypostat/hypostat/internal/dist"
	"github.com/hypostat/hypostat/internal/validate"
)

func (r OneSampleT) compute(Tail) (computation, error) {
	s, err := resolveSample("sample", r.Sample)
	if err != nil {
		return computation{}, err
	}
	if err := validate.Finite("mu_0", r.Mu0); err != nil {
		return computation{}, err
	}
	if err := validate.Spread("sample standard deviation", s.StdDev); err != nil {
		return computation{}, err
	}

	t := (s.Mean - r.Mu0) / (s.StdDev / math.Sqrt(float64(s.N)))
	return computation{
		inputs: []Metric{
			value("x_bar", s.Mean),
			value("s", s.StdDev),
			count("n", s.N),
			value("mu_0", r.Mu0),
		},
		statistic: value("t_calc", t),
		df:        []Metric{count("df", s.N-1)},
		dist:      dist.StudentT,
		dfArgs:    []float64{float64(s.N - 1)},
		prefix:    "t",
	}, nil
}

func (r OneSampleZ) compute(Tail) (computation, error) {
	s, err := resolveSample("sample", r.Sample)
	if err != nil {
		return computation{}, err
	}
	if err := validate.Finite("mu_0", r.Mu0); err != nil {
		return computation{}, err
	}
	if err := validate.Finite("sigma", r.Sigma); err != nil {
		return computation{}, err
	}
	if err := validate.Spread("sigma", r.Sigma); err != nil {
		return computation{}, err
	}

	z := (s.Mean - r.Mu0) / (r.Sigma / math.Sqrt(float64(s.N)))
	return computation{
		inputs: []Metric{
			value("x_bar", s.Mean),
			value("sigma", r.Sigma),
			count("n", s.N),
			value("mu_0", r.Mu0),
		},
		statistic: value("z_calc", z),
		dist:      dist.Normal,
		prefix:    "z",
	}, nil
}

func (r PairedT) compute(Tail) (computation, error) {
	d, err := resolveSample("differences", r.Differences)
	if err != nil {
		return computation{}, err
	}
	if err := validate.Finite("delta", r.Delta); err != nil {
		return computation{}, err
	}
	if err := validate.Spread("standard deviation of differences", d.StdDev); err != nil {
		return computation{}, err
	}

	t := (d.Mean - r.Delta) / (d.StdDev / math.Sqrt(float64(d.N)))
	return computation{
		inputs: []Metric{
			value("d_bar", d.Mean),
			value("s_d", d.StdDev),
			count("n", d.N),
			value("delta", r.Delta),
		},
		statistic: value("t_calc", t),
		df:        []Metric{count("df", d.N-1)},
		dist:      dist.StudentT,
		dfArgs:    []float64{float64(d.N - 1)},
		prefix:    "t",
	}, nil
}
