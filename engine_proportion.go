package hypostat

import (
	"math"

	"github.com/hypostat/hypostat/internal/dist"
	"github.com/hypostat/hypostat/internal/validate"
)

func (r OneSampleProportion) compute(Tail) (computation, error) {
	pHat, n, err := resolveProportion("proportion", r.Proportion)
	if err != nil {
		return computation{}, err
	}
	if err := validate.Proportion("p_0", r.P0); err != nil {
		return computation{}, err
	}
	variance := r.P0 * (1 - r.P0) / float64(n)
	if err := validate.Divisor("null proportion variance", variance); err != nil {
		return computation{}, err
	}

	z := (pHat - r.P0) / math.Sqrt(variance)
	return computation{
		inputs: []Metric{
			value("p_hat", pHat),
			value("p_0", r.P0),
			count("n", n),
		},
		statistic: value("z_calc", z),
		dist:      dist.Normal,
		prefix:    "z",
	}, nil
}

func (r TwoProportionZ) compute(Tail) (computation, error) {
	p1, n1, err := resolveProportion("proportion 1", r.Proportion1)
	if err != nil {
		return computation{}, err
	}
	p2, n2, err := resolveProportion("proportion 2", r.Proportion2)
	if err != nil {
		return computation{}, err
	}

	// Pool on success counts so unequal sample sizes are weighted.
	pooled := (float64(n1)*p1 + float64(n2)*p2) / float64(n1+n2)
	variance := pooled * (1 - pooled) * (1/float64(n1) + 1/float64(n2))
	if err := validate.Divisor("pooled proportion variance", variance); err != nil {
		return computation{}, err
	}

	z := (p1 - p2) / math.Sqrt(variance)
	return computation{
		inputs: []Metric{
			value("p_hat_1", p1),
			value("p_hat_2", p2),
			count("n_1", n1),
			count("n_2", n2),
		},
		derived:   []Metric{value("p_hat_pooled", pooled)},
		statistic: value("z_calc", z),
		dist:      dist.Normal,
		prefix:    "z",
	}, nil
}
