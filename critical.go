package hypostat

import (
	"fmt"

	"github.com/hypostat/hypostat/internal/dist"
)

// criticalValues applies the tail policy to a computation:
//
//   - two-tailed: t and z use q(1-α/2); chi-square reports the pair
//     q(α/2), q(1-α/2); F uses q(1-α/2) on the ordered df pair.
//   - upper-tailed: q(1-α).
//   - lower-tailed: t and z use -q(1-α); chi-square uses q(α); F is rejected.
func (e *Engine) criticalValues(c computation, alpha float64, tail Tail) ([]Metric, error) {
	name := c.prefix + "_critical"
	q := func(p float64) (float64, error) {
		v, err := e.provider.Quantile(c.dist, p, c.dfArgs...)
		if err != nil {
			return 0, fmt.Errorf("%v quantile at %v: %w", c.dist, p, err)
		}
		return v, nil
	}

	switch tail {
	case TwoTailed:
		if c.dist == dist.ChiSquared {
			lower, err := q(alpha / 2)
			if err != nil {
				return nil, err
			}
			upper, err := q(1 - alpha/2)
			if err != nil {
				return nil, err
			}
			return []Metric{value(name+"_lower", lower), value(name+"_upper", upper)}, nil
		}
		v, err := q(1 - alpha/2)
		if err != nil {
			return nil, err
		}
		return []Metric{value(name, v)}, nil

	case UpperTailed:
		v, err := q(1 - alpha)
		if err != nil {
			return nil, err
		}
		return []Metric{value(name, v)}, nil

	case LowerTailed:
		switch c.dist {
		case dist.StudentT, dist.Normal:
			v, err := q(1 - alpha)
			if err != nil {
				return nil, err
			}
			return []Metric{value(name, -v)}, nil
		case dist.ChiSquared:
			v, err := q(alpha)
			if err != nil {
				return nil, err
			}
			return []Metric{value(name, v)}, nil
		}
	}
	return nil, fmt.Errorf("%w: %v not supported for the %v distribution", ErrInvalidTail, tail, c.dist)
}
