package wire

import (
	"fmt"

	"github.com/hypostat/hypostat"
)

// Defaults supplies values for optional request fields.
type Defaults struct {
	Alpha float64
}

// ToRequest validates the document and converts it into an engine request.
func (r *Request) ToRequest(d Defaults) (hypostat.Request, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	family, err := hypostat.ParseFamily(r.Family)
	if err != nil {
		return nil, err
	}
	tail, err := hypostat.ParseTail(r.Tail)
	if err != nil {
		return nil, err
	}
	alpha := d.Alpha
	if r.Alpha != nil {
		alpha = *r.Alpha
	}

	switch family {
	case hypostat.FamilyOneSampleT:
		mu0, err := required("mu_0", r.Mu0)
		if err != nil {
			return nil, err
		}
		return hypostat.OneSampleT{Sample: sampleOf(r.Sample, r.Summary), Mu0: mu0, Alpha: alpha, Tail: tail}, nil

	case hypostat.FamilyOneSampleZ:
		mu0, err := required("mu_0", r.Mu0)
		if err != nil {
			return nil, err
		}
		sigma, err := required("sigma", r.Sigma)
		if err != nil {
			return nil, err
		}
		return hypostat.OneSampleZ{Sample: sampleOf(r.Sample, r.Summary), Sigma: sigma, Mu0: mu0, Alpha: alpha, Tail: tail}, nil

	case hypostat.FamilyOneSampleVariance:
		nv, err := required("null_variance", r.NullVariance)
		if err != nil {
			return nil, err
		}
		return hypostat.OneSampleVariance{Sample: sampleOf(r.Sample, r.Summary), NullVariance: nv, Alpha: alpha, Tail: tail}, nil

	case hypostat.FamilyOneSampleProportion:
		p0, err := required("p_0", r.P0)
		if err != nil {
			return nil, err
		}
		return hypostat.OneSampleProportion{Proportion: proportionOf(r.Proportion), P0: p0, Alpha: alpha, Tail: tail}, nil

	case hypostat.FamilyPooledT:
		return hypostat.PooledT{
			Sample1: sampleOf(r.Sample, r.Summary),
			Sample2: sampleOf(r.Sample2, r.Summary2),
			Alpha:   alpha,
			Tail:    tail,
		}, nil

	case hypostat.FamilyWelchT:
		return hypostat.WelchT{
			Sample1: sampleOf(r.Sample, r.Summary),
			Sample2: sampleOf(r.Sample2, r.Summary2),
			Alpha:   alpha,
			Tail:    tail,
		}, nil

	case hypostat.FamilyPairedT:
		var delta float64
		if r.Delta != nil {
			delta = *r.Delta
		}
		diffs := sampleOf(r.Sample, r.Summary)
		if r.X != nil || r.Y != nil {
			diffs = hypostat.Pairs{X: r.X, Y: r.Y}
		}
		return hypostat.PairedT{Differences: diffs, Delta: delta, Alpha: alpha, Tail: tail}, nil

	case hypostat.FamilyTwoSampleZ:
		s1, err := required("sigma_1", r.Sigma1)
		if err != nil {
			return nil, err
		}
		s2, err := required("sigma_2", r.Sigma2)
		if err != nil {
			return nil, err
		}
		return hypostat.TwoSampleZ{
			Sample1: sampleOf(r.Sample, r.Summary),
			Sample2: sampleOf(r.Sample2, r.Summary2),
			Sigma1:  s1,
			Sigma2:  s2,
			Alpha:   alpha,
			Tail:    tail,
		}, nil

	case hypostat.FamilyTwoProportionZ:
		return hypostat.TwoProportionZ{
			Proportion1: proportionOf(r.Proportion),
			Proportion2: proportionOf(r.Proportion2),
			Alpha:       alpha,
			Tail:        tail,
		}, nil

	case hypostat.FamilyVarianceRatioF:
		return hypostat.VarianceRatioF{
			Sample1: sampleOf(r.Sample, r.Summary),
			Sample2: sampleOf(r.Sample2, r.Summary2),
			Alpha:   alpha,
			Tail:    tail,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", hypostat.ErrUnknownFamily, r.Family)
}

func required(name string, v *float64) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: %s is required", hypostat.ErrIncompleteInput, name)
	}
	return *v, nil
}

// sampleOf returns nil when neither form is present so that the engine
// reports the missing sample.
func sampleOf(raw []float64, s *Summary) hypostat.Sample {
	switch {
	case raw != nil:
		return hypostat.Observations(raw)
	case s != nil && s.SD != nil:
		return hypostat.SummaryFromStdDev(*s.Mean, *s.SD, *s.N)
	case s != nil:
		return hypostat.SummaryFromVariance(*s.Mean, *s.Variance, *s.N)
	}
	return nil
}

func proportionOf(p *Proportion) hypostat.Proportion {
	switch {
	case p == nil:
		return nil
	case p.Successes != nil:
		return hypostat.Count{Successes: *p.Successes, N: *p.N}
	default:
		return hypostat.Rate{PHat: *p.PHat, N: *p.N}
	}
}
