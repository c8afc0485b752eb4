// Package dist provides quantile (inverse-CDF) functions for the reference
// distributions used by the test families.
package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/hypostat/hypostat/internal/validate"
)

// Family identifies a reference distribution.
type Family int

const (
	// StudentT is Student's t distribution with one df parameter.
	StudentT Family = iota + 1
	// Normal is the standard normal distribution; it takes no df.
	Normal
	// ChiSquared is the chi-square distribution with one df parameter.
	ChiSquared
	// F is Snedecor's F distribution with numerator and denominator df.
	F
)

// String returns the distribution name.
func (f Family) String() string {
	switch f {
	case StudentT:
		return "t"
	case Normal:
		return "normal"
	case ChiSquared:
		return "chi-square"
	case F:
		return "f"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// Arity returns the number of degrees-of-freedom parameters the family takes.
func (f Family) Arity() int {
	switch f {
	case StudentT, ChiSquared:
		return 1
	case F:
		return 2
	default:
		return 0
	}
}

// Provider computes quantiles of a reference distribution.
type Provider interface {
	// Quantile returns the value x such that CDF(x) = p for the given family
	// and degrees of freedom. It fails with validate.ErrDomain when p is
	// outside (0, 1) or a df parameter is non-positive.
	Quantile(f Family, p float64, df ...float64) (float64, error)
}

// Gonum implements Provider using gonum's distuv package.
// Fractional degrees of freedom are supported.
type Gonum struct{}

// Compile-time check that Gonum implements Provider.
var _ Provider = Gonum{}

// NewGonum returns a gonum-backed provider.
func NewGonum() Gonum {
	return Gonum{}
}

// Quantile implements Provider.
func (Gonum) Quantile(f Family, p float64, df ...float64) (float64, error) {
	if err := CheckArgs(f, p, df...); err != nil {
		return 0, err
	}

	switch f {
	case StudentT:
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df[0]}.Quantile(p), nil
	case Normal:
		return distuv.UnitNormal.Quantile(p), nil
	case ChiSquared:
		return distuv.ChiSquared{K: df[0]}.Quantile(p), nil
	case F:
		// X ~ F(d1, d2) iff d1*X/(d1*X+d2) ~ Beta(d1/2, d2/2).
		d1, d2 := df[0], df[1]
		b := distuv.Beta{Alpha: d1 / 2, Beta: d2 / 2}.Quantile(p)
		return d2 * b / (d1 * (1 - b)), nil
	}
	return 0, fmt.Errorf("%w: unknown distribution %v", validate.ErrDomain, f)
}

// CheckArgs validates quantile arguments for a family.
func CheckArgs(f Family, p float64, df ...float64) error {
	if f < StudentT || f > F {
		return fmt.Errorf("%w: unknown distribution %v", validate.ErrDomain, f)
	}
	if !(p > 0 && p < 1) {
		return fmt.Errorf("%w: probability %v outside (0, 1)", validate.ErrDomain, p)
	}
	if len(df) != f.Arity() {
		return fmt.Errorf("%w: %v takes %d df parameters, got %d", validate.ErrDomain, f, f.Arity(), len(df))
	}
	for _, d := range df {
		if !(d > 0) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: degrees of freedom must be positive and finite, got %v", validate.ErrDomain, d)
		}
	}
	return nil
}
