package hypostat

import (
	"fmt"
	"strings"
)

// Family identifies one of the supported hypothesis test families.
type Family string

// Supported test families.
const (
	FamilyOneSampleT          Family = "one-sample-t"
	FamilyOneSampleZ          Family = "one-sample-z"
	FamilyOneSampleVariance   Family = "one-sample-variance"
	FamilyOneSampleProportion Family = "one-sample-proportion"
	FamilyPooledT             Family = "pooled-t"
	FamilyWelchT              Family = "welch-t"
	FamilyPairedT             Family = "paired-t"
	FamilyTwoSampleZ          Family = "two-sample-z"
	FamilyTwoProportionZ      Family = "two-proportion-z"
	FamilyVarianceRatioF      Family = "variance-ratio-f"
)

var families = []Family{
	FamilyOneSampleT,
	FamilyOneSampleZ,
	FamilyOneSampleVariance,
	FamilyOneSampleProportion,
	FamilyPooledT,
	FamilyWelchT,
	FamilyPairedT,
	FamilyTwoSampleZ,
	FamilyTwoProportionZ,
	FamilyVarianceRatioF,
}

var descriptions = map[Family]string{
	FamilyOneSampleT:          "One-sample mean, unknown spread (Student t)",
	FamilyOneSampleZ:          "One-sample mean, known spread (z)",
	FamilyOneSampleVariance:   "One-sample variance (chi-square)",
	FamilyOneSampleProportion: "One-sample proportion (z)",
	FamilyPooledT:             "Two-sample means, pooled variance (Student t)",
	FamilyWelchT:              "Two-sample means, unequal variances (Welch t)",
	FamilyPairedT:             "Paired means (Student t)",
	FamilyTwoSampleZ:          "Two-sample means, known variances (z)",
	FamilyTwoProportionZ:      "Two-sample proportions (z)",
	FamilyVarianceRatioF:      "Two-sample variances (F)",
}

// Families returns every supported family in a stable order.
func Families() []Family {
	out := make([]Family, len(families))
	copy(out, families)
	return out
}

// ParseFamily looks up a family by its id.
func ParseFamily(s string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := descriptions[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
	return f, nil
}

// Description returns a short human readable name of the family.
func (f Family) Description() string {
	return descriptions[f]
}

// Tails returns the tail selectors the family accepts.
func (f Family) Tails() []Tail {
	if f == FamilyVarianceRatioF {
		return []Tail{TwoTailed, UpperTailed}
	}
	return Tails()
}
