package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/internal/sample"
	"github.com/hypostat/hypostat/internal/wire"
)

// input groups of a family's command.
const (
	inSample = 1 << iota
	inSample2
	inPairs
	inProportion
	inProportion2
)

type familyInputs struct {
	groups  int
	scalars []string
}

var familyFlags = map[hypostat.Family]familyInputs{
	hypostat.FamilyOneSampleT:          {inSample, []string{"mu0"}},
	hypostat.FamilyOneSampleZ:          {inSample, []string{"sigma", "mu0"}},
	hypostat.FamilyOneSampleVariance:   {inSample, []string{"null-variance"}},
	hypostat.FamilyOneSampleProportion: {inProportion, []string{"p0"}},
	hypostat.FamilyPooledT:             {inSample | inSample2, nil},
	hypostat.FamilyWelchT:              {inSample | inSample2, nil},
	hypostat.FamilyPairedT:             {inSample | inPairs, []string{"delta"}},
	hypostat.FamilyTwoSampleZ:          {inSample | inSample2, []string{"sigma1", "sigma2"}},
	hypostat.FamilyTwoProportionZ:      {inProportion | inProportion2, nil},
	hypostat.FamilyVarianceRatioF:      {inSample | inSample2, nil},
}

var scalarUsage = map[string]string{
	"mu0":           "hypothesized mean",
	"sigma":         "known population standard deviation",
	"sigma1":        "known standard deviation of population 1",
	"sigma2":        "known standard deviation of population 2",
	"null-variance": "hypothesized variance",
	"delta":         "hypothesized mean difference (default 0)",
	"p0":            "hypothesized proportion",
}

func newTestCmd(a *app, family hypostat.Family) *cobra.Command {
	in := familyFlags[family]

	var alpha float64
	var tail string

	cmd := &cobra.Command{
		Use:   string(family),
		Short: family.Description(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := requestFromFlags(cmd.Flags(), family, in)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("alpha") {
				doc.Alpha = &alpha
			}
			doc.Tail = tail

			req, err := doc.ToRequest(a.defaults())
			if err != nil {
				return err
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}
			res, err := engine.Run(req)
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Result(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&alpha, "alpha", 0.05, "significance level, 0 < alpha < 1 (default from config)")
	f.StringVar(&tail, "tail", hypostat.TwoTailed.String(), "tail: "+tailList(family))

	if in.groups&inSample != 0 {
		what := "sample"
		if family == hypostat.FamilyPairedT {
			what = "differences"
		}
		addSampleFlags(f, "", what)
	}
	if in.groups&inSample2 != 0 {
		addSampleFlags(f, "2", "sample 2")
	}
	if in.groups&inPairs != 0 {
		f.String("x", "", "first observations of each pair")
		f.String("y", "", "second observations of each pair")
	}
	if in.groups&inProportion != 0 {
		addProportionFlags(f, "")
	}
	if in.groups&inProportion2 != 0 {
		addProportionFlags(f, "2")
	}
	for _, name := range in.scalars {
		f.Float64(name, 0, scalarUsage[name])
	}
	return cmd
}

func tailList(f hypostat.Family) string {
	tails := f.Tails()
	names := make([]string, len(tails))
	for i, t := range tails {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

func addSampleFlags(f *pflag.FlagSet, suffix, what string) {
	f.String("sample"+suffix, "", "raw observations of "+what+", separated by spaces or commas")
	f.Float64("mean"+suffix, 0, "mean of "+what)
	f.Float64("sd"+suffix, 0, "standard deviation of "+what)
	f.Float64("var"+suffix, 0, "variance of "+what)
	f.Int("n"+suffix, 0, "size of "+what)
}

func addProportionFlags(f *pflag.FlagSet, suffix string) {
	what := "the sample"
	if suffix != "" {
		what = "sample " + suffix
	}
	f.Float64("p-hat"+suffix, 0, "observed proportion of "+what)
	f.Int("successes"+suffix, 0, "number of successes in "+what)
	f.Int("n"+suffix, 0, "size of "+what)
}

// requestFromFlags builds a wire request from the flags that were set, so
// the CLI shares the validation of batch and HTTP requests.
func requestFromFlags(f *pflag.FlagSet, family hypostat.Family, in familyInputs) (*wire.Request, error) {
	doc := &wire.Request{Family: string(family)}

	var err error
	if in.groups&inSample != 0 {
		if doc.Sample, doc.Summary, err = sampleFromFlags(f, ""); err != nil {
			return nil, err
		}
	}
	if in.groups&inSample2 != 0 {
		if doc.Sample2, doc.Summary2, err = sampleFromFlags(f, "2"); err != nil {
			return nil, err
		}
	}
	if in.groups&inPairs != 0 {
		if doc.X, err = observations(f, "x"); err != nil {
			return nil, err
		}
		if doc.Y, err = observations(f, "y"); err != nil {
			return nil, err
		}
	}
	if in.groups&inProportion != 0 {
		doc.Proportion = proportionFromFlags(f, "")
	}
	if in.groups&inProportion2 != 0 {
		doc.Proportion2 = proportionFromFlags(f, "2")
	}

	scalars := map[string]**float64{
		"mu0":           &doc.Mu0,
		"sigma":         &doc.Sigma,
		"sigma1":        &doc.Sigma1,
		"sigma2":        &doc.Sigma2,
		"null-variance": &doc.NullVariance,
		"delta":         &doc.Delta,
		"p0":            &doc.P0,
	}
	for _, name := range in.scalars {
		*scalars[name] = float64Flag(f, name)
	}
	return doc, nil
}

func sampleFromFlags(f *pflag.FlagSet, suffix string) ([]float64, *wire.Summary, error) {
	xs, err := observations(f, "sample"+suffix)
	if err != nil {
		return nil, nil, err
	}

	mean := float64Flag(f, "mean"+suffix)
	sd := float64Flag(f, "sd"+suffix)
	variance := float64Flag(f, "var"+suffix)
	n := intFlag(f, "n"+suffix)
	if mean == nil && sd == nil && variance == nil && n == nil {
		return xs, nil, nil
	}
	return xs, &wire.Summary{Mean: mean, SD: sd, Variance: variance, N: n}, nil
}

func proportionFromFlags(f *pflag.FlagSet, suffix string) *wire.Proportion {
	p := &wire.Proportion{
		PHat:      float64Flag(f, "p-hat"+suffix),
		Successes: intFlag(f, "successes"+suffix),
		N:         intFlag(f, "n"+suffix),
	}
	if p.PHat == nil && p.Successes == nil && p.N == nil {
		return nil
	}
	return p
}

func observations(f *pflag.FlagSet, name string) ([]float64, error) {
	if !f.Changed(name) {
		return nil, nil
	}
	s, _ := f.GetString(name)
	xs, err := sample.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return xs, nil
}

func float64Flag(f *pflag.FlagSet, name string) *float64 {
	if !f.Changed(name) {
		return nil
	}
	v, _ := f.GetFloat64(name)
	return &v
}

func intFlag(f *pflag.FlagSet, name string) *int {
	if !f.Changed(name) {
		return nil
	}
	v, _ := f.GetInt(name)
	return &v
}
