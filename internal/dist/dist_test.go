package dist

import (
	"errors"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/hypostat/hypostat/internal/validate"
)

func TestGonum_Quantile(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		p      float64
		df     []float64
		want   float64
	}{
		{"t 0.975 df24", StudentT, 0.975, []float64{24}, 2.063898561628025},
		{"t 0.95 df24", StudentT, 0.95, []float64{24}, 1.710882079909429},
		{"t 0.975 df1", StudentT, 0.975, []float64{1}, 12.706204736174659},
		{"t fractional df", StudentT, 0.975, []float64{2.5}, 3.5746548420036772},
		{"normal 0.975", Normal, 0.975, nil, 1.9599639845400536},
		{"normal 0.95", Normal, 0.95, nil, 1.6448536269514715},
		{"normal median", Normal, 0.5, nil, 0},
		{"chi2 0.025 df19", ChiSquared, 0.025, []float64{19}, 8.906516481987975},
		{"chi2 0.975 df19", ChiSquared, 0.975, []float64{19}, 32.85232686172969},
		{"chi2 0.95 df1", ChiSquared, 0.95, []float64{1}, 3.8414588206941245},
		{"chi2 median df2", ChiSquared, 0.5, []float64{2}, 1.3862943611198904},
		{"f 0.975 9,14", F, 0.975, []float64{9, 14}, 3.209300340896683},
		{"f 0.95 9,14", F, 0.95, []float64{9, 14}, 2.645790735233817},
		{"f 0.975 14,9", F, 0.975, []float64{14, 9}, 3.7979524823204214},
		{"f 0.95 5,10", F, 0.95, []float64{5, 10}, 3.32583453041301},
		{"f median 2,2", F, 0.5, []float64{2, 2}, 1},
	}

	g := NewGonum()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Quantile(tt.family, tt.p, tt.df...)
			if err != nil {
				t.Fatalf("Quantile() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-6*math.Max(1, math.Abs(tt.want)) {
				t.Errorf("Quantile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGonum_QuantileDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		p      float64
		df     []float64
	}{
		{"p zero", Normal, 0, nil},
		{"p one", Normal, 1, nil},
		{"p negative", StudentT, -0.5, []float64{3}},
		{"p nan", ChiSquared, math.NaN(), []float64{3}},
		{"df zero", StudentT, 0.5, []float64{0}},
		{"df negative", ChiSquared, 0.5, []float64{-1}},
		{"df inf", F, 0.5, []float64{math.Inf(1), 2}},
		{"missing df", StudentT, 0.5, nil},
		{"extra df", Normal, 0.5, []float64{1}},
		{"f one df", F, 0.5, []float64{3}},
		{"unknown family", Family(99), 0.5, nil},
	}

	g := NewGonum()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Quantile(tt.family, tt.p, tt.df...)
			if !errors.Is(err, validate.ErrDomain) {
				t.Errorf("Quantile() error = %v, want ErrDomain", err)
			}
		})
	}
}

func TestGonum_QuantileMonotonic(t *testing.T) {
	g := NewGonum()
	rapid.Check(t, func(rt *rapid.T) {
		p1 := rapid.Float64Range(0.01, 0.98).Draw(rt, "p1")
		p2 := rapid.Float64Range(p1+0.005, 0.99).Draw(rt, "p2")
		df := rapid.Float64Range(1, 200).Draw(rt, "df")
		df2 := rapid.Float64Range(1, 200).Draw(rt, "df2")

		cases := []struct {
			f  Family
			df []float64
		}{
			{StudentT, []float64{df}},
			{Normal, nil},
			{ChiSquared, []float64{df}},
			{F, []float64{df, df2}},
		}
		for _, c := range cases {
			q1, err := g.Quantile(c.f, p1, c.df...)
			if err != nil {
				rt.Fatalf("%v Quantile(%v) error = %v", c.f, p1, err)
			}
			q2, err := g.Quantile(c.f, p2, c.df...)
			if err != nil {
				rt.Fatalf("%v Quantile(%v) error = %v", c.f, p2, err)
			}
			if q1 > q2 {
				rt.Fatalf("%v quantile not monotonic: q(%v)=%v > q(%v)=%v", c.f, p1, q1, p2, q2)
			}
		}
	})
}

func TestGonum_SymmetricQuantiles(t *testing.T) {
	g := NewGonum()
	rapid.Check(t, func(rt *rapid.T) {
		p := rapid.Float64Range(0.005, 0.495).Draw(rt, "p")
		df := rapid.Float64Range(1, 100).Draw(rt, "df")

		lo, _ := g.Quantile(StudentT, p, df)
		hi, _ := g.Quantile(StudentT, 1-p, df)
		if math.Abs(lo+hi) > 1e-6*math.Max(1, hi) {
			rt.Fatalf("t quantiles not symmetric: q(%v)=%v, q(%v)=%v", p, lo, 1-p, hi)
		}
	})
}

func TestFamily_String(t *testing.T) {
	if got := StudentT.String(); got != "t" {
		t.Errorf("StudentT.String() = %q", got)
	}
	if got := F.String(); got != "f" {
		t.Errorf("F.String() = %q", got)
	}
	if got := Family(42).String(); got != "family(42)" {
		t.Errorf("Family(42).String() = %q", got)
	}
}
