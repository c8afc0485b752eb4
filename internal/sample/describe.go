package sample

import (
	"fmt"

	mstats "github.com/montanaflynn/stats"
)

// Description extends Summary with order statistics. It is informational
// and never feeds a test statistic.
type Description struct {
	Summary
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe summarizes xs and adds its five-number summary.
func Describe(xs []float64) (Description, error) {
	sum, err := Summarize(xs)
	if err != nil {
		return Description{}, err
	}

	min, err := mstats.Min(xs)
	if err != nil {
		return Description{}, fmt.Errorf("describe min: %w", err)
	}
	max, err := mstats.Max(xs)
	if err != nil {
		return Description{}, fmt.Errorf("describe max: %w", err)
	}
	q, err := mstats.Quartile(xs)
	if err != nil {
		return Description{}, fmt.Errorf("describe quartiles: %w", err)
	}

	return Description{
		Summary: sum,
		Min:     min,
		Q1:      q.Q1,
		Median:  q.Q2,
		Q3:      q.Q3,
		Max:     max,
	}, nil
}
