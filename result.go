package hypostat

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Metric is one named value of a Result. Integer marks counts and integral
// degrees of freedom.
type Metric struct {
	Name    string
	Value   float64
	Integer bool
}

// Result holds the metrics of one test in a fixed order: echoed inputs,
// derived quantities, the statistic, degrees of freedom, critical values
// and alpha. Values carry full precision.
type Result struct {
	Family  Family
	Tail    Tail
	Metrics []Metric
}

func assemble(f Family, tail Tail, alpha float64, c computation, critical []Metric) *Result {
	metrics := make([]Metric, 0, len(c.inputs)+len(c.derived)+len(c.df)+len(critical)+2)
	metrics = append(metrics, c.inputs...)
	metrics = append(metrics, c.derived...)
	metrics = append(metrics, c.statistic)
	metrics = append(metrics, c.df...)
	metrics = append(metrics, critical...)
	metrics = append(metrics, value("alpha", alpha))
	return &Result{Family: f, Tail: tail, Metrics: metrics}
}

// Get returns the value of the named metric.
func (r *Result) Get(name string) (float64, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// Keys returns the metric names in order.
func (r *Result) Keys() []string {
	keys := make([]string, len(r.Metrics))
	for i, m := range r.Metrics {
		keys[i] = m.Name
	}
	return keys
}

// Statistic returns the calculated test statistic.
func (r *Result) Statistic() float64 {
	for _, m := range r.Metrics {
		if isStatistic(m.Name) {
			return m.Value
		}
	}
	return math.NaN()
}

func isStatistic(name string) bool {
	switch name {
	case "t_calc", "z_calc", "chi2_calc", "f_calc":
		return true
	}
	return false
}

// Rounded returns a copy with every non-integer value rounded to places
// decimal places. It is meant for display only.
func (r *Result) Rounded(places int) *Result {
	out := &Result{Family: r.Family, Tail: r.Tail, Metrics: make([]Metric, len(r.Metrics))}
	for i, m := range r.Metrics {
		if !m.Integer && places >= 0 {
			m.Value = Round(m.Value, places)
		}
		out.Metrics[i] = m
	}
	return out
}

// Round rounds v half away from zero to places decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// FormatValue formats a metric value: integers without a fractional part,
// other values with the shortest representation.
func FormatValue(m Metric) string {
	if m.Integer {
		return strconv.FormatInt(int64(m.Value), 10)
	}
	return strconv.FormatFloat(m.Value, 'g', -1, 64)
}

// MarshalJSON encodes the result with its metrics as an object whose keys
// keep the result order:
//
//	{"family":"one-sample-t","tail":"two-tailed","metrics":{"x_bar":52,...}}
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"family":`)
	b, err := json.Marshal(string(r.Family))
	if err != nil {
		return nil, err
	}
	buf.Write(b)

	buf.WriteString(`,"tail":`)
	b, err = json.Marshal(r.Tail)
	if err != nil {
		return nil, err
	}
	buf.Write(b)

	buf.WriteString(`,"metrics":{`)
	for i, m := range r.Metrics {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err = json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
		buf.WriteByte(':')
		if m.Integer {
			buf.WriteString(strconv.FormatInt(int64(m.Value), 10))
			continue
		}
		b, err = json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
