package stats

// Noop discards all metrics. It is the default collector everywhere a
// collector is optional.
type Noop struct{}

var _ Collector = (*Noop)(nil)

// NewNoop returns a collector that records nothing.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) IncCounter(string, int64)         {}
func (*Noop) SetGauge(string, int64)           {}
func (*Noop) ObserveHistogram(string, float64) {}

// Tee forwards every metric to each of its collectors in order.
type Tee []Collector

var _ Collector = Tee(nil)

// NewTee combines collectors, skipping nil ones.
func NewTee(collectors ...Collector) Tee {
	t := make(Tee, 0, len(collectors))
	for _, c := range collectors {
		if c != nil {
			t = append(t, c)
		}
	}
	return t
}

func (t Tee) IncCounter(name string, delta int64) {
	for _, c := range t {
		c.IncCounter(name, delta)
	}
}

func (t Tee) SetGauge(name string, value int64) {
	for _, c := range t {
		c.SetGauge(name, value)
	}
}

func (t Tee) ObserveHistogram(name string, value float64) {
	for _, c := range t {
		c.ObserveHistogram(name, value)
	}
}
