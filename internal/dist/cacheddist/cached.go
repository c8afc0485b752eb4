// Package cacheddist memoizes distribution quantiles.
package cacheddist

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hypostat/hypostat/internal/dist"
	"github.com/hypostat/hypostat/internal/stats"
)

// DefaultCapacity is the number of quantiles kept when no capacity is given.
const DefaultCapacity = 256

type key struct {
	family dist.Family
	p      float64
	df1    float64
	df2    float64
}

func newKey(f dist.Family, p float64, df []float64) key {
	k := key{family: f, p: p}
	if len(df) > 0 {
		k.df1 = df[0]
	}
	if len(df) > 1 {
		k.df2 = df[1]
	}
	return k
}

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Provider wraps another dist.Provider with an LRU cache.
// It is safe for concurrent use.
type Provider struct {
	underlying dist.Provider
	cache      *lru.Cache[key, float64]
	collector  stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

var _ dist.Provider = (*Provider)(nil)

// New creates a caching provider holding up to capacity quantiles.
// A non-positive capacity selects DefaultCapacity. The collector is
// optional; if nil, a no-op collector is used.
func New(underlying dist.Provider, capacity int, collector stats.Collector) (*Provider, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	c, err := lru.New[key, float64](capacity)
	if err != nil {
		return nil, err
	}
	return &Provider{
		underlying: underlying,
		cache:      c,
		collector:  collector,
	}, nil
}

// Quantile returns the cached quantile, computing it on a miss.
// Failed lookups are not cached.
func (p *Provider) Quantile(f dist.Family, prob float64, df ...float64) (float64, error) {
	if err := dist.CheckArgs(f, prob, df...); err != nil {
		return 0, err
	}

	k := newKey(f, prob, df)
	if v, ok := p.cache.Get(k); ok {
		p.hits.Add(1)
		p.collector.IncCounter(stats.MetricCacheHits, 1)
		return v, nil
	}
	p.misses.Add(1)
	p.collector.IncCounter(stats.MetricCacheMisses, 1)

	v, err := p.underlying.Quantile(f, prob, df...)
	if err != nil {
		return 0, err
	}
	p.cache.Add(k, v)
	p.collector.SetGauge(stats.MetricCacheSize, int64(p.cache.Len()))
	return v, nil
}

// Stats returns current cache statistics.
func (p *Provider) Stats() Stats {
	return Stats{
		Hits:   p.hits.Load(),
		Misses: p.misses.Load(),
		Size:   p.cache.Len(),
	}
}

// Purge drops every cached quantile.
func (p *Provider) Purge() {
	p.cache.Purge()
	p.collector.SetGauge(stats.MetricCacheSize, 0)
}
