// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the engine.
const (
	// Engine metrics.
	MetricTests        = "hypostat_tests_total"
	MetricTestErrors   = "hypostat_test_errors_total"
	MetricTestDuration = "hypostat_test_duration_seconds"

	// Quantile cache metrics.
	MetricCacheHits   = "hypostat_quantile_cache_hits_total"
	MetricCacheMisses = "hypostat_quantile_cache_misses_total"
	MetricCacheSize   = "hypostat_quantile_cache_size"

	// Batch metrics.
	MetricBatchLines = "hypostat_batch_lines_total"

	// HTTP metrics.
	MetricHTTPRequests = "hypostat_http_requests_total"
	MetricHTTPErrors   = "hypostat_http_errors_total"
)

// Help returns a human readable description for a known metric name.
// Unknown names are described by the name itself.
func Help(name string) string {
	switch name {
	case MetricTests:
		return "Number of hypothesis test computations that succeeded."
	case MetricTestErrors:
		return "Number of hypothesis test computations rejected with an error."
	case MetricTestDuration:
		return "Time spent computing a single hypothesis test."
	case MetricCacheHits:
		return "Quantile lookups served from the cache."
	case MetricCacheMisses:
		return "Quantile lookups computed by the distribution provider."
	case MetricCacheSize:
		return "Number of quantiles currently cached."
	case MetricBatchLines:
		return "Batch request lines processed."
	case MetricHTTPRequests:
		return "HTTP requests served."
	case MetricHTTPErrors:
		return "HTTP requests answered with an error status."
	}
	return name
}

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
