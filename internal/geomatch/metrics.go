package geomatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricSearchesTotal        = "geomatch_searches_total"
	MetricSearchDuration       = "geomatch_search_duration_seconds"
	MetricLastResultSize       = "geomatch_last_result_size"
	MetricCoverageCacheTotal   = "geomatch_coverage_cache_total"
	MetricLocationUpdatesTotal = "geomatch_location_updates_total"
)

// Metrics contains Prometheus metrics for geospatial search operations.
// All operations are thread-safe.
type Metrics struct {
	searchesTotal   *prometheus.CounterVec
	searchDuration  prometheus.Histogram
	lastResultSize  prometheus.Gauge
	coverageCache   *prometheus.CounterVec
	locationUpdates prometheus.Counter
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSearchesTotal,
				Help: "Total number of proximity searches by outcome",
			},
			[]string{"outcome"},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricSearchDuration,
				Help:    "Histogram of proximity search duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),
		lastResultSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricLastResultSize,
				Help: "Number of candidates returned by the most recent proximity search",
			},
		),
		coverageCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricCoverageCacheTotal,
				Help: "Coverage cache lookups by result (hit or miss)",
			},
			[]string{"result"},
		),
		locationUpdates: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricLocationUpdatesTotal,
				Help: "Total number of candidate location updates",
			},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.searchesTotal,
		m.searchDuration,
		m.lastResultSize,
		m.coverageCache,
		m.locationUpdates,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncSearches increments the search counter for an outcome.
func (m *Metrics) IncSearches(outcome string) {
	m.searchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveSearchDuration records a search duration sample.
func (m *Metrics) ObserveSearchDuration(seconds float64) {
	m.searchDuration.Observe(seconds)
}

// SetLastResultSize records the size of the most recent result set.
func (m *Metrics) SetLastResultSize(n float64) {
	m.lastResultSize.Set(n)
}

// IncCoverageCache increments the cache counter for a result.
func (m *Metrics) IncCoverageCache(result string) {
	m.coverageCache.WithLabelValues(result).Inc()
}

// IncLocationUpdates increments the location update counter.
func (m *Metrics) IncLocationUpdates() {
	m.locationUpdates.Inc()
}
