package match

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRankingsTotal      = "match_rankings_total"
	MetricScoringErrorsTotal = "match_scoring_errors_total"
	MetricBatchDuration      = "match_batch_duration_seconds"
	MetricLastBatchPoolSize  = "match_last_batch_pool_size"
	MetricLastBatchResults   = "match_last_batch_result_size"
)

// Metrics contains Prometheus metrics for the scoring engine.
// All operations are thread-safe.
type Metrics struct {
	rankingsTotal  *prometheus.CounterVec
	scoringErrors  *prometheus.CounterVec
	batchDuration  *prometheus.HistogramVec
	lastPoolSize   *prometheus.GaugeVec
	lastResultSize *prometheus.GaugeVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		rankingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankingsTotal,
				Help: "Total number of ranking batches by direction",
			},
			[]string{"direction"},
		),
		scoringErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricScoringErrorsTotal,
				Help: "Total number of per-record scoring failures by reason",
			},
			[]string{"reason"},
		),
		batchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricBatchDuration,
				Help:    "Histogram of ranking batch duration in seconds by direction",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
			},
			[]string{"direction"},
		),
		lastPoolSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricLastBatchPoolSize,
				Help: "Pool size of the most recent ranking batch by direction",
			},
			[]string{"direction"},
		),
		lastResultSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricLastBatchResults,
				Help: "Result count of the most recent ranking batch by direction",
			},
			[]string{"direction"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.rankingsTotal,
		m.scoringErrors,
		m.batchDuration,
		m.lastPoolSize,
		m.lastResultSize,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncRankings increments the ranking batch counter for a direction.
func (m *Metrics) IncRankings(direction string) {
	m.rankingsTotal.WithLabelValues(direction).Inc()
}

// IncScoringErrors increments the per-record failure counter for a reason.
func (m *Metrics) IncScoringErrors(reason string) {
	m.scoringErrors.WithLabelValues(reason).Inc()
}

// ObserveBatchDuration records a ranking batch duration sample.
func (m *Metrics) ObserveBatchDuration(direction string, seconds float64) {
	m.batchDuration.WithLabelValues(direction).Observe(seconds)
}

// SetLastBatchSize sets the most recent pool size gauge.
func (m *Metrics) SetLastBatchSize(direction string, size float64) {
	m.lastPoolSize.WithLabelValues(direction).Set(size)
}

// SetLastResultSize sets the most recent result count gauge.
func (m *Metrics) SetLastResultSize(direction string, size float64) {
	m.lastResultSize.WithLabelValues(direction).Set(size)
}
