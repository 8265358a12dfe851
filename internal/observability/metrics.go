package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the conversion engine.
type Metrics struct {
	// Conversion metrics.
	Conversions *prometheus.CounterVec // labels: category={length,temperature,bmi,currency}, outcome={ok,invalid_input,unknown_unit,not_loaded,precondition}
	ParityRates *prometheus.CounterVec // labels: currency

	// Rate provider metrics.
	RateFetches       *prometheus.CounterVec // labels: outcome={success,error,skipped}
	RateFetchDuration prometheus.Histogram
	RatesLoaded       prometheus.Gauge
	RatesOffline      prometheus.Gauge

	// Snapshot publishing metrics.
	SnapshotsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all engine metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Conversions,
		m.ParityRates,
		m.RateFetches,
		m.RateFetchDuration,
		m.RatesLoaded,
		m.RatesOffline,
		m.SnapshotsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utility_hub",
			Name:      "conversions_total",
			Help:      "Conversion requests by category and outcome.",
		}, []string{"category", "outcome"}),
		ParityRates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utility_hub",
			Name:      "currency_parity_substitutions_total",
			Help:      "Currency codes missing from the rate table and converted at parity with USD.",
		}, []string{"currency"}),
		RateFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utility_hub",
			Name:      "rate_fetches_total",
			Help:      "Remote exchange-rate fetch attempts by outcome.",
		}, []string{"outcome"}),
		RateFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "utility_hub",
			Name:      "rate_fetch_duration_seconds",
			Help:      "Exchange-rate API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RatesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "utility_hub",
			Name:      "rates_loaded",
			Help:      "1 once a rate table has been published, 0 before.",
		}),
		RatesOffline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "utility_hub",
			Name:      "rates_offline",
			Help:      "1 when the published rate table is the offline fallback.",
		}),
		SnapshotsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utility_hub",
			Name:      "rate_snapshots_published_total",
			Help:      "Rate snapshots written to the external sink by outcome.",
		}, []string{"outcome"}),
	}
}
