package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "njstats"

// Metrics holds the Prometheus counters, histograms, and gauges for seeding and serving.
type Metrics struct {
	// Seed metrics.
	SeedRows         *prometheus.GaugeVec   // labels: relation={schools,test_scores,income,hospitals}
	SeedDuration     prometheus.Histogram
	SeedFailures     *prometheus.CounterVec // labels: stage={extract,normalize,store}
	SeedNotifyErrors prometheus.Counter
	Seeded           prometheus.Gauge

	// HTTP metrics.
	HTTPRequests *prometheus.CounterVec   // labels: route, status
	HTTPDuration *prometheus.HistogramVec // labels: route
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewUnregisteredMetrics()
	prometheus.MustRegister(
		m.SeedRows,
		m.SeedDuration,
		m.SeedFailures,
		m.SeedNotifyErrors,
		m.Seeded,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics with no registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}

// NewUnregisteredMetrics creates Metrics that no registry exports, for
// short-lived commands without a /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		SeedRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seed_rows",
			Help:      "Rows written to each relation by the last successful seed.",
		}, []string{"relation"}),
		SeedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "seed_duration_seconds",
			Help:      "Duration of a complete extract-normalize-store seed.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SeedFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_failures_total",
			Help:      "Seed failures by stage.",
		}, []string{"stage"}),
		SeedNotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_notify_errors_total",
			Help:      "Seed reports that could not be published.",
		}),
		Seeded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seeded",
			Help:      "1 once the store holds a complete seed, 0 before.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
	}
}
