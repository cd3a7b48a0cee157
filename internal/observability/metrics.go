package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the assessment
// pipeline.
type Metrics struct {
	AssessmentsTotal    *prometheus.CounterVec // label: band
	ScoringDuration     prometheus.Histogram
	PersistenceFailures prometheus.Counter
	HistoryFallbacks    prometheus.Counter
	SurrogateActive     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AssessmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "assessments_total",
			Help:      "Completed assessments by risk band.",
		}, []string{"band"}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "floodwatch",
			Name:      "scoring_duration_seconds",
			Help:      "Duration of one scoring call.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "persistence_failures_total",
			Help:      "Best-effort assessment persistence attempts that failed.",
		}),
		HistoryFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "history_fallbacks_total",
			Help:      "History reads served from the in-memory ledger instead of the store.",
		}),
		SurrogateActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodwatch",
			Name:      "surrogate_active",
			Help:      "1 when the heuristic surrogate backend is in use, 0 when the trained model is loaded.",
		}),
	}

	prometheus.MustRegister(
		m.AssessmentsTotal,
		m.ScoringDuration,
		m.PersistenceFailures,
		m.HistoryFallbacks,
		m.SurrogateActive,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AssessmentsTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "floodwatch", Name: "assessments_total"}, []string{"band"}),
		ScoringDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "floodwatch", Name: "scoring_duration_seconds"}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "floodwatch", Name: "persistence_failures_total"}),
		HistoryFallbacks:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "floodwatch", Name: "history_fallbacks_total"}),
		SurrogateActive:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "floodwatch", Name: "surrogate_active"}),
	}
}
