package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// GMPE selection pipeline.
type Metrics struct {
	OriginsConsumed     prometheus.Counter
	AssignmentsProduced prometheus.Counter
	EvaluationErrors    *prometheus.CounterVec // labels: reason={malformed,no_region,zero_weight,other}
	PipelineRunning     prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// External lookup metrics.
	ClassifyRequests *prometheus.CounterVec // labels: outcome={success,error}
	ClassifyCache    *prometheus.CounterVec // labels: result={hit,miss}
	ClassifyDuration prometheus.Histogram
	LayerLookups     *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		OriginsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gmpe_select",
			Name:      "origins_consumed_total",
			Help:      "Total origin events read from the source topic.",
		}),
		AssignmentsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gmpe_select",
			Name:      "assignments_produced_total",
			Help:      "Total weighted GMPE assignments written to the sink topic.",
		}),
		EvaluationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gmpe_select",
			Name:      "evaluation_errors_total",
			Help:      "Per-event evaluation failures by reason.",
		}, []string{"reason"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gmpe_select",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gmpe_select",
			Name:      "batch_size",
			Help:      "Number of origin events per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gmpe_select",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-evaluate-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ClassifyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gmpe_select",
			Name:      "classify_requests_total",
			Help:      "Tectonic classification service requests by outcome.",
		}, []string{"outcome"}),
		ClassifyCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gmpe_select",
			Name:      "classify_cache_total",
			Help:      "Classification cache lookups by result.",
		}, []string{"result"}),
		ClassifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gmpe_select",
			Name:      "classify_duration_seconds",
			Help:      "Classification service request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		LayerLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gmpe_select",
			Name:      "layer_lookups_total",
			Help:      "Geographic layer distance lookups by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.OriginsConsumed,
		m.AssignmentsProduced,
		m.EvaluationErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ClassifyRequests,
		m.ClassifyCache,
		m.ClassifyDuration,
		m.LayerLookups,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		OriginsConsumed:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gmpe_select", Name: "origins_consumed_total"}),
		AssignmentsProduced:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "gmpe_select", Name: "assignments_produced_total"}),
		EvaluationErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gmpe_select", Name: "evaluation_errors_total"}, []string{"reason"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "gmpe_select", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gmpe_select", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gmpe_select", Name: "batch_processing_duration_seconds"}),
		ClassifyRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gmpe_select", Name: "classify_requests_total"}, []string{"outcome"}),
		ClassifyCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gmpe_select", Name: "classify_cache_total"}, []string{"result"}),
		ClassifyDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "gmpe_select", Name: "classify_duration_seconds"}),
		LayerLookups:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "gmpe_select", Name: "layer_lookups_total"}, []string{"outcome"}),
	}
}
