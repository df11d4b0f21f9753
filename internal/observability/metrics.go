package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// dashboard service.
type Metrics struct {
	DatasetLoaded      prometheus.Gauge
	DatasetRows        prometheus.Gauge
	DatasetRowsSkipped prometheus.Gauge
	ModelLoaded        prometheus.Gauge

	HTTPRequests *prometheus.CounterVec // labels: route, status

	PredictionsTotal   *prometheus.CounterVec // labels: outcome={scored,error}
	PredictionDuration prometheus.Histogram

	AggregationDuration *prometheus.HistogramVec // labels: series

	AuditPublished *prometheus.CounterVec // labels: result={ok,error}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetLoaded,
		m.DatasetRows,
		m.DatasetRowsSkipped,
		m.ModelLoaded,
		m.HTTPRequests,
		m.PredictionsTotal,
		m.PredictionDuration,
		m.AggregationDuration,
		m.AuditPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dengue_api",
			Name:      "dataset_loaded",
			Help:      "1 when the case dataset loaded at startup, 0 when running degraded.",
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dengue_api",
			Name:      "dataset_rows",
			Help:      "Number of case records loaded into memory.",
		}),
		DatasetRowsSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dengue_api",
			Name:      "dataset_rows_skipped",
			Help:      "Number of malformed CSV rows skipped during load.",
		}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dengue_api",
			Name:      "model_loaded",
			Help:      "1 when the prediction artifact loaded at startup, 0 otherwise.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dengue_api",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dengue_api",
			Name:      "predictions_total",
			Help:      "Prediction requests by outcome.",
		}, []string{"outcome"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dengue_api",
			Name:      "prediction_duration_seconds",
			Help:      "Duration of feature assembly plus model scoring.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		AggregationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dengue_api",
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of aggregate series computation.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"series"}),
		AuditPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dengue_api",
			Name:      "audit_published_total",
			Help:      "Prediction audit events by publish result.",
		}, []string{"result"}),
	}
}
