package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the chart service.
type Metrics struct {
	HoverEvents     *prometheus.CounterVec   // labels: event={enter,leave}
	RenderDuration  *prometheus.HistogramVec // labels: format={svg,png}
	RenderErrors    prometheus.Counter
	Snapshots       *prometheus.CounterVec // labels: outcome={success,error}
	DatasetRecords  prometheus.Gauge
	DatasetFallback prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HoverEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lightspeed",
			Name:      "hover_events_total",
			Help:      "Hover events dispatched to the state store.",
		}, []string{"event"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lightspeed",
			Name:      "render_duration_seconds",
			Help:      "Duration of a full chart render.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"format"}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lightspeed",
			Name:      "render_errors_total",
			Help:      "Chart renders that failed.",
		}),
		Snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lightspeed",
			Name:      "snapshots_total",
			Help:      "Snapshot publications by outcome.",
		}, []string{"outcome"}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lightspeed",
			Name:      "dataset_records",
			Help:      "Number of measurements loaded at startup.",
		}),
		DatasetFallback: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lightspeed",
			Name:      "dataset_fallback",
			Help:      "1 when the embedded table failed to decode and the placeholder row is in use.",
		}),
	}

	reg.MustRegister(
		m.HoverEvents,
		m.RenderDuration,
		m.RenderErrors,
		m.Snapshots,
		m.DatasetRecords,
		m.DatasetFallback,
	)

	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry.
func NewMetricsForTesting() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
