package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
)

const namespace = "revenue_forecast"

// RunMetrics records one forecast run and writes it in the node exporter
// textfile format.
type RunMetrics struct {
	registry  *prometheus.Registry
	path      string
	duration  prometheus.Histogram
	rows      *prometheus.GaugeVec
	runs      *prometheus.CounterVec
	predicted prometheus.Gauge
	lastRun   prometheus.Gauge
}

// NewRunMetrics registers the run metrics on a private registry. Flush writes
// them to path.
func NewRunMetrics(path string) *RunMetrics {
	registry := prometheus.NewRegistry()

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of forecast runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rows",
		Help:      "Rows fed to the model, by kind.",
	}, []string{"kind"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Forecast runs by data source and outcome.",
	}, []string{"source", "outcome"})
	predicted := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "predicted_revenue",
		Help:      "Sum of predicted revenue over the forecast horizon.",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last forecast run.",
	})

	registry.MustRegister(duration, rows, runs, predicted, lastRun)

	return &RunMetrics{
		registry:  registry,
		path:      path,
		duration:  duration,
		rows:      rows,
		runs:      runs,
		predicted: predicted,
		lastRun:   lastRun,
	}
}

// ObserveRun implements repository.MetricsRepository.
func (m *RunMetrics) ObserveRun(summary entity.RunSummary, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(duration.Seconds())
	m.rows.WithLabelValues("real").Set(float64(summary.RealMonths))
	m.rows.WithLabelValues("synthetic").Set(float64(summary.SyntheticRows))
	m.runs.WithLabelValues(normalizeLabel(string(summary.Source)), normalizeLabel(outcome)).Inc()
	m.predicted.Set(summary.PredictedTotal)
	if !summary.GeneratedAt.IsZero() {
		m.lastRun.Set(float64(summary.GeneratedAt.Unix()))
	}
}

// Flush implements repository.MetricsRepository.
func (m *RunMetrics) Flush() error {
	if m == nil || m.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", m.path, err)
	}
	return nil
}

// Gatherer exposes the registry, mostly for tests.
func (m *RunMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
