package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names understood by PrometheusMetrics.
const (
	MetricReportGenerated    = "report.generated"
	MetricReportGeneration   = "report.generation"
	MetricAPIError           = "api.error"
	MetricAuthEvents         = "auth.event"
	MetricExportFilesSwept   = "export.files_swept"
	MetricExportFilesPending = "export.files_pending"
)

type PrometheusMetrics struct {
	reportGenerated    *prometheus.CounterVec
	reportDuration     *prometheus.HistogramVec
	apiErrors          *prometheus.CounterVec
	authEvents         *prometheus.CounterVec
	exportFilesSwept   prometheus.Counter
	exportFilesPending prometheus.Gauge
}

// NewPrometheusMetrics registers the collectors on the default registry.
func NewPrometheusMetrics() MetricsRecorderInterface {
	return NewPrometheusMetricsWith(prometheus.DefaultRegisterer)
}

func NewPrometheusMetricsWith(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		reportGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_generated_total",
				Help: "Total number of report generation attempts",
			},
			[]string{"report_type", "status"},
		),
		reportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "report_generation_duration_milliseconds",
				Help:    "Report aggregation, rendering and storage duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
			[]string{"report_type"},
		),
		apiErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_errors_total",
				Help: "Total number of error responses by error code",
			},
			[]string{"code", "status_code"},
		),
		authEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"action", "outcome"},
		),
		exportFilesSwept: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "export_files_swept_total",
				Help: "Total number of expired report files removed by the sweeper",
			},
		),
		exportFilesPending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "export_files_pending",
				Help: "Report files currently waiting for scheduled deletion",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricReportGenerated:
		m.reportGenerated.WithLabelValues(tags["report_type"], tags["status"]).Inc()
	case MetricAPIError:
		if code := tags["code"]; code != "" {
			m.apiErrors.WithLabelValues(code, tags["status_code"]).Inc()
		}
	case MetricAuthEvents:
		if action := tags["action"]; action != "" {
			m.authEvents.WithLabelValues(action, tags["outcome"]).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration, tags map[string]string) {
	switch name {
	case MetricReportGeneration:
		m.reportDuration.WithLabelValues(tags["report_type"]).Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricExportFilesSwept:
		if value > 0 {
			m.exportFilesSwept.Add(value)
		}
	case MetricExportFilesPending:
		m.exportFilesPending.Set(value)
	}
}
