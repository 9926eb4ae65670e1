package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics_ReportCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetricsWith(reg).(*PrometheusMetrics)

	m.IncrementCounter(MetricReportGenerated, map[string]string{"report_type": "monthly", "status": "success"})
	m.IncrementCounter(MetricReportGenerated, map[string]string{"report_type": "monthly", "status": "success"})
	m.IncrementCounter(MetricReportGenerated, map[string]string{"report_type": "yearly", "status": "failed"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reportGenerated.WithLabelValues("monthly", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportGenerated.WithLabelValues("yearly", "failed")))
}

func TestPrometheusMetrics_DurationHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetricsWith(reg)

	m.RecordProcessingTime(MetricReportGeneration, 25*time.Millisecond, map[string]string{"report_type": "yearly"})

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "report_generation_duration_milliseconds"))
}

func TestPrometheusMetrics_APIErrorsRequireCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetricsWith(reg).(*PrometheusMetrics)

	m.IncrementCounter(MetricAPIError, map[string]string{"status_code": "500"})
	m.IncrementCounter(MetricAPIError, map[string]string{"code": "SYSTEM_001", "status_code": "500"})

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "api_errors_total"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiErrors.WithLabelValues("SYSTEM_001", "500")))
}

func TestPrometheusMetrics_ExportGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetricsWith(reg).(*PrometheusMetrics)

	m.RecordGauge(MetricExportFilesSwept, 3, nil)
	m.RecordGauge(MetricExportFilesSwept, 0, nil)
	m.RecordGauge(MetricExportFilesPending, 4, nil)
	m.RecordGauge("unknown", 9, nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.exportFilesSwept))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.exportFilesPending))
}

func TestPrometheusMetrics_AuthEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetricsWith(reg).(*PrometheusMetrics)

	m.IncrementCounter(MetricAuthEvents, map[string]string{"action": "login", "outcome": "success"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.authEvents.WithLabelValues("login", "success")))
}
