package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/promoflow/threshold-service/internal/domain/service"
)

// PrometheusMetrics implements service.Metrics on the default registry.
type PrometheusMetrics struct {
	mutations     *prometheus.CounterVec
	clamped       *prometheus.CounterVec
	outOfBounds   *prometheus.CounterVec
	imports       *prometheus.CounterVec
	importSize    *prometheus.HistogramVec
	suggestions   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

var _ service.Metrics = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics registers the service's metric vectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threshold_mutations_total",
			Help: "Threshold mutations by category, adjustment type and result",
		}, []string{"category", "adjustment_type", "result"}),
		clamped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threshold_clamped_adjustments_total",
			Help: "Automatic adjustments clamped to a bound",
		}, []string{"category"}),
		outOfBounds: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threshold_out_of_bounds_rejections_total",
			Help: "Manual updates rejected for violating bounds",
		}, []string{"category"}),
		imports: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threshold_imports_total",
			Help: "Bulk import attempts by outcome",
		}, []string{"success"}),
		importSize: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "threshold_import_entries",
			Help:    "Entry counts of bulk import documents",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"entity_kind"}),
		suggestions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "threshold_suggestions_total",
			Help: "Generated suggestions by confidence bucket",
		}, []string{"bucket"}),
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path and status",
		}, []string{"method", "path", "status"}),
		httpDurations: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

func (m *PrometheusMetrics) RecordThresholdMutation(category, adjustmentType, result string) {
	m.mutations.WithLabelValues(category, adjustmentType, result).Inc()
}

func (m *PrometheusMetrics) RecordClampedAdjustment(category string) {
	m.clamped.WithLabelValues(category).Inc()
}

func (m *PrometheusMetrics) RecordOutOfBoundsRejection(category string) {
	m.outOfBounds.WithLabelValues(category).Inc()
}

func (m *PrometheusMetrics) RecordImport(thresholds, configurations int, success bool) {
	m.imports.WithLabelValues(strconv.FormatBool(success)).Inc()
	m.importSize.WithLabelValues("threshold").Observe(float64(thresholds))
	m.importSize.WithLabelValues("configuration").Observe(float64(configurations))
}

func (m *PrometheusMetrics) RecordSuggestionBucket(bucket string) {
	m.suggestions.WithLabelValues(bucket).Inc()
}

func (m *PrometheusMetrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDurations.WithLabelValues(method, path).Observe(duration.Seconds())
}
