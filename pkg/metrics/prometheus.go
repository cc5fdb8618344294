// Package metrics provides Prometheus metrics for the birth chart service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	chartsComputed prometheus.Counter
	pipelineErrors *prometheus.CounterVec

	// Provider metrics
	providerLatency *prometheus.HistogramVec
	providerErrors  *prometheus.CounterVec

	// Resolution quality metrics
	geocodeFallbackDepth prometheus.Histogram
	houseFallbacks       prometheus.Counter

	// Notification metrics
	tagsApplied prometheus.Counter
	tagsSkipped prometheus.Counter
	tagsFailed  prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "birthchart",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.chartsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "charts_computed_total",
		Help:      "Total number of placement results successfully computed",
	})

	m.pipelineErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Total number of pipeline failures by stage",
		},
		[]string{"stage"},
	)

	m.providerLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_latency_milliseconds",
			Help:      "Latency of external provider calls in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"provider"},
	)

	m.providerErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_errors_total",
			Help:      "Total number of failed external provider calls",
		},
		[]string{"provider"},
	)

	m.geocodeFallbackDepth = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "geocode_fallback_depth",
		Help:      "Which geocode candidate resolved the birthplace (1 = verbatim input)",
		Buckets:   []float64{1, 2, 3},
	})

	m.houseFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "house_fallbacks_total",
		Help:      "Total number of degrees that matched no house segment (degraded to house 1)",
	})

	m.tagsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notification_tags_applied_total",
		Help:      "Total number of contact tags applied",
	})

	m.tagsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notification_tags_skipped_total",
		Help:      "Total number of tag keys with no configured tag id",
	})

	m.tagsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notification_tags_failed_total",
		Help:      "Total number of tag applications that failed (non-fatal)",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordChartComputed increments the computed charts counter.
func RecordChartComputed() {
	globalManager.chartsComputed.Inc()
}

// RecordPipelineError increments the pipeline failure counter for a stage.
func RecordPipelineError(stage string) {
	globalManager.pipelineErrors.WithLabelValues(stage).Inc()
}

// RecordProviderLatency records an external provider call latency.
func RecordProviderLatency(provider string, latencyMs float64) {
	globalManager.providerLatency.WithLabelValues(provider).Observe(latencyMs)
}

// RecordProviderError increments the provider failure counter.
func RecordProviderError(provider string) {
	globalManager.providerErrors.WithLabelValues(provider).Inc()
}

// RecordGeocodeFallbackDepth records which candidate resolved a place.
func RecordGeocodeFallbackDepth(depth int) {
	globalManager.geocodeFallbackDepth.Observe(float64(depth))
}

// RecordHouseFallback increments the degraded house assignment counter.
func RecordHouseFallback() {
	globalManager.houseFallbacks.Inc()
}

// RecordTagApplied increments the applied tags counter.
func RecordTagApplied() {
	globalManager.tagsApplied.Inc()
}

// RecordTagSkipped increments the skipped tags counter.
func RecordTagSkipped() {
	globalManager.tagsSkipped.Inc()
}

// RecordTagFailed increments the failed tags counter.
func RecordTagFailed() {
	globalManager.tagsFailed.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
