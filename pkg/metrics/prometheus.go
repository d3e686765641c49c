// Package metrics provides Prometheus metrics for the gacha service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the gacha service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	powerBuckets     []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Draw Metrics
	drawsTotal     *prometheus.CounterVec
	gradeFallbacks *prometheus.CounterVec
	teamPower      prometheus.Histogram
	drawLatency    prometheus.Histogram

	// Battle Metrics
	battlesTotal *prometheus.CounterVec

	// Dataset Metrics
	datasetCards   prometheus.Gauge
	datasetPlayers prometheus.Gauge
	datasetReloads *prometheus.CounterVec

	// Collection Store Metrics
	collectionOps      *prometheus.CounterVec
	collectionsTracked prometheus.Gauge
	collectionCache    *prometheus.CounterVec
	storeLatency       *prometheus.HistogramVec

	// HTTP Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gacha",
		subsystem:        "worlds",
		histogramBuckets: prometheus.DefBuckets,
		powerBuckets:     prometheus.LinearBuckets(100, 50, 12),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.drawsTotal = m.counterVec("draws_total", "Cards delivered by draws, by position and grade", "position", "grade")
	m.gradeFallbacks = m.counterVec("grade_fallbacks_total", "Slots whose rolled grade had no cards, by rolled and delivered grade", "rolled", "delivered")
	m.teamPower = m.histogram("team_power", "Sum of card scores of drawn teams", m.powerBuckets)
	m.drawLatency = m.histogram("draw_latency_milliseconds", "Time to draw one team in milliseconds", m.histogramBuckets)

	m.battlesTotal = m.counterVec("battles_total", "Resolved battles by winning side", "winner")

	m.datasetCards = m.gauge("dataset_cards", "Cards in the loaded dataset")
	m.datasetPlayers = m.gauge("dataset_players", "Distinct players in the loaded dataset")
	m.datasetReloads = m.counterVec("dataset_reloads_total", "Dataset loads by outcome", "status")

	m.collectionOps = m.counterVec("collection_operations_total", "Collection store operations by outcome", "op", "status")
	m.collectionsTracked = m.gauge("collections_tracked", "Collectors held by the store")
	m.collectionCache = m.counterVec("collection_cache_lookups_total", "Collection cache lookups by result", "result")
	m.storeLatency = m.histogramVec("store_latency_milliseconds", "Collection store latency in milliseconds", "op")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.rateLimited = m.counterVec("rate_limited_total", "Requests rejected by the rate limiter", "endpoint")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordDraw counts one delivered card.
func RecordDraw(position, grade string) {
	globalManager.drawsTotal.WithLabelValues(position, grade).Inc()
}

// RecordGradeFallback counts a slot served from a different grade than rolled.
func RecordGradeFallback(rolled, delivered string) {
	globalManager.gradeFallbacks.WithLabelValues(rolled, delivered).Inc()
}

// ObserveTeamPower records a drawn team's power.
func ObserveTeamPower(power int) {
	globalManager.teamPower.Observe(float64(power))
}

// RecordDrawLatency records draw latency in milliseconds.
func RecordDrawLatency(latencyMs float64) {
	globalManager.drawLatency.Observe(latencyMs)
}

// RecordBattle counts a resolved battle.
func RecordBattle(winner string) {
	globalManager.battlesTotal.WithLabelValues(winner).Inc()
}

// UpdateDatasetSize sets the loaded dataset's card and player counts.
func UpdateDatasetSize(cards, players int) {
	globalManager.datasetCards.Set(float64(cards))
	globalManager.datasetPlayers.Set(float64(players))
}

// RecordDatasetReload counts a dataset load attempt.
func RecordDatasetReload(status string) {
	globalManager.datasetReloads.WithLabelValues(status).Inc()
}

// RecordCollectionOp counts a store operation.
func RecordCollectionOp(op, status string) {
	globalManager.collectionOps.WithLabelValues(op, status).Inc()
}

// UpdateCollectionsTracked sets the number of stored collectors.
func UpdateCollectionsTracked(count int) {
	globalManager.collectionsTracked.Set(float64(count))
}

// RecordCollectionCache counts a cache lookup; result is "hit" or "miss".
func RecordCollectionCache(result string) {
	globalManager.collectionCache.WithLabelValues(result).Inc()
}

// RecordStoreLatency records store latency in milliseconds.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
