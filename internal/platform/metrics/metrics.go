package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Domain cache metrics
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheInvalidations prometheus.Counter
	CacheSize          prometheus.Gauge

	// Resolution metrics
	TenantResolutions  *prometheus.CounterVec
	ContentResolutions *prometheus.CounterVec
	StoreErrors        prometheus.Counter
	DomainAnomalies    prometheus.Counter

	EndpointLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "facet_domain_cache_hits_total",
			Help: "Total number of domain cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "facet_domain_cache_misses_total",
			Help: "Total number of domain cache misses, including expired entries",
		}),
		CacheInvalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "facet_domain_cache_invalidations_total",
			Help: "Total number of domain cache entries invalidated",
		}),
		CacheSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "facet_domain_cache_size",
			Help: "Current number of entries in the domain cache",
		}),
		TenantResolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "facet_tenant_resolutions_total",
			Help: "Total number of tenant resolutions, labeled by source",
		}, []string{"source"}),
		ContentResolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "facet_content_resolutions_total",
			Help: "Total number of content fallback resolutions, labeled by tier",
		}, []string{"source"}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "facet_content_store_errors_total",
			Help: "Total number of content store lookup failures",
		}),
		DomainAnomalies: promauto.NewCounter(prometheus.CounterOpts{
			Name: "facet_domain_anomalies_total",
			Help: "Total number of data anomalies observed during resolution",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "facet_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

func (m *Metrics) IncrementCacheHit() {
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementCacheMiss() {
	m.CacheMisses.Inc()
}

// IncrementCacheInvalidations adds count invalidated entries.
func (m *Metrics) IncrementCacheInvalidations(count int) {
	m.CacheInvalidations.Add(float64(count))
}

// SetCacheSize records the current entry count.
func (m *Metrics) SetCacheSize(size int) {
	m.CacheSize.Set(float64(size))
}

// IncrementTenantResolution counts a tenant resolution by source ("domain", "path", "none").
func (m *Metrics) IncrementTenantResolution(source string) {
	m.TenantResolutions.WithLabelValues(source).Inc()
}

// IncrementContentResolution counts a content resolution by tier ("tenant", "baseline", "default", "none").
func (m *Metrics) IncrementContentResolution(source string) {
	m.ContentResolutions.WithLabelValues(source).Inc()
}

func (m *Metrics) IncrementStoreErrors() {
	m.StoreErrors.Inc()
}

func (m *Metrics) IncrementDomainAnomalies() {
	m.DomainAnomalies.Inc()
}

// ObserveEndpointLatency records the latency for a given endpoint
func (m *Metrics) ObserveEndpointLatency(endpoint string, start time.Time) {
	m.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
