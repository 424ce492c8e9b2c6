// Package metrics exposes the gateway's counters and histograms in the
// Prometheus text format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const runtimeMetricsPrefix = "ai_search_"

//nolint:gochecknoglobals // Bucket layouts are constant configuration
var (
	requestDurationBuckets = []float64{1, 5, 15, 50, 100, 200, 500, 1000, 2000, 5000}
	cacheDurationBuckets   = []float64{1, 5, 10, 25, 50, 100, 250, 500}
)

// Prometheus implements domain.Metrics on a private registry.
type Prometheus struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheErrors     prometheus.Counter
	apiErrors       *prometheus.CounterVec
	cacheDuration   *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them, together with
// Go runtime and process collectors, on a fresh registry.
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()

	p := &Prometheus{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: requestDurationBuckets,
		}, []string{"method", "route", "status_code"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		}),
		cacheErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache errors",
		}),
		apiErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of API errors",
		}, []string{"error_type"}),
		cacheDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "redis_operation_duration_ms",
			Help:    "Duration of cache store operations in ms",
			Buckets: cacheDurationBuckets,
		}, []string{"operation"}),
	}

	registry.MustRegister(
		p.requestDuration,
		p.requestTotal,
		p.cacheHits,
		p.cacheMisses,
		p.cacheErrors,
		p.apiErrors,
		p.cacheDuration,
	)

	prefixed := prometheus.WrapRegistererWithPrefix(runtimeMetricsPrefix, registry)
	prefixed.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return p
}

// Registry returns the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// CacheHit counts a cache hit.
func (p *Prometheus) CacheHit() {
	p.cacheHits.Inc()
}

// CacheMiss counts a cache miss.
func (p *Prometheus) CacheMiss() {
	p.cacheMisses.Inc()
}

// CacheError counts a failed or skipped cache operation.
func (p *Prometheus) CacheError() {
	p.cacheErrors.Inc()
}

// APIError counts a failed request by error type.
func (p *Prometheus) APIError(errorType string) {
	p.apiErrors.WithLabelValues(errorType).Inc()
}

// ObserveCacheOperation records the latency of one cache round trip.
func (p *Prometheus) ObserveCacheOperation(operation string, duration time.Duration) {
	p.cacheDuration.WithLabelValues(operation).Observe(milliseconds(duration))
}

// ObserveRequest records one served HTTP request.
func (p *Prometheus) ObserveRequest(method, route string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	p.requestDuration.WithLabelValues(method, route, status).Observe(milliseconds(duration))
	p.requestTotal.WithLabelValues(method, route, status).Inc()
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
