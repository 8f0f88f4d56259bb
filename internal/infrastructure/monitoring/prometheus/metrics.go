// Package prometheus registers and exposes the service's metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reqtrack"

// Metrics holds every collector the service registers.  It implements
// the metrics interfaces consumed by the deadline engine and the holiday
// calendar.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	computationsTotal   *prometheus.CounterVec
	computationDuration prometheus.Histogram

	holidayCacheHits          prometheus.Counter
	holidayCacheMisses        prometheus.Counter
	holidayCacheInvalidations prometheus.Counter
}

// New builds a Metrics set backed by its own registry, with the standard
// process and Go runtime collectors attached.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		computationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deadline_computations_total",
			Help:      "Deadline computations by outcome.",
		}, []string{"outcome"}),
		computationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deadline_computation_duration_seconds",
			Help:      "Deadline computation duration.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		holidayCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holiday_cache_hits_total",
			Help:      "Holiday cache hits.",
		}),
		holidayCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holiday_cache_misses_total",
			Help:      "Holiday cache misses.",
		}),
		holidayCacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holiday_cache_invalidations_total",
			Help:      "Holiday cache invalidations.",
		}),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.computationsTotal,
		m.computationDuration,
		m.holidayCacheHits,
		m.holidayCacheMisses,
		m.holidayCacheInvalidations,
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveComputation records one deadline computation.
func (m *Metrics) ObserveComputation(outcome string, elapsed time.Duration) {
	m.computationsTotal.WithLabelValues(outcome).Inc()
	m.computationDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) HolidayCacheHit()          { m.holidayCacheHits.Inc() }
func (m *Metrics) HolidayCacheMiss()         { m.holidayCacheMisses.Inc() }
func (m *Metrics) HolidayCacheInvalidation() { m.holidayCacheInvalidations.Inc() }
