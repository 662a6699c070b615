// Package metrics owns the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "browser_memory"

// Metrics is safe to use through a nil pointer; every recorder is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	eventsIngested   *prometheus.CounterVec
	memoriesCreated  prometheus.Counter
	derivation       *prometheus.HistogramVec
	viewCache        *prometheus.CounterVec
	rateLimitRejects prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		eventsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_ingested_total",
			Help:      "Events received by the ingest endpoints, by outcome.",
		}, []string{"outcome"}),
		memoriesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memories_created_total",
			Help:      "Memories persisted by summarize runs.",
		}),
		derivation: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "derivation_duration_seconds",
			Help:      "Time spent deriving a view from an event batch.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"view"}),
		viewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_requests_total",
			Help:      "Derived view cache lookups, by view and result.",
		}, []string{"view", "result"}),
		rateLimitRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_rate_limited_total",
			Help:      "Ingest requests rejected by the rate limiter.",
		}),
	}

	registry.MustRegister(m.eventsIngested, m.memoriesCreated, m.derivation, m.viewCache, m.rateLimitRejects)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) EventsIngested(inserted, skipped int) {
	if m == nil {
		return
	}
	m.eventsIngested.WithLabelValues("inserted").Add(float64(inserted))
	m.eventsIngested.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *Metrics) MemoriesCreated(n int) {
	if m == nil {
		return
	}
	m.memoriesCreated.Add(float64(n))
}

// ObserveDerivation records the time since start for the named view.
func (m *Metrics) ObserveDerivation(view string, start time.Time) {
	if m == nil {
		return
	}
	m.derivation.WithLabelValues(view).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ViewCache(view string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.viewCache.WithLabelValues(view, result).Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimitRejects.Inc()
}
