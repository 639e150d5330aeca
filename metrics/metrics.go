// Package metrics exposes Prometheus instrumentation for the dashboard.
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "perfume_dashboard"

// Load outcomes recorded by ObserveLoad.
const (
	LoadRead   = "read"
	LoadCached = "cached"
	LoadFailed = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	loads      *prometheus.CounterVec
	listings   *prometheus.GaugeVec
	unparsed   *prometheus.CounterVec
	wsMessages prometheus.Counter
}

// New registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by outcome.",
		}, []string{"result"}),
		listings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "listings",
			Help:      "Listings in the loaded dataset by category.",
		}, []string{"category"}),
		unparsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unparsed_fields_total",
			Help:      "Raw numeric fields that degraded to zero.",
		}, []string{"field"}),
		wsMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "Filter messages received over the websocket.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.loads, m.listings, m.unparsed, m.wsMessages,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(route, method string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(took.Seconds())
}

func (m *Metrics) ObserveLoad(result string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(result).Inc()
}

func (m *Metrics) SetListings(category string, n int) {
	if m == nil {
		return
	}
	m.listings.WithLabelValues(category).Set(float64(n))
}

func (m *Metrics) ObserveUnparsed(field string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.unparsed.WithLabelValues(field).Add(float64(n))
}

func (m *Metrics) ObserveWSMessage() {
	if m == nil {
		return
	}
	m.wsMessages.Inc()
}
