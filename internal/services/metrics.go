package services

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics wraps the Prometheus collectors for catalog listing.
// It owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	PagesListed   *prometheus.CounterVec
	ObjectsListed prometheus.Counter
	TracksListed  prometheus.Counter
	ListDuration  prometheus.Histogram
}

// NewMetrics creates the collectors under the given namespace
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		PagesListed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_pages_total",
			Help:      "Total number of catalog page requests",
		}, []string{"status"}),
		ObjectsListed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_objects_total",
			Help:      "Total number of raw objects returned by the provider",
		}),
		TracksListed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_tracks_total",
			Help:      "Total number of signed MP3 tracks returned",
		}),
		ListDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_page_duration_seconds",
			Help:      "Duration of catalog page requests including signing",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.PagesListed, m.ObjectsListed, m.TracksListed, m.ListDuration)
	return m
}

// RegisterGauge exposes a value computed at scrape time
func (m *Metrics) RegisterGauge(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, fn))
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observePage(err error, objects, tracks int, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.PagesListed.WithLabelValues(status).Inc()
	m.ObjectsListed.Add(float64(objects))
	m.TracksListed.Add(float64(tracks))
	m.ListDuration.Observe(elapsed.Seconds())
}
