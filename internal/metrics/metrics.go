// Package metrics exposes Prometheus collectors for memo creation, speech
// synthesis, artifact storage and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "memocast"

var (
	memosCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memos_created_total",
			Help:      "Total number of memo creation attempts",
		},
		[]string{"mode", "status"}, // status: success, error
	)

	synthesisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "synthesis_duration_seconds",
			Help:      "Duration of TTS provider calls in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"mode", "status"},
	)

	audioBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "audio_bytes",
			Help:      "Size of generated audio in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"mode"},
	)

	storeOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of artifact store operations",
		},
		[]string{"backend", "op", "status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

var allMetrics = []prometheus.Collector{
	memosCreated,
	synthesisDuration,
	audioBytes,
	storeOperations,
	httpRequests,
	httpDuration,
}

var registry = newRegistry()

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	for _, c := range allMetrics {
		reg.MustRegister(c)
	}
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Registry returns the registry holding every memocast collector.
func Registry() *prometheus.Registry { return registry }

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

func ObserveMemoCreated(mode string, err error) {
	memosCreated.WithLabelValues(mode, status(err)).Inc()
}

func ObserveSynthesis(mode string, d time.Duration, size int, err error) {
	synthesisDuration.WithLabelValues(mode, status(err)).Observe(d.Seconds())
	if err == nil {
		audioBytes.WithLabelValues(mode).Observe(float64(size))
	}
}

func ObserveStore(backend, op string, err error) {
	storeOperations.WithLabelValues(backend, op, status(err)).Inc()
}

func ObserveHTTP(method, route string, code int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
