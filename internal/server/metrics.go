package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iwvelando/ltv-leverage/pkg/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	durations    *prometheus.HistogramVec
	computations *prometheus.CounterVec
	sessions     prometheus.Gauge
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	m := &metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "computations_total",
			Help:      "Derived state computations by mode and result.",
		}, []string{"mode", "result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "sessions_active",
			Help:      "Interactive sessions currently held in memory.",
		}),
	}
	registry.MustRegister(m.requests, m.durations, m.computations, m.sessions)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeComputation(modeName string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.computations.WithLabelValues(modeName, result).Inc()
}

// middleware records request counts and durations under route.
func (m *metrics) middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			m.requests.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
			m.durations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
