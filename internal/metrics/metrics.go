package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	authAttempts    *prometheus.CounterVec
	otpIssued       prometheus.Counter
	otpSwept        prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mendizabala",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mendizabala",
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts by flow and outcome.",
		}, []string{"flow", "outcome"}),
		otpIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mendizabala",
			Name:      "otp_issued_total",
			Help:      "One-time codes generated.",
		}),
		otpSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mendizabala",
			Name:      "otp_swept_total",
			Help:      "Expired one-time codes removed by the sweeper.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.authAttempts,
		m.otpIssued,
		m.otpSwept,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) AuthAttempt(flow, outcome string) {
	m.authAttempts.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) OTPIssued() {
	m.otpIssued.Inc()
}

func (m *Metrics) OTPSwept(n int) {
	m.otpSwept.Add(float64(n))
}
