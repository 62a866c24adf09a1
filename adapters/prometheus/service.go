package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/lrukv/core/metrics"
	"github.com/codewandler/lrukv/core/service"
)

// serviceMetrics implements service.Metrics using Prometheus.
type serviceMetrics struct {
	requestDuration *prometheus.HistogramVec
	requests        *prometheus.CounterVec
}

// NewServiceMetrics creates and registers the request metrics.
func NewServiceMetrics(reg prometheus.Registerer) service.Metrics {
	m := &serviceMetrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lrukv_request_duration_seconds",
			Help:    "Service request latency in seconds",
			Buckets: defaultBuckets,
		}, []string{"op"}),

		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lrukv_requests_total",
			Help: "Total number of service requests by outcome",
		}, []string{"op", "outcome"}),
	}

	reg.MustRegister(m.requestDuration, m.requests)

	return m
}

func (m *serviceMetrics) RequestDuration(op string) metrics.Timer {
	return newTimer(m.requestDuration.WithLabelValues(op))
}

func (m *serviceMetrics) RequestCompleted(op, outcome string) {
	m.requests.WithLabelValues(op, outcome).Inc()
}

var _ service.Metrics = (*serviceMetrics)(nil)
