// Package prometheus provides the Prometheus implementation of the lrukv
// service metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/lrukv/core/metrics"
)

// timer wraps a Prometheus observer to implement metrics.Timer.
type timer struct {
	h     prometheus.Observer
	start time.Time
}

func newTimer(h prometheus.Observer) metrics.Timer {
	return &timer{h: h, start: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.h.Observe(time.Since(t.start).Seconds())
}

// Store operations finish in microseconds; the lower buckets matter most.
var defaultBuckets = []float64{
	.00001, .00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05, .1,
}
