package service

import "github.com/codewandler/lrukv/core/metrics"

// Metrics is the instrumentation used by Service. Implementations must be
// safe for concurrent use.
type Metrics interface {
	// RequestDuration starts a timer for one operation ("put", "get", "health").
	RequestDuration(op string) metrics.Timer
	// RequestCompleted counts a finished operation by outcome, see kv.Outcome.
	RequestCompleted(op, outcome string)
}

type nopMetrics struct{}

func (nopMetrics) RequestDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) RequestCompleted(string, string)      {}

// NopMetrics returns a Metrics implementation that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }
