// Package metrics defines the small instrumentation surface used by lrukv.
// Backends (see adapters/prometheus) implement these interfaces; the nop
// implementations are the default so the core never depends on a backend.
package metrics

// Timer measures one operation. Call ObserveDuration when it completes:
//
//	defer m.RequestDuration("put").ObserveDuration()
type Timer interface {
	ObserveDuration()
}
