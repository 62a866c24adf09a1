// Package app wires an lrukv process together: one bounded LRU store, the
// service in front of it, and the boundaries that expose the service.
//
// Boundaries are enabled by configuration:
//
//   - HTTP on Config.HTTPAddr (default :7171)
//   - NATS request/reply when Config.NATS.URL is set
//   - Prometheus /metrics when Config.MetricsAddr is set
//
// # Basic Usage
//
//	cfg, err := app.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a, err := app.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// blocks until ctx is done
//	err = a.Run(ctx)
//
// # Embedding
//
// [Start] runs the app in the background; [App.Service] gives in-process
// access to the same store the boundaries use. Use [App.Shutdown] to stop.
package app
