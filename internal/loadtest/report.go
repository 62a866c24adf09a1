package loadtest

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Report aggregates the outcome of a run. Counters are safe to read once
// Run has returned.
type Report struct {
	Tasks atomic.Int64

	Puts      atomic.Int64
	Updates   atomic.Int64 // overwrites of known keys, also counted in Puts
	PutErrors atomic.Int64

	Hits       atomic.Int64 // value matched, or an unknown key happened to exist
	Mismatches atomic.Int64 // known key returned a value other than the last one written
	Misses     atomic.Int64 // random key not found, as expected
	Evicted    atomic.Int64 // known key not found; the store evicted it
	GetErrors  atomic.Int64

	Healthy      atomic.Int64
	HealthErrors atomic.Int64

	KnownKeys int
	Elapsed   time.Duration

	latMu    sync.Mutex
	latCount int64
	latSum   time.Duration
	latMax   time.Duration
}

func newReport() *Report { return &Report{} }

func (r *Report) add(c *atomic.Int64) { c.Add(1) }

func (r *Report) observe(d time.Duration) {
	r.latMu.Lock()
	defer r.latMu.Unlock()
	r.latCount++
	r.latSum += d
	r.latMax = max(r.latMax, d)
}

// Total is the number of tasks started.
func (r *Report) Total() int64 { return r.Tasks.Load() }

// Errors counts every outcome that indicates a broken service.
func (r *Report) Errors() int64 {
	return r.PutErrors.Load() + r.Mismatches.Load() + r.GetErrors.Load() + r.HealthErrors.Load()
}

// OK reports whether the run saw no errors and no mismatches.
func (r *Report) OK() bool { return r.Errors() == 0 }

func (r *Report) AvgLatency() time.Duration {
	r.latMu.Lock()
	defer r.latMu.Unlock()
	if r.latCount == 0 {
		return 0
	}
	return r.latSum / time.Duration(r.latCount)
}

func (r *Report) MaxLatency() time.Duration {
	r.latMu.Lock()
	defer r.latMu.Unlock()
	return r.latMax
}

func (r *Report) Print(w io.Writer) {
	rate := 0
	if secs := r.Elapsed.Seconds(); secs > 0 {
		rate = int(float64(r.Total()) / secs)
	}

	fmt.Fprintln(w, "==========================================")
	fmt.Fprintf(w, "      runtime: %.3f seconds\n", r.Elapsed.Seconds())
	fmt.Fprintf(w, "        tasks: %d (%d/s)\n", r.Total(), rate)
	fmt.Fprintf(w, "         puts: %d (updates %d, errors %d)\n", r.Puts.Load(), r.Updates.Load(), r.PutErrors.Load())
	fmt.Fprintf(w, "         gets: hit %d | mismatch %d | miss %d | evicted %d | errors %d\n",
		r.Hits.Load(), r.Mismatches.Load(), r.Misses.Load(), r.Evicted.Load(), r.GetErrors.Load())
	fmt.Fprintf(w, "       health: ok %d | errors %d\n", r.Healthy.Load(), r.HealthErrors.Load())
	fmt.Fprintf(w, "   known keys: %d\n", r.KnownKeys)
	fmt.Fprintf(w, "      latency: avg %s | max %s\n", r.AvgLatency(), r.MaxLatency())
}
