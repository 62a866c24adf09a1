// Package loadtest drives randomized put/get/health traffic against a
// kv.Service and checks what comes back: values must round-trip, unknown
// keys must miss, health must report healthy.
package loadtest

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/codewandler/lrukv/ports/kv"
)

const (
	alphabet  = "abcdefghijklmnopqrstuvwxyz0123456789"
	randomLen = 10
)

// Task weights, put:get:health.
const (
	weightPut    = 1
	weightGet    = 2
	weightHealth = 3
)

type Config struct {
	Users    int           // concurrent users, default 10
	Duration time.Duration // stop after this long; 0 means no time limit
	Requests int           // stop after this many tasks in total; 0 means no limit
	MinWait  time.Duration // wait between tasks per user
	MaxWait  time.Duration
	// UpdateRatio is the chance that a successful put is followed by an
	// overwrite of an already known key. Default 0.2.
	UpdateRatio float64
	// KnownKeyRatio is the chance that a get targets a known key. Default 0.8.
	KnownKeyRatio float64
	Log           *slog.Logger
}

// DefaultConfig mirrors the reference load profile.
func DefaultConfig() Config {
	return Config{
		Users:         10,
		Duration:      time.Minute,
		MinWait:       time.Second,
		MaxWait:       2 * time.Second,
		UpdateRatio:   0.2,
		KnownKeyRatio: 0.8,
	}
}

type Runner struct {
	svc      kv.Service
	cfg      Config
	log      *slog.Logger
	expected *expectations
	report   *Report
	budget   chan struct{}
}

func New(svc kv.Service, cfg Config) (*Runner, error) {
	if svc == nil {
		return nil, errors.New("loadtest: service is required")
	}
	if cfg.Users <= 0 {
		cfg.Users = 10
	}
	if cfg.MaxWait < cfg.MinWait {
		cfg.MaxWait = cfg.MinWait
	}
	if cfg.Duration <= 0 && cfg.Requests <= 0 {
		return nil, errors.New("loadtest: either Duration or Requests must be set")
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	r := &Runner{
		svc:      svc,
		cfg:      cfg,
		log:      cfg.Log.With(slog.String("component", "loadtest")),
		expected: newExpectations(),
		report:   newReport(),
	}
	if cfg.Requests > 0 {
		r.budget = make(chan struct{}, cfg.Requests)
		for range cfg.Requests {
			r.budget <- struct{}{}
		}
		close(r.budget)
	}
	return r, nil
}

// Run blocks until the duration or request budget is used up, or ctx ends.
// The returned report is complete even when ctx was cancelled.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Duration)
		defer cancel()
	}

	r.log.Info("starting",
		slog.Int("users", r.cfg.Users),
		slog.Duration("duration", r.cfg.Duration),
		slog.Int("requests", r.cfg.Requests),
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i := range r.cfg.Users {
		g.Go(func() error {
			r.user(gctx, i)
			return nil
		})
	}
	err := g.Wait()
	r.report.Elapsed = time.Since(start)
	r.report.KnownKeys = r.expected.len()

	r.log.Info("finished", slog.Int64("tasks", r.report.Total()), slog.Duration("took", r.report.Elapsed))
	return r.report, err
}

func (r *Runner) user(ctx context.Context, id int) {
	log := r.log.With(slog.Int("user", id))
	for {
		if !r.take(ctx) {
			return
		}
		r.report.add(&r.report.Tasks)

		switch pick() {
		case taskPut:
			r.put(ctx, log)
		case taskGet:
			r.get(ctx, log)
		default:
			r.health(ctx, log)
		}

		if !r.wait(ctx) {
			return
		}
	}
}

// take consumes one unit of the request budget.
func (r *Runner) take(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if r.budget == nil {
		return true
	}
	_, ok := <-r.budget
	return ok
}

func (r *Runner) wait(ctx context.Context) bool {
	d := r.cfg.MinWait
	if spread := r.cfg.MaxWait - r.cfg.MinWait; spread > 0 {
		d += rand.N(spread)
	}
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

type task int

const (
	taskPut task = iota
	taskGet
	taskHealth
)

func pick() task {
	n := rand.IntN(weightPut + weightGet + weightHealth)
	switch {
	case n < weightPut:
		return taskPut
	case n < weightPut+weightGet:
		return taskGet
	default:
		return taskHealth
	}
}

func randomString() string {
	return gonanoid.MustGenerate(alphabet, randomLen)
}

func (r *Runner) put(ctx context.Context, log *slog.Logger) {
	key, value := randomString(), randomString()
	if r.write(ctx, log, key, value) {
		log.Debug("put", slog.String("key", key))
	}

	if rand.Float64() < r.cfg.UpdateRatio {
		if known, ok := r.expected.random(); ok {
			newValue := randomString()
			if r.write(ctx, log, known, newValue) {
				r.report.add(&r.report.Updates)
				log.Debug("updated", slog.String("key", known))
			}
		}
	}
}

// write puts key and records the expectation while holding the key's slot,
// so concurrent users never leave a stale expectation behind.
func (r *Runner) write(ctx context.Context, log *slog.Logger, key, value string) bool {
	start := time.Now()
	err := r.expected.set(key, value, func() error { return r.svc.Put(ctx, key, value) })
	r.report.observe(time.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		r.report.add(&r.report.PutErrors)
		log.Warn("put failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	r.report.add(&r.report.Puts)
	return true
}

func (r *Runner) get(ctx context.Context, log *slog.Logger) {
	var (
		key      string
		expected string
		known    bool
	)
	if rand.Float64() < r.cfg.KnownKeyRatio {
		key, known = r.expected.random()
	}
	if !known {
		key = randomString()
	}

	start := time.Now()
	var value string
	var err error
	if known {
		// hold the key so no concurrent write lands between lookup and compare
		expected, value, err = r.expected.check(key, func() (string, error) { return r.svc.Get(ctx, key) })
	} else {
		value, err = r.svc.Get(ctx, key)
	}
	r.report.observe(time.Since(start))

	switch {
	case err == nil && !known:
		// a random key that happens to exist; nothing to compare against
		r.report.add(&r.report.Hits)
	case err == nil && value == expected:
		r.report.add(&r.report.Hits)
	case err == nil:
		r.report.add(&r.report.Mismatches)
		log.Error("value mismatch", slog.String("key", key), slog.String("expected", expected), slog.String("got", value))
	case errors.Is(err, kv.ErrNotFound) && known:
		r.report.add(&r.report.Evicted)
	case errors.Is(err, kv.ErrNotFound):
		r.report.add(&r.report.Misses)
	case ctx.Err() != nil:
	default:
		r.report.add(&r.report.GetErrors)
		log.Warn("get failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (r *Runner) health(ctx context.Context, log *slog.Logger) {
	start := time.Now()
	h, err := r.svc.Health(ctx)
	r.report.observe(time.Since(start))
	switch {
	case err == nil && h.Status == kv.StatusHealthy:
		r.report.add(&r.report.Healthy)
	case ctx.Err() != nil:
	default:
		r.report.add(&r.report.HealthErrors)
		log.Warn("health check failed", slog.String("status", h.Status), slog.Any("error", err))
	}
}

// expectations is the load generator's own record of what each key should
// hold. A per-key lock serializes a write with its record update and a read
// with its comparison.
type expectations struct {
	mu     sync.Mutex
	values map[string]*slot
	keys   []string
}

type slot struct {
	mu    sync.Mutex
	value string
	ok    bool
}

func newExpectations() *expectations {
	return &expectations{values: make(map[string]*slot)}
}

func (e *expectations) slot(key string) *slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.values[key]
	if !ok {
		s = &slot{}
		e.values[key] = s
	}
	return s
}

func (e *expectations) set(key, value string, write func() error) error {
	s := e.slot(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := write(); err != nil {
		return err
	}
	if !s.ok {
		e.mu.Lock()
		e.keys = append(e.keys, key)
		e.mu.Unlock()
	}
	s.value, s.ok = value, true
	return nil
}

func (e *expectations) check(key string, read func() (string, error)) (expected, got string, err error) {
	s := e.slot(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	got, err = read()
	return s.value, got, err
}

func (e *expectations) random() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.keys) == 0 {
		return "", false
	}
	return e.keys[rand.IntN(len(e.keys))], true
}

func (e *expectations) len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.keys)
}
