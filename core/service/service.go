// Package service implements kv.Service on top of a cache.Store. It is the
// single place where store outcomes are mapped to the kv error contract.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codewandler/lrukv/core/cache"
	"github.com/codewandler/lrukv/ports/kv"
)

const (
	OpPut    = "put"
	OpGet    = "get"
	OpHealth = "health"
)

type Options struct {
	Store   cache.Store
	Log     *slog.Logger // optional
	Metrics Metrics      // optional
}

type Service struct {
	store   cache.Store
	log     *slog.Logger
	metrics Metrics
}

func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("service: store is required")
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopMetrics()
	}
	return &Service{
		store:   opts.Store,
		log:     opts.Log.With(slog.String("component", "service")),
		metrics: opts.Metrics,
	}, nil
}

// Put stores value under key. A context that is already done is reported
// without touching the store; once the store is called the write completes.
func (s *Service) Put(ctx context.Context, key, value string) (err error) {
	defer s.observe(OpPut)(&err)

	if err = ctx.Err(); err != nil {
		return err
	}
	if err = s.store.Put(key, value); err != nil {
		if errors.Is(err, cache.ErrValidation) {
			return fmt.Errorf("%w: %w", kv.ErrInvalid, err)
		}
		return err
	}
	s.log.DebugContext(ctx, "put", slog.String("key", key))
	return nil
}

func (s *Service) Get(ctx context.Context, key string) (_ string, err error) {
	defer s.observe(OpGet)(&err)

	if err = ctx.Err(); err != nil {
		return "", err
	}
	value, ok := s.store.Get(key)
	if !ok {
		return "", kv.ErrNotFound
	}
	return value, nil
}

// Health does not touch the store.
func (s *Service) Health(context.Context) (kv.Health, error) {
	defer s.observe(OpHealth)(new(error))
	return kv.Health{Status: kv.StatusHealthy}, nil
}

func (s *Service) observe(op string) func(*error) {
	timer := s.metrics.RequestDuration(op)
	return func(errp *error) {
		timer.ObserveDuration()
		s.metrics.RequestCompleted(op, kv.Outcome(*errp))
	}
}

var _ kv.Service = (*Service)(nil)
