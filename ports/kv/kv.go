// Package kv defines the request/response contract every lrukv boundary
// speaks. The in-process service, the HTTP client and the NATS client all
// implement Service, so callers such as the load generator and the CLI do
// not care how a request reaches the store.
package kv

import (
	"context"
	"errors"
)

const StatusHealthy = "healthy"

var (
	// ErrNotFound is returned by Get for an absent key. It is a normal
	// outcome, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalid marks a request the caller has to fix, e.g. an oversized
	// key or value.
	ErrInvalid = errors.New("invalid request")
)

type Health struct {
	Status string `json:"status"`
}

type Service interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Health(ctx context.Context) (Health, error)
}

// Outcome classifies an error returned by a Service for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalid):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "abandoned"
	default:
		return "error"
	}
}
