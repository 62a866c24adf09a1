// Command loadtest generates randomized put/get/health traffic against a
// running lrukv and verifies the answers.
//
//	BACKEND=http TARGET=http://localhost:7171 USERS=50 DURATION=30s go run ./cmd/loadtest
//	BACKEND=nats NATS_URL=nats://localhost:4222 N=100000 MIN_WAIT=0 MAX_WAIT=0 go run ./cmd/loadtest
//
// The process exits with status 1 if any value mismatch or error was seen.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/codewandler/lrukv/adapters/httpapi"
	"github.com/codewandler/lrukv/adapters/nats"
	"github.com/codewandler/lrukv/internal/env"
	"github.com/codewandler/lrukv/internal/loadtest"
	"github.com/codewandler/lrukv/ports/kv"
)

// === Config ===

var (
	backendType = env.String("BACKEND", "http")
	target      = env.String("TARGET", "http://localhost:7171")
	subjects    = env.String("NATS_SUBJECT_PREFIX", "lrukv")
	verbose     = env.Bool("VERBOSE", false)
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	report, err := run(ctx, log)
	if err != nil {
		log.Error("loadtest failed", slog.Any("error", err))
		os.Exit(1)
	}
	report.Print(os.Stdout)
	if !report.OK() {
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) (*loadtest.Report, error) {
	svc, closeFn, err := connect()
	if err != nil {
		return nil, err
	}
	defer closeFn()

	cfg := loadtest.DefaultConfig()
	cfg.Users = env.Int("USERS", cfg.Users)
	cfg.Duration = env.Duration("DURATION", cfg.Duration)
	cfg.Requests = env.Int("N", 0)
	cfg.MinWait = env.Duration("MIN_WAIT", cfg.MinWait)
	cfg.MaxWait = env.Duration("MAX_WAIT", cfg.MaxWait)
	cfg.Log = log
	if cfg.Requests > 0 && os.Getenv("DURATION") == "" {
		cfg.Duration = 0
	}

	fmt.Printf("Backend: %s\n", backendType)

	r, err := loadtest.New(svc, cfg)
	if err != nil {
		return nil, err
	}

	if _, err := svc.Health(ctx); err != nil {
		return nil, fmt.Errorf("target not healthy: %w", err)
	}
	return r.Run(ctx)
}

func connect() (kv.Service, func(), error) {
	switch backendType {
	case "nats":
		c, err := nats.NewClient(nats.ClientConfig{
			Connect:       nats.ConnectDefault(),
			SubjectPrefix: subjects,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	default:
		c, err := httpapi.NewClient(httpapi.ClientOptions{BaseURL: target})
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	}
}
