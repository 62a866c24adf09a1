// Command lrukv runs the bounded LRU key-value cache service.
//
// Configuration comes from the environment, see app.ConfigFromEnv. In
// addition LOG_LEVEL selects debug, info, warn or error.
//
//	MAX_CACHE_SIZE=10000 HTTP_ADDR=:7171 go run ./cmd/lrukv
//	curl -XPOST localhost:7171/put -d '{"key":"a","value":"b"}'
//	curl 'localhost:7171/get?key=a'
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/codewandler/lrukv/core/app"
	"github.com/codewandler/lrukv/internal/env"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(env.String("LOG_LEVEL", "info")),
	}))
	slog.SetDefault(log)

	if err := run(ctx, log); err != nil {
		log.Error("lrukv failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := app.ConfigFromEnv()
	if err != nil {
		return err
	}
	cfg.Log = log

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
