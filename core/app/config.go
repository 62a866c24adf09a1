package app

import (
	"fmt"

	"github.com/codewandler/lrukv/core/cache"
	"github.com/codewandler/lrukv/internal/env"
)

// ConfigFromEnv starts from DefaultConfig and applies:
//
//	MAX_CACHE_SIZE       capacity, non-negative integer (10000)
//	HTTP_ADDR            HTTP listen address (:7171), "" disables
//	NATS_URL             NATS server, "" disables the NATS boundary
//	NATS_SUBJECT_PREFIX  subject prefix (lrukv)
//	METRICS_ADDR         Prometheus listen address, "" disables
//	SHUTDOWN_TIMEOUT     graceful shutdown budget (5s)
//	INSTANCE_ID          instance name used in logs
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	capacity, ok, err := env.LookupInt("MAX_CACHE_SIZE")
	if err != nil {
		return cfg, err
	}
	if ok {
		if capacity < 0 {
			return cfg, fmt.Errorf("env MAX_CACHE_SIZE: %w", cache.ErrInvalidCapacity)
		}
		cfg.Capacity = capacity
	}

	timeout, ok, err := env.LookupDuration("SHUTDOWN_TIMEOUT")
	if err != nil {
		return cfg, err
	}
	if ok {
		cfg.ShutdownTimeout = timeout
	}

	cfg.InstanceID = env.String("INSTANCE_ID", "")
	cfg.HTTPAddr = env.String("HTTP_ADDR", cfg.HTTPAddr)
	cfg.NATS.URL = env.String("NATS_URL", "")
	cfg.NATS.SubjectPrefix = env.String("NATS_SUBJECT_PREFIX", "lrukv")
	cfg.MetricsAddr = env.String("METRICS_ADDR", "")

	return cfg, nil
}
