package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/lrukv/core/cache"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, cache.DefaultCapacity, cfg.Capacity)
	require.Equal(t, ":7171", cfg.HTTPAddr)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "lrukv", cfg.NATS.SubjectPrefix)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("MAX_CACHE_SIZE", "0")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("NATS_URL", "nats://nats:4222")
	t.Setenv("METRICS_ADDR", ":2121")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, 0, cfg.Capacity)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, "nats://nats:4222", cfg.NATS.URL)
	require.Equal(t, ":2121", cfg.MetricsAddr)
	require.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}

func TestConfigFromEnv_InvalidCapacity(t *testing.T) {
	t.Setenv("MAX_CACHE_SIZE", "-5")
	_, err := ConfigFromEnv()
	require.ErrorIs(t, err, cache.ErrInvalidCapacity)

	t.Setenv("MAX_CACHE_SIZE", "lots")
	_, err = ConfigFromEnv()
	require.Error(t, err)
}
