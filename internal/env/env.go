// Package env reads process configuration from environment variables.
// The plain getters fall back silently on unparsable input; use the Lookup
// variants where a bad value must stop startup.
package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func String(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func Int(key string, fallback int) int {
	v, ok, err := LookupInt(key)
	if !ok || err != nil {
		return fallback
	}
	return v
}

func Bool(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(String(key, "")))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func Duration(key string, fallback time.Duration) time.Duration {
	v, ok, err := LookupDuration(key)
	if !ok || err != nil {
		return fallback
	}
	return v
}

// LookupInt reports whether key is set and, if so, whether it parses.
func LookupInt(key string) (int, bool, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, true, fmt.Errorf("env %s: %w", key, err)
	}
	return v, true, nil
}

// LookupDuration accepts Go durations ("1.5s") and bare integers as seconds.
func LookupDuration(key string) (time.Duration, bool, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return 0, false, nil
	}
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, true, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, true, fmt.Errorf("env %s: %w", key, err)
	}
	return v, true, nil
}
