package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIBaseURL   string
	APIToken     string
	Location     *time.Location
	HTTPAddr     string // metrics/health server; empty disables it
	LogLevel     string
	Env          string // dev|prod
	SentryDSN    string
	RefreshDelay time.Duration // post-save percentage refresh lag
}

func Load() (*Config, error) {
	tz := getenv("TZ", "America/Argentina/Buenos_Aires")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	delay, err := parseMillis(getenv("REFRESH_DELAY_MS", "800"))
	if err != nil {
		return nil, fmt.Errorf("REFRESH_DELAY_MS: %w", err)
	}

	cfg := &Config{
		APIBaseURL:   strings.TrimRight(mustEnv("API_BASE_URL"), "/"),
		APIToken:     os.Getenv("API_TOKEN"),
		Location:     loc,
		HTTPAddr:     os.Getenv("HTTP_ADDR"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		Env:          getenv("ENV", "dev"),
		SentryDSN:    os.Getenv("SENTRY_DSN"),
		RefreshDelay: delay,
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseMillis(s string) (time.Duration, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad duration %q: %w", s, err)
	}
	if n < 0 {
		n = 0
	}
	return time.Duration(n) * time.Millisecond, nil
}
