package config

import (
	"os"
	"time"

	"facet/internal/domaincache"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	Environment string

	// ContentStoreURL selects the CMS backend. Empty means the in-memory
	// store, which only makes sense outside production.
	ContentStoreURL     string
	ContentStoreTimeout time.Duration

	PositiveTTL   time.Duration
	NegativeTTL   time.Duration
	SweepInterval time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
// The environment is an explicit value threaded through construction; nothing
// else in the process switches behavior on it ambiently.
func FromEnv() Server {
	cfg := Server{
		Addr:                ":8080",
		Environment:         "dev",
		ContentStoreURL:     os.Getenv("CONTENT_STORE_URL"),
		ContentStoreTimeout: 5 * time.Second,
		PositiveTTL:         domaincache.DefaultPositiveTTL,
		NegativeTTL:         domaincache.DefaultNegativeTTL,
		SweepInterval:       time.Minute,
	}

	if addr := os.Getenv("FACET_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if env := os.Getenv("FACET_ENV"); env != "" {
		cfg.Environment = env
	}

	overrideDuration(&cfg.ContentStoreTimeout, "CONTENT_STORE_TIMEOUT")
	overrideDuration(&cfg.PositiveTTL, "CACHE_POSITIVE_TTL")
	overrideDuration(&cfg.NegativeTTL, "CACHE_NEGATIVE_TTL")
	overrideDuration(&cfg.SweepInterval, "CACHE_SWEEP_INTERVAL")

	return cfg
}

// overrideDuration replaces *d when the variable holds a valid duration.
// Invalid values keep the default rather than failing startup.
func overrideDuration(d *time.Duration, key string) {
	if raw := os.Getenv(key); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			*d = parsed
		}
	}
}
