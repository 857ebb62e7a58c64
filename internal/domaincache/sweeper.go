package domaincache

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically removes expired cache entries. Purely a memory bound:
// expired entries already behave as misses whether or not the sweeper runs.
type Sweeper struct {
	cache    *Cache
	interval time.Duration
	logger   *slog.Logger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepInterval overrides the sweep interval when greater than zero.
func WithSweepInterval(interval time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithSweeperLogger overrides the logger.
func WithSweeperLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSweeper constructs a Sweeper for the given cache.
func NewSweeper(cache *Cache, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		cache:    cache,
		interval: time.Minute,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start sweeps periodically until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.RunOnce(); removed > 0 {
				s.logger.DebugContext(ctx, "swept expired domain cache entries", "removed", removed)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single sweep and returns the number of entries removed.
func (s *Sweeper) RunOnce() int {
	return s.cache.InvalidateExpired()
}
