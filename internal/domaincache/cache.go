// Package domaincache caches hostname to tenant mappings so domain resolution
// does not hit the Content Store on every request. Positive results ("this
// tenant owns the host") live longer than negative ones ("no tenant owns the
// host") so newly activated domains are picked up quickly.
package domaincache

import (
	"sync"
	"sync/atomic"
	"time"

	"facet/internal/platform/metrics"
	id "facet/pkg/domain"
)

// Class is the TTL class of a cache entry.
type Class string

const (
	ClassPositive Class = "positive"
	ClassNegative Class = "negative"
)

// Default TTLs. False negatives hurt a newly onboarded site more than stale
// positives hurt anyone, so negative entries expire faster.
const (
	DefaultPositiveTTL = 10 * time.Minute
	DefaultNegativeTTL = 2 * time.Minute
)

// Entry is one cached hostname mapping. A zero TenantID means the host is
// confirmed untenanted; such entries are always Negative class.
type Entry struct {
	Hostname  string
	TenantID  id.TenantID
	CreatedAt time.Time
	Class     Class
}

// Stats are running counters since the last Clear. Observability only, not
// part of the correctness contract.
type Stats struct {
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Invalidations uint64 `json:"invalidations"`
	Size          int    `json:"size"`
}

// EntryView is a read-only snapshot of one entry for cache introspection.
type EntryView struct {
	Hostname     string        `json:"hostname"`
	TenantID     id.TenantID   `json:"tenant_id,omitempty"`
	Class        Class         `json:"class"`
	Age          time.Duration `json:"age_ms"`
	TTLRemaining time.Duration `json:"ttl_remaining_ms"`
}

// Cache is a process-wide TTL cache, safe for concurrent use. Expired entries
// behave as misses immediately; physical removal happens lazily on overwrite
// or through InvalidateExpired (see Sweeper).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry

	positiveTTL time.Duration
	negativeTTL time.Duration
	now         func() time.Time
	metrics     *metrics.Metrics

	hits          atomic.Uint64
	misses        atomic.Uint64
	invalidations atomic.Uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithPositiveTTL overrides the positive-entry TTL when greater than zero.
func WithPositiveTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.positiveTTL = ttl
		}
	}
}

// WithNegativeTTL overrides the negative-entry TTL when greater than zero.
func WithNegativeTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.negativeTTL = ttl
		}
	}
}

// WithClock injects a clock. Tests use this to control expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics attaches Prometheus counters to cache operations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// New creates an empty cache with default TTLs and the wall clock.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:     make(map[string]Entry),
		positiveTTL: DefaultPositiveTTL,
		negativeTTL: DefaultNegativeTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// TTLFor returns the TTL applied to the given class.
func (c *Cache) TTLFor(class Class) time.Duration {
	if class == ClassNegative {
		return c.negativeTTL
	}
	return c.positiveTTL
}

// Get returns the unexpired entry for a hostname. An expired entry behaves as
// a miss; the caller must refresh via Put.
func (c *Cache) Get(hostname string) (Entry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[hostname]
	c.mu.RUnlock()

	if !ok || c.expired(entry, c.now()) {
		c.misses.Add(1)
		if c.metrics != nil {
			c.metrics.IncrementCacheMiss()
		}
		return Entry{}, false
	}

	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.IncrementCacheHit()
	}
	return entry, true
}

// Put stores a mapping, overwriting any prior entry for the hostname. A zero
// tenantID is classified Negative, everything else Positive.
func (c *Cache) Put(hostname string, tenantID id.TenantID) {
	class := ClassPositive
	if tenantID.IsZero() {
		class = ClassNegative
	}
	entry := Entry{
		Hostname:  hostname,
		TenantID:  tenantID,
		CreatedAt: c.now(),
		Class:     class,
	}

	c.mu.Lock()
	c.entries[hostname] = entry
	size := len(c.entries)
	c.mu.Unlock()

	c.reportSize(size)
}

// Invalidate removes the entry for a hostname, reporting whether one existed.
// Administrative correction; not needed for correctness.
func (c *Cache) Invalidate(hostname string) bool {
	c.mu.Lock()
	_, existed := c.entries[hostname]
	delete(c.entries, hostname)
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.invalidations.Add(1)
		if c.metrics != nil {
			c.metrics.IncrementCacheInvalidations(1)
		}
	}
	c.reportSize(size)
	return existed
}

// InvalidateExpired physically removes expired entries and returns how many
// were removed. Housekeeping for the memory bound; expired entries already
// behave as misses.
func (c *Cache) InvalidateExpired() int {
	now := c.now()

	c.mu.Lock()
	removed := 0
	for hostname, entry := range c.entries {
		if c.expired(entry, now) {
			delete(c.entries, hostname)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	if removed > 0 {
		c.invalidations.Add(uint64(removed))
		if c.metrics != nil {
			c.metrics.IncrementCacheInvalidations(removed)
		}
	}
	c.reportSize(size)
	return removed
}

// Clear drops all entries and resets the counters.
func (c *Cache) Clear() int {
	c.mu.Lock()
	removed := len(c.entries)
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.hits.Store(0)
	c.misses.Store(0)
	c.invalidations.Store(0)
	c.reportSize(0)
	return removed
}

// Stats returns running counters since the last Clear.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Invalidations: c.invalidations.Load(),
		Size:          size,
	}
}

// Entries returns a snapshot of unexpired entries with age and remaining TTL,
// for the admin introspection endpoint.
func (c *Cache) Entries() []EntryView {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	views := make([]EntryView, 0, len(c.entries))
	for _, entry := range c.entries {
		age := now.Sub(entry.CreatedAt)
		ttl := c.TTLFor(entry.Class)
		if age > ttl {
			continue
		}
		views = append(views, EntryView{
			Hostname:     entry.Hostname,
			TenantID:     entry.TenantID,
			Class:        entry.Class,
			Age:          age,
			TTLRemaining: ttl - age,
		})
	}
	return views
}

func (c *Cache) expired(entry Entry, now time.Time) bool {
	return now.Sub(entry.CreatedAt) > c.TTLFor(entry.Class)
}

func (c *Cache) reportSize(size int) {
	if c.metrics != nil {
		c.metrics.SetCacheSize(size)
	}
}
