package resolver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facet/internal/domaincache"
	"facet/internal/site/models"
	"facet/internal/site/store"
)

// fakeClock is a controllable clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTenantFixture(t *testing.T) (*TenantResolver, *fakeStore, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	cache := domaincache.New(domaincache.WithClock(clock.Now))
	fs := newFakeStore()
	fs.inner.AddTenant(&models.Tenant{
		ID:      "acme",
		Name:    "Acme",
		Status:  models.TenantStatusActive,
		Domains: []string{"a.example.com"},
	})
	return NewTenantResolver(cache, fs), fs, clock
}

func TestResolve_ClaimedDomain(t *testing.T) {
	r, fs, _ := newTenantFixture(t)
	ctx := context.Background()

	res := r.Resolve(ctx, "a.example.com", "/courses")
	assert.Equal(t, "acme", res.TenantID.String())
	assert.Equal(t, models.ResolveSourceDomain, res.Source)
	assert.Equal(t, int32(1), fs.domainCalls.Load())

	// Repeated calls inside the positive TTL serve from cache.
	for i := 0; i < 5; i++ {
		res = r.Resolve(ctx, "a.example.com", "/courses")
		assert.Equal(t, "acme", res.TenantID.String())
	}
	assert.Equal(t, int32(1), fs.domainCalls.Load())
}

func TestResolve_UnclaimedDomainNegativeCached(t *testing.T) {
	r, fs, _ := newTenantFixture(t)
	ctx := context.Background()

	res := r.Resolve(ctx, "nobody.example.com", "/")
	assert.True(t, res.TenantID.IsZero())
	assert.Equal(t, models.ResolveSourceDomain, res.Source)

	// Confirmed "no tenant" is cached; the store is asked at most once
	// within the negative TTL.
	res = r.Resolve(ctx, "nobody.example.com", "/")
	assert.True(t, res.TenantID.IsZero())
	assert.Equal(t, models.ResolveSourceDomain, res.Source)
	assert.Equal(t, int32(1), fs.domainCalls.Load())
}

func TestResolve_PositiveTTLExpiryTriggersOneRequery(t *testing.T) {
	r, fs, clock := newTenantFixture(t)
	ctx := context.Background()

	r.Resolve(ctx, "a.example.com", "/")
	require.Equal(t, int32(1), fs.domainCalls.Load())

	// 11 minutes later the 10-minute positive TTL has lapsed.
	clock.Advance(11 * time.Minute)

	res := r.Resolve(ctx, "a.example.com", "/")
	assert.Equal(t, "acme", res.TenantID.String())
	assert.Equal(t, int32(2), fs.domainCalls.Load())

	// And the fresh entry serves again without re-querying.
	r.Resolve(ctx, "a.example.com", "/")
	assert.Equal(t, int32(2), fs.domainCalls.Load())
}

func TestResolve_NegativeTTLExpiryPicksUpNewTenant(t *testing.T) {
	r, fs, clock := newTenantFixture(t)
	ctx := context.Background()

	res := r.Resolve(ctx, "new.example.com", "/")
	assert.True(t, res.TenantID.IsZero())

	// The domain gets activated upstream.
	fs.inner.AddTenant(&models.Tenant{
		ID:      "newbrand",
		Status:  models.TenantStatusActive,
		Domains: []string{"new.example.com"},
	})

	// Inside the negative TTL the stale "no tenant" answer still serves.
	res = r.Resolve(ctx, "new.example.com", "/")
	assert.True(t, res.TenantID.IsZero())

	clock.Advance(domaincache.DefaultNegativeTTL + time.Second)
	res = r.Resolve(ctx, "new.example.com", "/")
	assert.Equal(t, "newbrand", res.TenantID.String())
}

func TestResolve_PathAddressingOverridesDomain(t *testing.T) {
	r, fs, _ := newTenantFixture(t)
	ctx := context.Background()

	res := r.Resolve(ctx, "a.example.com", "/tenant/other-brand/courses")
	assert.Equal(t, "other-brand", res.TenantID.String())
	assert.Equal(t, models.ResolveSourcePath, res.Source)
	assert.Equal(t, int32(0), fs.domainCalls.Load(), "path addressing bypasses cache and store")
}

func TestResolve_MalformedPathIDFallsThroughToDomain(t *testing.T) {
	r, _, _ := newTenantFixture(t)
	ctx := context.Background()

	for _, path := range []string{"/tenant/Not-Valid/x", "/tenant//x", "/tenant/bad_id/x"} {
		res := r.Resolve(ctx, "a.example.com", path)
		assert.Equal(t, "acme", res.TenantID.String(), path)
		assert.Equal(t, models.ResolveSourceDomain, res.Source, path)
	}
}

func TestResolve_HostnameNormalization(t *testing.T) {
	r, fs, _ := newTenantFixture(t)
	ctx := context.Background()

	res := r.Resolve(ctx, "A.Example.COM:8443", "/")
	assert.Equal(t, "acme", res.TenantID.String())
	assert.Equal(t, "a.example.com", fs.lastDomainQueried())

	// The differently-written host hits the same cache entry.
	r.Resolve(ctx, "a.example.com", "/")
	assert.Equal(t, int32(1), fs.domainCalls.Load())
}

func TestResolve_StoreOutageFailsOpenAndIsNotCached(t *testing.T) {
	r, fs, _ := newTenantFixture(t)
	ctx := context.Background()

	fs.setDomainErr(store.ErrUnavailable)

	res := r.Resolve(ctx, "a.example.com", "/")
	assert.True(t, res.TenantID.IsZero())
	assert.Equal(t, models.ResolveSourceNone, res.Source)

	// Outages are never cached: recovery is visible on the next call.
	fs.setDomainErr(nil)
	res = r.Resolve(ctx, "a.example.com", "/")
	assert.Equal(t, "acme", res.TenantID.String())
	assert.Equal(t, models.ResolveSourceDomain, res.Source)
	assert.Equal(t, int32(2), fs.domainCalls.Load())
}

func TestResolve_Idempotent(t *testing.T) {
	r, _, _ := newTenantFixture(t)
	ctx := context.Background()

	first := r.Resolve(ctx, "a.example.com", "/courses")
	second := r.Resolve(ctx, "a.example.com", "/courses")
	assert.Equal(t, first, second)
}

func TestResolve_ConcurrentMissesCollapseToOneStoreCall(t *testing.T) {
	r, fs, _ := newTenantFixture(t)
	fs.domainDelay = 30 * time.Millisecond
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]models.TenantResolution, 16)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Resolve(ctx, "a.example.com", "/")
		}()
	}
	wg.Wait()

	for _, res := range results {
		assert.Equal(t, "acme", res.TenantID.String())
	}
	assert.Equal(t, int32(1), fs.domainCalls.Load(), "singleflight should collapse the burst")
}

func TestResolve_CancelledRequestStillFillsCache(t *testing.T) {
	r, fs, _ := newTenantFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The fake store honors ctx cancellation, so this passes only because the
	// fill runs detached from the request context.
	res := r.Resolve(ctx, "a.example.com", "/")
	assert.Equal(t, "acme", res.TenantID.String())

	r.Resolve(context.Background(), "a.example.com", "/")
	assert.Equal(t, int32(1), fs.domainCalls.Load(), "cache was filled despite cancellation")
}

func TestParseTenantPath(t *testing.T) {
	cases := []struct {
		path string
		id   string
		ok   bool
	}{
		{"/tenant/acme/courses", "acme", true},
		{"/tenant/other-brand/", "other-brand", true},
		{"/tenant/acme", "acme", true},
		{"/tenants/acme/x", "", false},
		{"/Tenant/acme/x", "", false}, // prefix is case-sensitive
		{"/tenant/ACME/x", "", false},
		{"/tenant//x", "", false},
		{"/courses", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseTenantPath(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.id, got.String(), tc.path)
	}
}

func TestStripTenantPrefix(t *testing.T) {
	assert.Equal(t, "/courses/algebra", StripTenantPrefix("/tenant/acme/courses/algebra"))
	assert.Equal(t, "/", StripTenantPrefix("/tenant/acme"))
	assert.Equal(t, "/", StripTenantPrefix("/tenant/acme/"))
	assert.Equal(t, "/courses", StripTenantPrefix("/courses"))
	assert.Equal(t, "/tenant/BAD/x", StripTenantPrefix("/tenant/BAD/x"))
}

func TestNormalizeHostname(t *testing.T) {
	cases := map[string]string{
		"A.Example.COM":      "a.example.com",
		"a.example.com:8080": "a.example.com",
		" a.example.com ":    "a.example.com",
		"[::1]:8080":         "::1",
		"[::1]":              "::1",
		"":                   "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHostname(in), in)
	}
}
