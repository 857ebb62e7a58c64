// Package resolver determines the requesting tenant for an inbound request and
// resolves page content through the tenant / baseline / default fallback chain.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"

	"golang.org/x/sync/singleflight"

	"facet/internal/domaincache"
	"facet/internal/platform/metrics"
	"facet/internal/site/models"
	"facet/internal/site/store"
	"facet/internal/tracing"
	id "facet/pkg/domain"
)

// TenantPathPrefix reserves explicit tenant addressing: paths of the form
// /tenant/{id}/... resolve to {id} regardless of the request's hostname.
const TenantPathPrefix = "/tenant/"

// TenantResolver answers "which tenant does this request belong to?" using the
// domain cache to keep the Content Store off the hot path.
type TenantResolver struct {
	cache   *domaincache.Cache
	store   store.ContentStore
	logger  *slog.Logger
	tracer  tracing.Tracer
	metrics *metrics.Metrics
	group   singleflight.Group
}

// TenantResolverOption configures a TenantResolver.
type TenantResolverOption func(*TenantResolver)

// WithResolverLogger overrides the logger.
func WithResolverLogger(logger *slog.Logger) TenantResolverOption {
	return func(r *TenantResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithResolverTracer overrides the tracer.
func WithResolverTracer(tracer tracing.Tracer) TenantResolverOption {
	return func(r *TenantResolver) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithResolverMetrics attaches Prometheus counters.
func WithResolverMetrics(m *metrics.Metrics) TenantResolverOption {
	return func(r *TenantResolver) {
		r.metrics = m
	}
}

// NewTenantResolver constructs a resolver over the given cache and store.
func NewTenantResolver(cache *domaincache.Cache, contentStore store.ContentStore, opts ...TenantResolverOption) *TenantResolver {
	r := &TenantResolver{
		cache:  cache,
		store:  contentStore,
		logger: slog.Default(),
		tracer: tracing.Noop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve determines the requesting tenant from a hostname and path.
// Path addressing wins over domain addressing. A store outage yields
// ResolveSourceNone for this request only: fail open to the untenanted
// experience, never fail the request, never cache the outage.
func (r *TenantResolver) Resolve(ctx context.Context, hostname, path string) models.TenantResolution {
	ctx, span := r.tracer.Start(ctx, "resolver.Resolve",
		tracing.String("hostname", hostname))

	res := r.resolve(ctx, hostname, path)

	span.SetAttributes(
		tracing.String("tenant_id", res.TenantID.String()),
		tracing.String("source", string(res.Source)),
	)
	span.End(nil)

	if r.metrics != nil {
		r.metrics.IncrementTenantResolution(string(res.Source))
	}
	return res
}

func (r *TenantResolver) resolve(ctx context.Context, hostname, path string) models.TenantResolution {
	// Explicit path addressing is authoritative and needs no lookup.
	if tenantID, ok := ParseTenantPath(path); ok {
		return models.TenantResolution{TenantID: tenantID, Source: models.ResolveSourcePath}
	}

	host := NormalizeHostname(hostname)
	if host == "" {
		return models.TenantResolution{Source: models.ResolveSourceNone}
	}

	if entry, ok := r.cache.Get(host); ok {
		// TenantID may be zero here: a confirmed "no tenant" answer.
		return models.TenantResolution{TenantID: entry.TenantID, Source: models.ResolveSourceDomain}
	}

	tenantID, err := r.lookupDomain(ctx, host)
	if err != nil {
		r.logger.WarnContext(ctx, "domain lookup failed, failing open to untenanted",
			"hostname", host,
			"error", err,
		)
		if r.metrics != nil {
			r.metrics.IncrementStoreErrors()
		}
		return models.TenantResolution{Source: models.ResolveSourceNone}
	}
	return models.TenantResolution{TenantID: tenantID, Source: models.ResolveSourceDomain}
}

// lookupDomain queries the Content Store for a cold hostname and fills the
// cache. Concurrent misses for the same hostname collapse into one store call.
// The fill is detached from the request's cancellation so an aborted request
// still benefits subsequent ones.
func (r *TenantResolver) lookupDomain(ctx context.Context, host string) (id.TenantID, error) {
	v, err, _ := r.group.Do(host, func() (any, error) {
		fillCtx := context.WithoutCancel(ctx)

		tenant, err := r.store.FindTenantByDomain(fillCtx, host)
		if errors.Is(err, store.ErrNotFound) {
			r.cache.Put(host, "")
			return id.TenantID(""), nil
		}
		if err != nil {
			// Transient outage: leave the cache alone so any previous entry
			// keeps serving until it naturally expires.
			return id.TenantID(""), err
		}

		r.cache.Put(host, tenant.ID)
		return tenant.ID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(id.TenantID), nil
}

// ParseTenantPath reports whether path uses the reserved /tenant/{id}/...
// prefix and extracts the id. A malformed id means "not a tenant path", so
// resolution falls through to the domain.
func ParseTenantPath(path string) (id.TenantID, bool) {
	rest, ok := strings.CutPrefix(path, TenantPathPrefix)
	if !ok {
		return "", false
	}
	segment, _, _ := strings.Cut(rest, "/")
	tenantID, err := id.ParseTenantID(segment)
	if err != nil {
		return "", false
	}
	return tenantID, true
}

// StripTenantPrefix removes the /tenant/{id} prefix from a path, returning the
// remainder for further routing. Paths without a well-formed prefix are
// returned unchanged.
func StripTenantPrefix(path string) string {
	if _, ok := ParseTenantPath(path); !ok {
		return path
	}
	rest := strings.TrimPrefix(path, TenantPathPrefix)
	_, remainder, found := strings.Cut(rest, "/")
	if !found || remainder == "" {
		return "/"
	}
	return "/" + remainder
}

// NormalizeHostname lowercases a hostname and strips any port, including the
// bracketed IPv6 form.
func NormalizeHostname(hostname string) string {
	host := strings.TrimSpace(hostname)
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else {
		host = strings.Trim(host, "[]")
	}
	return strings.ToLower(host)
}
