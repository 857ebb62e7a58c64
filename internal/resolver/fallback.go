package resolver

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"facet/internal/domaincache"
	"facet/internal/platform/metrics"
	"facet/internal/site/models"
	"facet/internal/site/store"
	"facet/internal/tracing"
	id "facet/pkg/domain"
	dErrors "facet/pkg/domain-errors"
	"facet/pkg/platform/validation"
)

// baselineCacheKey caches the baseline tenant id through the domain cache.
// The "!" makes collision with a real hostname impossible.
const baselineCacheKey = "!baseline"

// FallbackResolver returns the best-available document for a content slot by
// walking the fixed fallback order: tenant-specific, then the baseline
// tenant's version, then the untenanted default. This ordering is the core
// business rule of the system; the resolver short-circuits at the first tier
// that yields an active document.
type FallbackResolver struct {
	store   store.ContentStore
	cache   *domaincache.Cache
	logger  *slog.Logger
	tracer  tracing.Tracer
	metrics *metrics.Metrics

	// group collapses concurrent baseline-id lookups the same way the tenant
	// resolver collapses domain lookups.
	group singleflight.Group
}

// FallbackResolverOption configures a FallbackResolver.
type FallbackResolverOption func(*FallbackResolver)

// WithFallbackLogger overrides the logger.
func WithFallbackLogger(logger *slog.Logger) FallbackResolverOption {
	return func(r *FallbackResolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFallbackTracer overrides the tracer.
func WithFallbackTracer(tracer tracing.Tracer) FallbackResolverOption {
	return func(r *FallbackResolver) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithFallbackMetrics attaches Prometheus counters.
func WithFallbackMetrics(m *metrics.Metrics) FallbackResolverOption {
	return func(r *FallbackResolver) {
		r.metrics = m
	}
}

// NewFallbackResolver constructs a resolver over the given store. The cache is
// used only for the baseline tenant id, which changes rarely.
func NewFallbackResolver(contentStore store.ContentStore, cache *domaincache.Cache, opts ...FallbackResolverOption) *FallbackResolver {
	r := &FallbackResolver{
		store:  contentStore,
		cache:  cache,
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

// ResolveContent returns the best-available document for (tenantID, slot).
// A zero tenantID skips the tenant tier. "Not found" at every tier is the
// valid ContentSourceNone outcome, not an error; only genuine store
// unavailability is returned as an error.
func (r *FallbackResolver) ResolveContent(ctx context.Context, tenantID id.TenantID, slot id.SlotType) (models.ResolutionResult, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.ResolveContent",
		tracing.String("tenant_id", tenantID.String()),
		tracing.String("slot", slot.String()))

	res, err := r.resolveContent(ctx, tenantID, slot)

	span.SetAttributes(tracing.String("source", string(res.Source)))
	span.End(err)

	if err == nil && r.metrics != nil {
		r.metrics.IncrementContentResolution(string(res.Source))
	}
	return res, err
}

func (r *FallbackResolver) resolveContent(ctx context.Context, tenantID id.TenantID, slot id.SlotType) (models.ResolutionResult, error) {
	// Tier 1: tenant-specific.
	if !tenantID.IsZero() {
		doc, found, err := r.findDocument(ctx, slot, tenantID)
		if err != nil {
			return models.ResolutionResult{Source: models.ContentSourceNone}, err
		}
		if found {
			return models.ResolutionResult{Document: doc, Source: models.ContentSourceTenant}, nil
		}
	}

	// Tier 2: the baseline tenant's version. Skipped when no baseline is
	// configured, and when the requester is the baseline itself (the tier-1
	// lookup already covered it).
	baselineID, err := r.BaselineTenantID(ctx)
	if err != nil {
		return models.ResolutionResult{Source: models.ContentSourceNone}, err
	}
	if !baselineID.IsZero() && baselineID != tenantID {
		doc, found, err := r.findDocument(ctx, slot, baselineID)
		if err != nil {
			return models.ResolutionResult{Source: models.ContentSourceNone}, err
		}
		if found {
			return models.ResolutionResult{Document: doc, Source: models.ContentSourceBaseline}, nil
		}
	}

	// Tier 3: the untenanted default.
	doc, found, err := r.findDocument(ctx, slot, "")
	if err != nil {
		return models.ResolutionResult{Source: models.ContentSourceNone}, err
	}
	if found {
		return models.ResolutionResult{Document: doc, Source: models.ContentSourceDefault}, nil
	}

	return models.ResolutionResult{Source: models.ContentSourceNone}, nil
}

// ResolveSlots resolves several independent slots concurrently and gathers the
// results. Slot resolutions are read-only and share no mutable state, so they
// fan out; the first store outage cancels the remainder.
func (r *FallbackResolver) ResolveSlots(ctx context.Context, tenantID id.TenantID, slots []id.SlotType) (map[id.SlotType]models.ResolutionResult, error) {
	if len(slots) == 0 {
		return map[id.SlotType]models.ResolutionResult{}, nil
	}
	if err := validation.CheckSliceCount("slots", len(slots), validation.MaxSlotsPerRequest); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(map[id.SlotType]models.ResolutionResult, len(slots))

	for _, slot := range slots {
		slot := slot
		g.Go(func() error {
			res, err := r.ResolveContent(ctx, tenantID, slot)
			if err != nil {
				return err
			}
			mu.Lock()
			results[slot] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BaselineTenantID returns the id of the baseline tenant, zero when none is
// configured. The answer is cached with the same positive/negative TTL
// mechanism as hostname mappings.
func (r *FallbackResolver) BaselineTenantID(ctx context.Context) (id.TenantID, error) {
	if entry, ok := r.cache.Get(baselineCacheKey); ok {
		return entry.TenantID, nil
	}

	v, err, _ := r.group.Do(baselineCacheKey, func() (any, error) {
		fillCtx := context.WithoutCancel(ctx)

		tenant, err := r.store.FindBaselineTenant(fillCtx)
		if errors.Is(err, store.ErrNotFound) {
			// Valid state, not an error: tier 2 is simply skipped.
			r.cache.Put(baselineCacheKey, "")
			return id.TenantID(""), nil
		}
		if err != nil {
			return id.TenantID(""), err
		}

		r.cache.Put(baselineCacheKey, tenant.ID)
		return tenant.ID, nil
	})
	if err != nil {
		return "", err
	}
	return v.(id.TenantID), nil
}

// findDocument translates the store's not-found sentinel into a boolean and
// wraps genuine failures with a stable code.
func (r *FallbackResolver) findDocument(ctx context.Context, slot id.SlotType, tenantID id.TenantID) (*models.ContentDocument, bool, error) {
	doc, err := r.store.FindDocument(ctx, slot, tenantID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		if r.metrics != nil {
			r.metrics.IncrementStoreErrors()
		}
		return nil, false, dErrors.Wrap(err, dErrors.CodeUnavailable, "content store lookup failed")
	}
	return doc, true, nil
}
