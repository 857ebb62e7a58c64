package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"facet/internal/domaincache"
	"facet/internal/platform/middleware"
	"facet/internal/resolver"
	"facet/internal/site/models"
	id "facet/pkg/domain"
	dErrors "facet/pkg/domain-errors"
	"facet/pkg/platform/httputil"
)

// TenantResolver decides which tenant owns a request. It never fails; an
// unresolvable request degrades to the untenanted experience.
type TenantResolver interface {
	Resolve(ctx context.Context, hostname, path string) models.TenantResolution
}

// ContentResolver walks the tenant / baseline / default fallback chain.
type ContentResolver interface {
	ResolveContent(ctx context.Context, tenantID id.TenantID, slot id.SlotType) (models.ResolutionResult, error)
	ResolveSlots(ctx context.Context, tenantID id.TenantID, slots []id.SlotType) (map[id.SlotType]models.ResolutionResult, error)
}

// Handler is the thin HTTP layer. It delegates to the resolvers without
// embedding resolution logic so transport concerns remain isolated.
type Handler struct {
	tenants TenantResolver
	content ContentResolver
	cache   *domaincache.Cache
	logger  *slog.Logger
}

func NewHandler(tenants TenantResolver, content ContentResolver, cache *domaincache.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		tenants: tenants,
		content: content,
		cache:   cache,
		logger:  logger,
	}
}

// Register mounts the resolution and cache admin routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/resolve", h.HandleResolveTenant)
	r.Get("/content/{slot}", h.HandleResolveContent)
	r.Post("/page/resolve", h.HandleResolvePage)

	r.Get("/admin/cache", h.HandleCacheInspect)
	r.Delete("/admin/cache", h.HandleCacheClear)
	r.Delete("/admin/cache/{hostname}", h.HandleCacheInvalidate)
}

// HandleResolveTenant resolves the tenant for a host/path pair.
// The host query parameter mirrors what the edge would pass from the Host
// header; path is optional and only matters for /tenant/{id}/ overrides.
func (h *Handler) HandleResolveTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	host := r.URL.Query().Get("host")
	path := r.URL.Query().Get("path")
	if host == "" && path == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "host or path is required"))
		return
	}

	res := h.tenants.Resolve(ctx, host, path)
	out := toTenantResolutionResponse(res)
	if path != "" {
		out.RestPath = resolver.StripTenantPrefix(path)
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleResolveContent resolves a single content slot through the fallback
// chain. The tenant query parameter may be empty for untenanted requests.
func (h *Handler) HandleResolveContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	slot, err := id.ParseSlotType(chi.URLParam(r, "slot"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid slot"))
		return
	}

	var tenantID id.TenantID
	if raw := r.URL.Query().Get("tenant"); raw != "" {
		tenantID, err = id.ParseTenantID(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
			return
		}
	}

	res, err := h.content.ResolveContent(ctx, tenantID, slot)
	if err != nil {
		h.logger.ErrorContext(ctx, "content resolution failed",
			"error", err, "request_id", requestID, "slot", slot, "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toContentResponse(slot, res))
}

// HandleResolvePage answers one page view: the tenant decision plus every
// requested slot, resolved concurrently.
func (h *Handler) HandleResolvePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[PageRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	slots, err := req.SlotTypes()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tenant := h.tenants.Resolve(ctx, req.Host, req.Path)

	results, err := h.content.ResolveSlots(ctx, tenant.TenantID, slots)
	if err != nil {
		h.logger.ErrorContext(ctx, "page resolution failed",
			"error", err, "request_id", requestID, "host", req.Host, "tenant_id", tenant.TenantID)
		httputil.WriteError(w, err)
		return
	}

	response := PageResponse{
		Tenant: toTenantResolutionResponse(tenant),
		Slots:  make(map[string]ContentResponse, len(results)),
	}
	for slot, res := range results {
		response.Slots[slot.String()] = toContentResponse(slot, res)
	}

	httputil.WriteJSON(w, http.StatusOK, response)
}

// HandleCacheInspect returns cache counters and a snapshot of live entries.
func (h *Handler) HandleCacheInspect(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, CacheResponse{
		Stats:   h.cache.Stats(),
		Entries: h.cache.Entries(),
	})
}

// HandleCacheClear drops every cached domain mapping. Changed domain
// assignments become visible on the next request instead of after TTL expiry.
func (h *Handler) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	removed := h.cache.Clear()
	h.logger.InfoContext(r.Context(), "domain cache cleared",
		"removed", removed, "request_id", middleware.GetRequestID(r.Context()))
	httputil.WriteJSON(w, http.StatusOK, CacheInvalidationResponse{Removed: removed})
}

// HandleCacheInvalidate drops the mapping for one hostname.
func (h *Handler) HandleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	hostname := resolver.NormalizeHostname(chi.URLParam(r, "hostname"))
	if hostname == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "hostname is required"))
		return
	}

	if !h.cache.Invalidate(hostname) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "hostname not cached"))
		return
	}

	h.logger.InfoContext(r.Context(), "domain cache entry invalidated",
		"hostname", hostname, "request_id", middleware.GetRequestID(r.Context()))
	httputil.WriteJSON(w, http.StatusOK, CacheInvalidationResponse{Removed: 1})
}
