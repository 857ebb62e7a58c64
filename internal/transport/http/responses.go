package httptransport

import (
	"encoding/json"

	"facet/internal/domaincache"
	"facet/internal/site/models"
	id "facet/pkg/domain"
)

// TenantResolutionResponse reports which tenant a request belongs to and how
// that was decided. RestPath is the request path with any /tenant/{id} prefix
// stripped, ready for downstream routing.
type TenantResolutionResponse struct {
	TenantID string `json:"tenant_id,omitempty"`
	Source   string `json:"source"`
	RestPath string `json:"rest_path,omitempty"`
}

// ContentResponse carries one resolved slot. A "none" source has no payload.
type ContentResponse struct {
	Slot    string          `json:"slot"`
	Source  string          `json:"source"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PageResponse bundles the tenant decision with every requested slot.
type PageResponse struct {
	Tenant TenantResolutionResponse   `json:"tenant"`
	Slots  map[string]ContentResponse `json:"slots"`
}

// CacheResponse is the admin view of the domain cache.
type CacheResponse struct {
	Stats   domaincache.Stats       `json:"stats"`
	Entries []domaincache.EntryView `json:"entries"`
}

// CacheInvalidationResponse reports how many entries an admin call removed.
type CacheInvalidationResponse struct {
	Removed int `json:"removed"`
}

// Response mapping functions - convert domain objects to HTTP DTOs

func toTenantResolutionResponse(res models.TenantResolution) TenantResolutionResponse {
	return TenantResolutionResponse{
		TenantID: res.TenantID.String(),
		Source:   string(res.Source),
	}
}

func toContentResponse(slot id.SlotType, res models.ResolutionResult) ContentResponse {
	out := ContentResponse{
		Slot:   slot.String(),
		Source: string(res.Source),
	}
	if res.Document != nil {
		out.Payload = res.Document.Payload
	}
	return out
}
