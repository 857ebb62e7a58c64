package models

import (
	"encoding/json"
	"time"

	id "facet/pkg/domain"
	dErrors "facet/pkg/domain-errors"
)

// TenantStatus is the lifecycle state of a tenant.
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

// Tenant is one brand variant of the site. The Content Store is the source of
// truth; this core only ever reads tenants. Invariants owned upstream: at most
// one active tenant is the baseline, and a domain belongs to at most one
// active tenant.
type Tenant struct {
	ID        id.TenantID  `json:"id"`
	Name      string       `json:"name"`
	Status    TenantStatus `json:"status"`
	Baseline  bool         `json:"baseline"`
	Domains   []string     `json:"domains"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// OwnsDomain reports whether the tenant claims the given normalized hostname.
func (t *Tenant) OwnsDomain(hostname string) bool {
	for _, d := range t.Domains {
		if d == hostname {
			return true
		}
	}
	return false
}

// NewTenant builds an active tenant, enforcing local invariants. Used by the
// in-memory store and tests; production tenants come from the CMS as-is.
func NewTenant(tenantID id.TenantID, name string, now time.Time) (*Tenant, error) {
	if tenantID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant ID cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	return &Tenant{
		ID:        tenantID,
		Name:      name,
		Status:    TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ContentDocument is one version of a content slot. A zero TenantID marks the
// default document not associated with any tenant. Payload is opaque to this
// core; its shape belongs to the Render Layer.
type ContentDocument struct {
	SlotType id.SlotType     `json:"slot_type"`
	TenantID id.TenantID     `json:"tenant_id,omitempty"`
	Active   bool            `json:"active"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// ContentSource names the fallback tier that satisfied a content lookup.
type ContentSource string

const (
	ContentSourceTenant   ContentSource = "tenant"
	ContentSourceBaseline ContentSource = "baseline"
	ContentSourceDefault  ContentSource = "default"
	ContentSourceNone     ContentSource = "none"
)

// ResolutionResult is the outcome of a content fallback lookup. A nil Document
// with ContentSourceNone is a valid outcome, not an error.
type ResolutionResult struct {
	Document *ContentDocument `json:"document"`
	Source   ContentSource    `json:"source"`
}

// ResolveSource names how a tenant was (or was not) determined for a request.
type ResolveSource string

const (
	ResolveSourceDomain ResolveSource = "domain"
	ResolveSourcePath   ResolveSource = "path"
	ResolveSourceNone   ResolveSource = "none"
)

// TenantResolution is the outcome of resolving the requesting tenant. A zero
// TenantID with ResolveSourceDomain means the domain is confirmed untenanted;
// with ResolveSourceNone it means the store could not be consulted and the
// request should fail open to the untenanted experience.
type TenantResolution struct {
	TenantID id.TenantID   `json:"tenant_id,omitempty"`
	Source   ResolveSource `json:"source"`
}
