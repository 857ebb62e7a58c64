// Package store defines the Content Store port and its implementations.
// The Content Store is the external source of truth for tenants and content
// documents; everything here is read-only from the core's perspective.
package store

import (
	"context"

	"facet/internal/sentinel"
	"facet/internal/site/models"
	id "facet/pkg/domain"
)

// ErrNotFound is returned when a tenant or document does not exist.
// Absence is an expected outcome, not an infrastructure failure.
var ErrNotFound = sentinel.ErrNotFound

// ErrUnavailable is returned when the backing store cannot be reached.
// Callers must treat it as a transient outage: fail open for the request and
// never cache the result.
var ErrUnavailable = sentinel.ErrUnavailable

// ContentStore is the port consumed by the resolvers. All calls are read-only
// and may fail with ErrUnavailable; callers apply their own timeouts via ctx.
type ContentStore interface {
	// FindTenantByDomain returns the active tenant claiming the normalized
	// hostname, or ErrNotFound. If the upstream data illegally lists several
	// claimants, implementations must pick deterministically (first result)
	// and record the anomaly rather than fail.
	FindTenantByDomain(ctx context.Context, hostname string) (*models.Tenant, error)

	// FindTenantByID returns the active tenant with the given id, or ErrNotFound.
	FindTenantByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)

	// FindBaselineTenant returns the single active tenant flagged as baseline,
	// or ErrNotFound when none is configured.
	FindBaselineTenant(ctx context.Context) (*models.Tenant, error)

	// FindDocument returns the active document for (slot, tenantID), or
	// ErrNotFound. A zero tenantID selects the default-tier document.
	FindDocument(ctx context.Context, slot id.SlotType, tenantID id.TenantID) (*models.ContentDocument, error)
}
