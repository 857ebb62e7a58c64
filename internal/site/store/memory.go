package store

import (
	"context"
	"log/slog"
	"sync"

	"facet/internal/site/models"
	id "facet/pkg/domain"
	pstrings "facet/pkg/platform/strings"
)

// InMemory serves tenants and documents from memory. It backs the dev
// environment and tests; production uses the HTTP Client against the CMS.
type InMemory struct {
	mu      sync.RWMutex
	tenants []*models.Tenant // insertion order kept for deterministic tie-breaks
	byID    map[id.TenantID]*models.Tenant
	docs    []*models.ContentDocument
	logger  *slog.Logger
}

// NewInMemory creates an empty in-memory content store.
func NewInMemory(logger *slog.Logger) *InMemory {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemory{
		byID:   make(map[id.TenantID]*models.Tenant),
		logger: logger,
	}
}

// AddTenant registers a tenant. Last write wins for a given id. Domain
// claims are deduped and lowercased so lookups match normalized hostnames.
func (s *InMemory) AddTenant(t *models.Tenant) {
	t.Domains = pstrings.DedupeAndTrimLower(t.Domains)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[t.ID]; !exists {
		s.tenants = append(s.tenants, t)
	} else {
		for i, existing := range s.tenants {
			if existing.ID == t.ID {
				s.tenants[i] = t
				break
			}
		}
	}
	s.byID[t.ID] = t
}

// AddDocument registers a content document.
func (s *InMemory) AddDocument(d *models.ContentDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, d)
}

// RemoveDocuments deletes all documents for (slot, tenantID). Used by tests to
// exercise fallback degradation.
func (s *InMemory) RemoveDocuments(slot id.SlotType, tenantID id.TenantID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.docs[:0]
	for _, d := range s.docs {
		if d.SlotType != slot || d.TenantID != tenantID {
			kept = append(kept, d)
		}
	}
	s.docs = kept
}

// FindTenantByDomain returns the first active tenant claiming the hostname.
func (s *InMemory) FindTenantByDomain(_ context.Context, hostname string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.Tenant
	claimants := 0
	for _, t := range s.tenants {
		if t.IsActive() && t.OwnsDomain(hostname) {
			claimants++
			if found == nil {
				found = t
			}
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	if claimants > 1 {
		// Upstream invariant violated; resolve deterministically and move on.
		s.logger.Warn("multiple active tenants claim domain",
			"hostname", hostname,
			"claimants", claimants,
			"chosen", found.ID.String(),
		)
	}
	return found, nil
}

// FindTenantByID returns the active tenant with the given id.
func (s *InMemory) FindTenantByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.byID[tenantID]; ok && t.IsActive() {
		return t, nil
	}
	return nil, ErrNotFound
}

// FindBaselineTenant returns the single active baseline tenant.
func (s *InMemory) FindBaselineTenant(_ context.Context) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tenants {
		if t.IsActive() && t.Baseline {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

// FindDocument returns the first active document for (slot, tenantID).
func (s *InMemory) FindDocument(_ context.Context, slot id.SlotType, tenantID id.TenantID) (*models.ContentDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.ContentDocument
	matches := 0
	for _, d := range s.docs {
		if d.Active && d.SlotType == slot && d.TenantID == tenantID {
			matches++
			if found == nil {
				found = d
			}
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	if matches > 1 {
		s.logger.Warn("multiple active documents for slot",
			"slot", slot.String(),
			"tenant_id", tenantID.String(),
			"matches", matches,
		)
	}
	return found, nil
}

var _ ContentStore = (*InMemory)(nil)
