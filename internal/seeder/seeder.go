// Package seeder populates the in-memory content store with demo data so a
// dev process answers real resolutions without a CMS behind it.
package seeder

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"facet/internal/site/models"
	"facet/internal/site/store"
	id "facet/pkg/domain"
)

// Seeder populates an in-memory store with demo tenants and content.
type Seeder struct {
	store  *store.InMemory
	logger *slog.Logger
}

// New creates a new seeder.
func New(st *store.InMemory, logger *slog.Logger) *Seeder {
	return &Seeder{store: st, logger: logger}
}

// SeedAll populates the store with demo tenants and content documents.
func (s *Seeder) SeedAll() error {
	s.logger.Info("seeding demo data...")

	tenants, err := s.seedTenants()
	if err != nil {
		return fmt.Errorf("failed to seed tenants: %w", err)
	}

	docs := s.seedDocuments()

	s.logger.Info("demo data seeded successfully",
		"tenants", tenants,
		"documents", docs,
	)

	return nil
}

func (s *Seeder) seedTenants() (int, error) {
	demoTenants := []struct {
		id       id.TenantID
		name     string
		baseline bool
		domains  []string
	}{
		{"reference", "Reference Site", true, nil},
		{"acme", "Acme Corp", false, []string{"acme.example.com", "www.acme.example.com"}},
		{"zenith", "Zenith Labs", false, []string{"zenith.example.com"}},
		{"umbra", "Umbra Holdings", false, []string{"umbra.example.com"}},
	}

	for _, t := range demoTenants {
		tenant := &models.Tenant{
			ID:       t.id,
			Name:     t.name,
			Status:   models.TenantStatusActive,
			Baseline: t.baseline,
			Domains:  t.domains,
		}
		s.store.AddTenant(tenant)
	}

	return len(demoTenants), nil
}

func (s *Seeder) seedDocuments() int {
	docs := []struct {
		slot    id.SlotType
		tenant  id.TenantID
		payload map[string]any
	}{
		// acme customizes its hero and about page; everything else falls through.
		{"hero", "acme", map[string]any{"headline": "Acme ships faster", "cta": "/signup"}},
		{"about", "acme", map[string]any{"body": "Acme Corp, est. 2019."}},

		// zenith only customizes the hero.
		{"hero", "zenith", map[string]any{"headline": "Zenith Labs", "cta": "/demo"}},

		// baseline content covers the common slots.
		{"hero", "reference", map[string]any{"headline": "Welcome", "cta": "/start"}},
		{"about", "reference", map[string]any{"body": "About this platform."}},
		{"pricing", "reference", map[string]any{"tiers": []string{"free", "pro"}}},

		// defaults exist for slots every site must render.
		{"hero", "", map[string]any{"headline": "Hello"}},
		{"footer", "", map[string]any{"copyright": "2026"}},
	}

	for _, d := range docs {
		payload, _ := json.Marshal(d.payload)
		s.store.AddDocument(&models.ContentDocument{
			SlotType: d.slot,
			TenantID: d.tenant,
			Active:   true,
			Payload:  payload,
		})
	}

	return len(docs)
}
