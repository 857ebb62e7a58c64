package seeder

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facet/internal/site/store"
)

func TestSeedAll(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewInMemory(logger)
	require.NoError(t, New(st, logger).SeedAll())

	ctx := context.Background()

	tenant, err := st.FindTenantByDomain(ctx, "acme.example.com")
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant.ID.String())

	baseline, err := st.FindBaselineTenant(ctx)
	require.NoError(t, err)
	assert.Equal(t, "reference", baseline.ID.String())
	assert.True(t, baseline.Baseline)

	// acme has its own hero; pricing only exists at the baseline tier.
	doc, err := st.FindDocument(ctx, "hero", "acme")
	require.NoError(t, err)
	assert.Contains(t, string(doc.Payload), "Acme")

	_, err = st.FindDocument(ctx, "pricing", "acme")
	assert.ErrorIs(t, err, store.ErrNotFound)

	doc, err = st.FindDocument(ctx, "pricing", baseline.ID)
	require.NoError(t, err)
	assert.Contains(t, string(doc.Payload), "tiers")

	// footer only exists as an untenanted default.
	doc, err = st.FindDocument(ctx, "footer", "")
	require.NoError(t, err)
	assert.True(t, doc.Active)
}
