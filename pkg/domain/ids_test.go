package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "facet/pkg/domain-errors"
)

func TestParseTenantID_Valid(t *testing.T) {
	for _, s := range []string{"acme", "acme-north", "a", "0", "brand-42-eu"} {
		id, err := ParseTenantID(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, id.String())
		assert.False(t, id.IsZero())
	}
}

func TestParseTenantID_Invalid(t *testing.T) {
	cases := []string{
		"",
		"Acme",        // uppercase
		"acme_north",  // underscore
		"-acme",       // leading hyphen
		"acme-",       // trailing hyphen
		"acme--north", // doubled hyphen
		"acme north",
		"acme/north",
		strings.Repeat("a", 65),
	}
	for _, s := range cases {
		_, err := ParseTenantID(s)
		require.Error(t, err, "%q should not parse", s)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	}
}

func TestParseSlotType(t *testing.T) {
	slot, err := ParseSlotType("subjectPage:algebra")
	require.NoError(t, err)
	assert.Equal(t, SlotType("subjectPage:algebra"), slot)

	_, err = ParseSlotType("")
	require.Error(t, err)

	_, err = ParseSlotType("hero section")
	require.Error(t, err)
}

func TestTenantID_ZeroMeansNoTenant(t *testing.T) {
	var id TenantID
	assert.True(t, id.IsZero())
	assert.Equal(t, "", id.String())
}
