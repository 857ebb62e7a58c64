package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "facet/pkg/domain-errors"
)

func TestCheckSliceCount(t *testing.T) {
	assert.NoError(t, CheckSliceCount("slots", MaxSlotsPerRequest, MaxSlotsPerRequest))

	err := CheckSliceCount("slots", MaxSlotsPerRequest+1, MaxSlotsPerRequest)
	assert.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCheckStringLength(t *testing.T) {
	assert.NoError(t, CheckStringLength("hostname", "a.example.com", MaxHostnameLength))

	long := strings.Repeat("a", MaxHostnameLength+1)
	err := CheckStringLength("hostname", long, MaxHostnameLength)
	assert.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
