package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "facet/pkg/domain-errors"
)

type sampleRequest struct {
	Host  string   `validate:"omitempty,max=10"`
	Slots []string `validate:"required,min=1,dive,notblank"`
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(&sampleRequest{Host: "a.example", Slots: []string{"hero"}}))
}

func TestValidate_RequiredSlice(t *testing.T) {
	err := Validate(&sampleRequest{Host: "a.example"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "slots is required")
}

func TestValidate_NotBlankElement(t *testing.T) {
	err := Validate(&sampleRequest{Slots: []string{"   "}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be blank")
}

func TestValidate_MaxLength(t *testing.T) {
	err := Validate(&sampleRequest{Host: "far-too-long-hostname", Slots: []string{"hero"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host must have at most 10")
}
