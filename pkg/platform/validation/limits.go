package validation

import (
	"fmt"

	dErrors "facet/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// Sufficient for JSON APIs while preventing memory exhaustion attacks.
	MaxBodySize = 64 * 1024
)

// Slice element count limits
const (
	// MaxSlotsPerRequest bounds a batched page resolution. A page needing
	// more slots than this should be split by the render layer.
	MaxSlotsPerRequest = 32

	// MaxDomainsPerTenant is the maximum number of domains one tenant may claim.
	MaxDomainsPerTenant = 50
)

// String element length limits
const (
	// MaxHostnameLength is the maximum length of a hostname (RFC 1035).
	MaxHostnameLength = 255

	// MaxPathLength is the maximum length of a request path.
	MaxPathLength = 2048

	// MaxIdentifierLength is the maximum length of a tenant or slot identifier.
	MaxIdentifierLength = 64
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
