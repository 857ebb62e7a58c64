// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"regexp"

	dErrors "facet/pkg/domain-errors"
)

// TenantID is a stable, url-safe slug identifying a tenant (e.g. "acme-north").
// The zero value means "no tenant" and is a valid, meaningful state: domain
// resolution uses it for hosts no tenant claims, and content lookups use it
// for default-tier documents.
type TenantID string

// SlotType names a content slot on a page (e.g. "header", "hero",
// "subjectPage:algebra").
type SlotType string

// tenantIDPattern is the tenant id grammar: lowercase alphanumerics and
// hyphens, never leading, trailing, or doubled hyphens.
var tenantIDPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// maxTenantIDLen bounds ids so they stay usable as path segments and cache keys.
const maxTenantIDLen = 64

// ParseTenantID validates a tenant id at trust boundaries (handlers, path
// segments, API inputs).
func ParseTenantID(s string) (TenantID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tenant ID cannot be empty")
	}
	if len(s) > maxTenantIDLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tenant ID must be 64 characters or less")
	}
	if !tenantIDPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid tenant ID format")
	}
	return TenantID(s), nil
}

// ParseSlotType validates a slot type at trust boundaries.
func ParseSlotType(s string) (SlotType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "slot type cannot be empty")
	}
	for _, r := range s {
		if r <= ' ' || r == 0x7f {
			return "", dErrors.New(dErrors.CodeInvalidInput, "invalid slot type format")
		}
	}
	return SlotType(s), nil
}

func (id TenantID) String() string { return string(id) }
func (s SlotType) String() string  { return string(s) }

// IsZero checks - used for service-layer validation and fallback-tier selection.

func (id TenantID) IsZero() bool { return id == "" }
func (s SlotType) IsZero() bool  { return s == "" }
