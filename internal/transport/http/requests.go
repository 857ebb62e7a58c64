package httptransport

import (
	id "facet/pkg/domain"
	dErrors "facet/pkg/domain-errors"
	s "facet/pkg/string"
	"facet/pkg/validation"
)

// PageRequest asks for the requesting tenant plus a batch of content slots in
// one round trip, the shape the render layer uses per page view.
type PageRequest struct {
	Host  string   `json:"host" validate:"omitempty,max=255"`
	Path  string   `json:"path" validate:"omitempty,max=2048"`
	Slots []string `json:"slots" validate:"required,min=1,max=32,dive,notblank"`
}

func (r *PageRequest) Normalize() {
	s.TrimStrings(&r.Host, &r.Path)
	s.TrimSlice(r.Slots)
}

func (r *PageRequest) Validate() error {
	return validation.Validate(r)
}

// SlotTypes parses the raw slot names. One invalid name rejects the whole
// request; partial batches would hide typos from the caller.
func (r *PageRequest) SlotTypes() ([]id.SlotType, error) {
	slots := make([]id.SlotType, 0, len(r.Slots))
	for _, raw := range r.Slots {
		slot, err := id.ParseSlotType(raw)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid slot "+raw)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
