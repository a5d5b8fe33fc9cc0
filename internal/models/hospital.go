package models

import (
	"time"

	"github.com/google/uuid"

	"assistance-service/internal/utils"
)

// ============================================================================
// HOSPITAL DIRECTORY
// ============================================================================

// Hospital is a directory entry read by the dispatch engine. The workflow
// engines never mutate hospitals.
type Hospital struct {
	ID          uuid.UUID             `json:"id" db:"id"`
	Name        string                `json:"name" db:"name"`
	Location    GeoJSONPoint          `json:"location" db:"location"`
	Active      bool                  `json:"active" db:"active"`
	Specialties utils.JSONB[[]string] `json:"specialties" db:"specialties"`
	BedCapacity int                   `json:"bed_capacity" db:"bed_capacity"`
	CreatedAt   time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at" db:"updated_at"`
}

// HasSpecialty reports whether the hospital offers the given specialty.
func (h *Hospital) HasSpecialty(specialty string) bool {
	for _, s := range h.Specialties.Data {
		if s == specialty {
			return true
		}
	}
	return false
}
