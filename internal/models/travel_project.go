package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// TRAVEL PROJECT
// ============================================================================

// TravelProject is a traveler's trip record. Its dates and participant count
// feed pricing and eligibility checks at subscription time.
// Epoch fields are Unix seconds.
type TravelProject struct {
	ID               uuid.UUID           `json:"id" db:"id"`
	UserID           string              `json:"user_id" db:"user_id"`
	Destination      string              `json:"destination" db:"destination"`
	DestinationCode  string              `json:"destination_code" db:"destination_code"`
	DepartureDate    *int64              `json:"departure_date,omitempty" db:"departure_date"`
	ReturnDate       *int64              `json:"return_date,omitempty" db:"return_date"`
	ParticipantCount int                 `json:"participant_count" db:"participant_count"`
	Status           TravelProjectStatus `json:"status" db:"status"`
	Version          int                 `json:"version" db:"version"`
	CreatedAt        time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" db:"updated_at"`
}

// DurationDays returns the day-span of the trip, counting the departure day.
// A one-day trip (same departure and return date) spans one day.
func (p *TravelProject) DurationDays() int {
	if p.DepartureDate == nil || p.ReturnDate == nil {
		return 0
	}
	span := *p.ReturnDate - *p.DepartureDate
	if span < 0 {
		return 0
	}
	return int(span/86400) + 1
}
