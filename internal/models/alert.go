package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// SOS ALERT
// ============================================================================

// Alert is an SOS trigger raised by a covered traveler. SubscriptionID stays
// nullable for imported legacy rows; the dispatch engine itself always
// requires active coverage at trigger time.
type Alert struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	AlertNumber    string        `json:"alert_number" db:"alert_number"`
	UserID         string        `json:"user_id" db:"user_id"`
	SubscriptionID *uuid.UUID    `json:"subscription_id,omitempty" db:"subscription_id"`
	Location       GeoJSONPoint  `json:"location" db:"location"`
	Address        string        `json:"address" db:"address"`
	Description    string        `json:"description" db:"description"`
	Priority       AlertPriority `json:"priority" db:"priority"`
	Specialty      *string       `json:"specialty,omitempty" db:"specialty"`
	Status         AlertStatus   `json:"status" db:"status"`
	HospitalID     *uuid.UUID    `json:"hospital_id,omitempty" db:"hospital_id"`
	DistanceKm     *float64      `json:"distance_km,omitempty" db:"distance_km"`
	Version        int           `json:"version" db:"version"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// CanTransitionTo enforces the forward-only alert lifecycle:
// open → assigned → in_progress → closed, with cancellation possible while
// still open or assigned.
func (a *Alert) CanTransitionTo(next AlertStatus) bool {
	switch a.Status {
	case AlertOpen:
		return next == AlertAssigned || next == AlertCancelled
	case AlertAssigned:
		return next == AlertInProgress || next == AlertCancelled
	case AlertInProgress:
		return next == AlertClosed
	default:
		return false
	}
}
