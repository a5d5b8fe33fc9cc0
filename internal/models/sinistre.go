package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// SINISTRE (CLAIM)
// ============================================================================

// Sinistre is the claim opened from a dispatched alert. The hospital id is
// copied from the alert at open time.
type Sinistre struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	SinistreNumber    string         `json:"sinistre_number" db:"sinistre_number"`
	AlertID           uuid.UUID      `json:"alert_id" db:"alert_id"`
	SubscriptionID    *uuid.UUID     `json:"subscription_id,omitempty" db:"subscription_id"`
	HospitalID        *uuid.UUID     `json:"hospital_id,omitempty" db:"hospital_id"`
	Status            SinistreStatus `json:"status" db:"status"`
	ClaimsAgentID     *string        `json:"claims_agent_id,omitempty" db:"claims_agent_id"`
	ReferringDoctorID *string        `json:"referring_doctor_id,omitempty" db:"referring_doctor_id"`
	Version           int            `json:"version" db:"version"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}
