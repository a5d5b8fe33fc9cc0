package models

import (
	"time"

	"github.com/google/uuid"

	"assistance-service/internal/signoff"
)

// ============================================================================
// SUBSCRIPTION
// ============================================================================

// Subscription gate names, also the roles required to decide them.
const (
	GateMedical   = "medical"
	GateTechnical = "technical"
	GateFinal     = "final"
)

// Subscription is one traveler's coverage instance. AppliedPrice is frozen
// at creation time and never recomputed from the catalog. The three
// validation slots are independent; overall status turns active only when
// all three approve and rejected as soon as any one rejects.
// StartDate/EndDate are Unix seconds.
type Subscription struct {
	ID                 uuid.UUID          `json:"id" db:"id"`
	SubscriptionNumber string             `json:"subscription_number" db:"subscription_number"`
	UserID             string             `json:"user_id" db:"user_id"`
	ProductID          uuid.UUID          `json:"product_id" db:"product_id"`
	ProjectID          *uuid.UUID         `json:"project_id,omitempty" db:"project_id"`
	AppliedPrice       float64            `json:"applied_price" db:"applied_price"`
	StartDate          int64              `json:"start_date" db:"start_date"`
	EndDate            int64              `json:"end_date" db:"end_date"`
	Status             SubscriptionStatus `json:"status" db:"status"`

	MedicalStatus      signoff.Decision `json:"medical_status" db:"medical_status"`
	MedicalValidatorID *string          `json:"medical_validator_id,omitempty" db:"medical_validator_id"`
	MedicalValidatedAt *time.Time       `json:"medical_validated_at,omitempty" db:"medical_validated_at"`
	MedicalNotes       *string          `json:"medical_notes,omitempty" db:"medical_notes"`

	TechnicalStatus      signoff.Decision `json:"technical_status" db:"technical_status"`
	TechnicalValidatorID *string          `json:"technical_validator_id,omitempty" db:"technical_validator_id"`
	TechnicalValidatedAt *time.Time       `json:"technical_validated_at,omitempty" db:"technical_validated_at"`
	TechnicalNotes       *string          `json:"technical_notes,omitempty" db:"technical_notes"`

	FinalStatus      signoff.Decision `json:"final_status" db:"final_status"`
	FinalValidatorID *string          `json:"final_validator_id,omitempty" db:"final_validator_id"`
	FinalValidatedAt *time.Time       `json:"final_validated_at,omitempty" db:"final_validated_at"`
	FinalNotes       *string          `json:"final_notes,omitempty" db:"final_notes"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether validation decisions are still actionable.
func (s *Subscription) IsTerminal() bool {
	return s.Status != SubscriptionPending
}

// CoversInstant reports whether the subscription is active coverage at the
// given instant.
func (s *Subscription) CoversInstant(now int64) bool {
	return s.Status == SubscriptionActive && now >= s.StartDate && now <= s.EndDate
}

// Sheet assembles the three validation slots into a sign-off sheet. Gates
// can be decided in any order.
func (s *Subscription) Sheet() signoff.Sheet {
	return signoff.Sheet{
		Mode: signoff.AnyOrder,
		Gates: []signoff.Gate{
			{Name: GateMedical, Decision: s.MedicalStatus, ValidatorID: s.MedicalValidatorID, DecidedAt: s.MedicalValidatedAt, Notes: s.MedicalNotes},
			{Name: GateTechnical, Decision: s.TechnicalStatus, ValidatorID: s.TechnicalValidatorID, DecidedAt: s.TechnicalValidatedAt, Notes: s.TechnicalNotes},
			{Name: GateFinal, Decision: s.FinalStatus, ValidatorID: s.FinalValidatorID, DecidedAt: s.FinalValidatedAt, Notes: s.FinalNotes},
		},
	}
}

// ApplySheet writes a sheet back into the slots and recomputes the overall
// status. Rejected and active are terminal; gates left pending after a
// rejection stay pending but are no longer actionable.
func (s *Subscription) ApplySheet(sheet signoff.Sheet) {
	for i := range sheet.Gates {
		g := sheet.Gates[i]
		switch g.Name {
		case GateMedical:
			s.MedicalStatus, s.MedicalValidatorID, s.MedicalValidatedAt, s.MedicalNotes = g.Decision, g.ValidatorID, g.DecidedAt, g.Notes
		case GateTechnical:
			s.TechnicalStatus, s.TechnicalValidatorID, s.TechnicalValidatedAt, s.TechnicalNotes = g.Decision, g.ValidatorID, g.DecidedAt, g.Notes
		case GateFinal:
			s.FinalStatus, s.FinalValidatorID, s.FinalValidatedAt, s.FinalNotes = g.Decision, g.ValidatorID, g.DecidedAt, g.Notes
		}
	}

	if s.Status != SubscriptionPending {
		return
	}
	switch sheet.Outcome() {
	case signoff.OutcomeApproved:
		s.Status = SubscriptionActive
	case signoff.OutcomeRejected:
		s.Status = SubscriptionRejected
	}
}

// GateRole maps a subscription gate to the role allowed to decide it.
func GateRole(gate string) (Role, bool) {
	switch gate {
	case GateMedical:
		return RoleMedical, true
	case GateTechnical:
		return RoleTechnical, true
	case GateFinal:
		return RoleFinal, true
	default:
		return "", false
	}
}
