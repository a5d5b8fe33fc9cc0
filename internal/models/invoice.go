package models

import (
	"time"

	"github.com/google/uuid"

	"assistance-service/internal/signoff"
)

// ============================================================================
// INVOICE
// ============================================================================

// Invoice validation stages, decided in this order.
const (
	StageMedical  = "medical"
	StageSinistre = "sinistre"
	StageCompta   = "compta"
)

// Invoice is the hospital-stay bill. It clears three sign-offs in strict
// order (medical → sinistre → compta) before approval; payment is a separate
// terminal step. Any stage rejection is terminal.
type Invoice struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	InvoiceNumber string        `json:"invoice_number" db:"invoice_number"`
	StayID        uuid.UUID     `json:"stay_id" db:"stay_id"`
	Amount        float64       `json:"amount" db:"amount"`
	Status        InvoiceStatus `json:"status" db:"status"`

	MedicalStatus      signoff.Decision `json:"medical_status" db:"medical_status"`
	MedicalValidatorID *string          `json:"medical_validator_id,omitempty" db:"medical_validator_id"`
	MedicalValidatedAt *time.Time       `json:"medical_validated_at,omitempty" db:"medical_validated_at"`

	SinistreStatus      signoff.Decision `json:"sinistre_status" db:"sinistre_status"`
	SinistreValidatorID *string          `json:"sinistre_validator_id,omitempty" db:"sinistre_validator_id"`
	SinistreValidatedAt *time.Time       `json:"sinistre_validated_at,omitempty" db:"sinistre_validated_at"`

	ComptaStatus      signoff.Decision `json:"compta_status" db:"compta_status"`
	ComptaValidatorID *string          `json:"compta_validator_id,omitempty" db:"compta_validator_id"`
	ComptaValidatedAt *time.Time       `json:"compta_validated_at,omitempty" db:"compta_validated_at"`

	PaidAt    *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether stage decisions are still actionable.
func (i *Invoice) IsTerminal() bool {
	switch i.Status {
	case InvoiceApproved, InvoiceRejected, InvoicePaid:
		return true
	}
	return false
}

// Sheet assembles the three stages into a strict-order sign-off sheet.
func (i *Invoice) Sheet() signoff.Sheet {
	return signoff.Sheet{
		Mode: signoff.StrictOrder,
		Gates: []signoff.Gate{
			{Name: StageMedical, Decision: i.MedicalStatus, ValidatorID: i.MedicalValidatorID, DecidedAt: i.MedicalValidatedAt},
			{Name: StageSinistre, Decision: i.SinistreStatus, ValidatorID: i.SinistreValidatorID, DecidedAt: i.SinistreValidatedAt},
			{Name: StageCompta, Decision: i.ComptaStatus, ValidatorID: i.ComptaValidatorID, DecidedAt: i.ComptaValidatedAt},
		},
	}
}

// ApplySheet writes a sheet back into the stage slots and recomputes the
// invoice status: pending_<next undecided stage>, approved when all three
// are approved, rejected on any rejection.
func (i *Invoice) ApplySheet(sheet signoff.Sheet) {
	for idx := range sheet.Gates {
		g := sheet.Gates[idx]
		switch g.Name {
		case StageMedical:
			i.MedicalStatus, i.MedicalValidatorID, i.MedicalValidatedAt = g.Decision, g.ValidatorID, g.DecidedAt
		case StageSinistre:
			i.SinistreStatus, i.SinistreValidatorID, i.SinistreValidatedAt = g.Decision, g.ValidatorID, g.DecidedAt
		case StageCompta:
			i.ComptaStatus, i.ComptaValidatorID, i.ComptaValidatedAt = g.Decision, g.ValidatorID, g.DecidedAt
		}
	}

	switch sheet.Outcome() {
	case signoff.OutcomeRejected:
		i.Status = InvoiceRejected
	case signoff.OutcomeApproved:
		i.Status = InvoiceApproved
	default:
		switch {
		case i.MedicalStatus == signoff.Pending:
			i.Status = InvoicePendingMedical
		case i.SinistreStatus == signoff.Pending:
			i.Status = InvoicePendingSinistre
		default:
			i.Status = InvoicePendingCompta
		}
	}
}

// StageRole maps an invoice stage to the role allowed to decide it.
func StageRole(stage string) (Role, bool) {
	switch stage {
	case StageMedical:
		return RoleMedical, true
	case StageSinistre:
		return RoleSinistre, true
	case StageCompta:
		return RoleCompta, true
	default:
		return "", false
	}
}
