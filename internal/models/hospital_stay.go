package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"assistance-service/internal/utils"
)

// ============================================================================
// HOSPITAL STAY
// ============================================================================

// StayReport is the medical report attached to a stay. Motive, acts, exams
// and duration are all required for submission.
type StayReport struct {
	Motive        string   `json:"motive"`
	DurationHours float64  `json:"duration_hours"`
	Acts          []string `json:"acts"`
	Exams         []string `json:"exams"`
	Summary       string   `json:"summary"`
}

// Validate checks the report is complete enough to submit.
func (r *StayReport) Validate() []utils.ValidationError {
	var errs []utils.ValidationError
	if strings.TrimSpace(r.Motive) == "" {
		errs = append(errs, utils.ValidationError{Field: "motive", Message: "motive is required"})
	}
	if r.DurationHours <= 0 {
		errs = append(errs, utils.ValidationError{Field: "duration_hours", Message: "duration must be positive"})
	}
	if len(r.Acts) == 0 {
		errs = append(errs, utils.ValidationError{Field: "acts", Message: "at least one act is required"})
	}
	if len(r.Exams) == 0 {
		errs = append(errs, utils.ValidationError{Field: "exams", Message: "at least one exam is required"})
	}
	return errs
}

// HospitalStay tracks one in-hospital episode tied to a claim:
// admitted → report_submitted → validated → discharged, with report_pending
// as the reopened-report intermediate.
type HospitalStay struct {
	ID                uuid.UUID               `json:"id" db:"id"`
	SinistreID        uuid.UUID               `json:"sinistre_id" db:"sinistre_id"`
	HospitalID        uuid.UUID               `json:"hospital_id" db:"hospital_id"`
	PatientID         *string                 `json:"patient_id,omitempty" db:"patient_id"`
	DoctorID          *string                 `json:"doctor_id,omitempty" db:"doctor_id"`
	CreatedBy         *string                 `json:"created_by,omitempty" db:"created_by"`
	Status            StayStatus              `json:"status" db:"status"`
	Report            utils.JSONB[StayReport] `json:"report" db:"report"`
	ReportSubmittedAt *time.Time              `json:"report_submitted_at,omitempty" db:"report_submitted_at"`
	ReportDocumentURL *string                 `json:"report_document_url,omitempty" db:"report_document_url"`
	ValidatorID       *string                 `json:"validator_id,omitempty" db:"validator_id"`
	ValidatedAt       *time.Time              `json:"validated_at,omitempty" db:"validated_at"`
	ValidationNotes   *string                 `json:"validation_notes,omitempty" db:"validation_notes"`
	Version           int                     `json:"version" db:"version"`
	CreatedAt         time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at" db:"updated_at"`
}

// AcceptsReport reports whether a medical report may be submitted in the
// current state.
func (s *HospitalStay) AcceptsReport() bool {
	return s.Status == StayAdmitted || s.Status == StayReportPending
}
