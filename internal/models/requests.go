package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"assistance-service/internal/signoff"
)

// Helper functions for validation
func trimAndValidateString(str string, fieldName string, minLen, maxLen int) error {
	trimmed := strings.TrimSpace(str)
	if len(trimmed) < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if len(trimmed) > maxLen {
		return fmt.Errorf("%s must be %d characters or less", fieldName, maxLen)
	}
	return nil
}

func isValidPriority(priority AlertPriority) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func isValidDecision(decision signoff.Decision) bool {
	return decision == signoff.Approved || decision == signoff.Rejected
}

type CreateTravelProjectRequest struct {
	Destination      string `json:"destination" validate:"required,min=1,max=120"`
	DestinationCode  string `json:"destination_code" validate:"required,len=2"`
	DepartureDate    *int64 `json:"departure_date,omitempty"`
	ReturnDate       *int64 `json:"return_date,omitempty"`
	ParticipantCount int    `json:"participant_count" validate:"required,min=1"`
}

func (r CreateTravelProjectRequest) Validate() error {
	if err := trimAndValidateString(r.Destination, "destination", 1, 120); err != nil {
		return err
	}
	if len(r.DestinationCode) != 2 {
		return fmt.Errorf("destination_code must be an ISO alpha-2 country code")
	}
	if r.ParticipantCount < 1 {
		return fmt.Errorf("participant_count must be at least 1")
	}
	if r.DepartureDate != nil && r.ReturnDate != nil && *r.ReturnDate < *r.DepartureDate {
		return fmt.Errorf("return_date must not precede departure_date")
	}
	return nil
}

type CreateSubscriptionRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	StartDate *int64     `json:"start_date,omitempty"`
	EndDate   *int64     `json:"end_date,omitempty"`
}

func (r CreateSubscriptionRequest) Validate() error {
	if r.ProductID == uuid.Nil {
		return fmt.Errorf("product_id is required")
	}
	if r.StartDate != nil && r.EndDate != nil && *r.EndDate < *r.StartDate {
		return fmt.Errorf("end_date must not precede start_date")
	}
	return nil
}

type RecordValidationRequest struct {
	Gate     string           `json:"gate" validate:"required"`
	Decision signoff.Decision `json:"decision" validate:"required"`
	Notes    string           `json:"notes,omitempty"`
}

func (r RecordValidationRequest) Validate() error {
	if _, ok := GateRole(r.Gate); !ok {
		return fmt.Errorf("gate must be one of medical, technical, final")
	}
	if !isValidDecision(r.Decision) {
		return fmt.Errorf("decision must be approved or rejected")
	}
	return nil
}

type TriggerAlertRequest struct {
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
	Address     string        `json:"address" validate:"max=255"`
	Description string        `json:"description" validate:"required,min=1,max=2000"`
	Priority    AlertPriority `json:"priority" validate:"required"`
	Specialty   *string       `json:"specialty,omitempty"`
}

func (r TriggerAlertRequest) Validate() error {
	if err := trimAndValidateString(r.Description, "description", 1, 2000); err != nil {
		return err
	}
	if !isValidPriority(r.Priority) {
		return fmt.Errorf("priority must be low, medium or high")
	}
	hasCoords := r.Latitude != nil && r.Longitude != nil
	if !hasCoords && strings.TrimSpace(r.Address) == "" {
		return fmt.Errorf("either coordinates or an address is required")
	}
	return nil
}

type AdmitPatientRequest struct {
	HospitalID uuid.UUID `json:"hospital_id" validate:"required"`
	PatientID  *string   `json:"patient_id,omitempty"`
	DoctorID   *string   `json:"doctor_id,omitempty"`
}

func (r AdmitPatientRequest) Validate() error {
	if r.HospitalID == uuid.Nil {
		return fmt.Errorf("hospital_id is required")
	}
	return nil
}

type ValidateInvoiceStageRequest struct {
	Stage    string           `json:"stage" validate:"required"`
	Decision signoff.Decision `json:"decision" validate:"required"`
}

func (r ValidateInvoiceStageRequest) Validate() error {
	if _, ok := StageRole(r.Stage); !ok {
		return fmt.Errorf("stage must be one of medical, sinistre, compta")
	}
	if !isValidDecision(r.Decision) {
		return fmt.Errorf("decision must be approved or rejected")
	}
	return nil
}

type CreateInvoiceRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (r CreateInvoiceRequest) Validate() error {
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}
