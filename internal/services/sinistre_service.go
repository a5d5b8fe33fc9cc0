package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"assistance-service/internal/apperrors"
	"assistance-service/internal/auth"
	"assistance-service/internal/event"
	"assistance-service/internal/models"
	"assistance-service/internal/signoff"
	"assistance-service/internal/utils"
)

// SinistreService converts dispatched alerts into claims, tracks the
// in-hospital stay state machine and runs the invoice validation chain.
type SinistreService struct {
	sinistreStore SinistreStore
	stayStore     HospitalStayStore
	invoiceStore  InvoiceStore
	alertStore    AlertStore
	hospitalStore HospitalStore
	roleChecker   auth.RoleChecker
	notifier      Notifier
}

func NewSinistreService(
	sinistreStore SinistreStore,
	stayStore HospitalStayStore,
	invoiceStore InvoiceStore,
	alertStore AlertStore,
	hospitalStore HospitalStore,
	roleChecker auth.RoleChecker,
	notifier Notifier,
) *SinistreService {
	return &SinistreService{
		sinistreStore: sinistreStore,
		stayStore:     stayStore,
		invoiceStore:  invoiceStore,
		alertStore:    alertStore,
		hospitalStore: hospitalStore,
		roleChecker:   roleChecker,
		notifier:      notifier,
	}
}

// OpenClaim creates the sinistre for a dispatched alert, copying the
// assigned hospital and recording the referring physician when one is
// named.
func (s *SinistreService) OpenClaim(ctx context.Context, alertID uuid.UUID, claimsAgentID, referringDoctorID *string) (*models.Sinistre, error) {
	alert, err := s.alertStore.GetByID(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert: %w", err)
	}
	if alert.Status != models.AlertAssigned && alert.Status != models.AlertInProgress {
		return nil, apperrors.Newf(apperrors.KindAlertNotAssigned,
			"alert %s is %s, claim requires a dispatched alert", alert.AlertNumber, alert.Status)
	}

	sinistre := &models.Sinistre{
		ID:                uuid.New(),
		SinistreNumber:    "SIN" + utils.GenerateRandomStringWithLength(9),
		AlertID:           alert.ID,
		SubscriptionID:    alert.SubscriptionID,
		HospitalID:        alert.HospitalID,
		Status:            models.SinistreOpen,
		ClaimsAgentID:     claimsAgentID,
		ReferringDoctorID: referringDoctorID,
	}

	if err := s.sinistreStore.Create(ctx, sinistre); err != nil {
		return nil, fmt.Errorf("failed to persist sinistre: %w", err)
	}

	slog.Info("Claim opened",
		"sinistre_id", sinistre.ID,
		"sinistre_number", sinistre.SinistreNumber,
		"alert_id", alert.ID)
	return sinistre, nil
}

// AdmitPatient opens a hospital stay on an open claim.
func (s *SinistreService) AdmitPatient(ctx context.Context, sinistreID uuid.UUID, createdBy string, req models.AdmitPatientRequest) (*models.HospitalStay, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid admission request", err)
	}

	sinistre, err := s.sinistreStore.GetByID(ctx, sinistreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sinistre: %w", err)
	}
	if sinistre.Status != models.SinistreOpen {
		return nil, apperrors.Newf(apperrors.KindInvalidStayState,
			"sinistre %s is %s, admission requires an open claim", sinistre.SinistreNumber, sinistre.Status)
	}

	if _, err := s.hospitalStore.GetByID(ctx, req.HospitalID); err != nil {
		return nil, fmt.Errorf("failed to load hospital: %w", err)
	}

	stay := &models.HospitalStay{
		ID:         uuid.New(),
		SinistreID: sinistre.ID,
		HospitalID: req.HospitalID,
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		CreatedBy:  &createdBy,
		Status:     models.StayAdmitted,
	}

	if err := s.stayStore.Create(ctx, stay); err != nil {
		return nil, fmt.Errorf("failed to persist hospital stay: %w", err)
	}

	// The claim moves under review once a patient is admitted.
	sinistre.Status = models.SinistreInReview
	if err := s.sinistreStore.Update(ctx, sinistre); err != nil {
		slog.Error("Failed to move sinistre to in_review", "sinistre_id", sinistre.ID, "error", err)
	}

	slog.Info("Patient admitted", "stay_id", stay.ID, "sinistre_id", sinistre.ID, "hospital_id", req.HospitalID)
	return stay, nil
}

// SubmitReport attaches the medical report to a stay and stamps submission.
// All report fields are required.
func (s *SinistreService) SubmitReport(ctx context.Context, stayID uuid.UUID, report models.StayReport) (*models.HospitalStay, error) {
	if errs := report.Validate(); len(errs) > 0 {
		return nil, apperrors.Newf(apperrors.KindInvalidInput, "incomplete report: %s", errs[0].Message)
	}

	stay, err := s.stayStore.GetByID(ctx, stayID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hospital stay: %w", err)
	}
	if !stay.AcceptsReport() {
		return nil, apperrors.Newf(apperrors.KindInvalidStayState,
			"stay %s is %s, report requires admitted or report_pending", stay.ID, stay.Status)
	}

	now := time.Now()
	stay.Report = utils.NewJSONB(report)
	stay.Status = models.StayReportSubmitted
	stay.ReportSubmittedAt = &now

	if err := s.stayStore.Update(ctx, stay); err != nil {
		return nil, err
	}

	slog.Info("Stay report submitted", "stay_id", stay.ID)
	return stay, nil
}

// ReopenReport sends a submitted report back for completion.
func (s *SinistreService) ReopenReport(ctx context.Context, stayID uuid.UUID) (*models.HospitalStay, error) {
	stay, err := s.stayStore.GetByID(ctx, stayID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hospital stay: %w", err)
	}
	if stay.Status != models.StayReportSubmitted {
		return nil, apperrors.Newf(apperrors.KindInvalidStayState,
			"stay %s is %s, only a submitted report can be reopened", stay.ID, stay.Status)
	}

	stay.Status = models.StayReportPending
	if err := s.stayStore.Update(ctx, stay); err != nil {
		return nil, err
	}
	return stay, nil
}

// ValidateStay approves a submitted report. Requires the medical role.
func (s *SinistreService) ValidateStay(ctx context.Context, stayID uuid.UUID, validatorID, notes string) (*models.HospitalStay, error) {
	allowed, err := s.roleChecker.HasRole(ctx, validatorID, models.RoleMedical)
	if err != nil {
		return nil, fmt.Errorf("role check failed: %w", err)
	}
	if !allowed {
		return nil, apperrors.Newf(apperrors.KindUnauthorized,
			"validator %s lacks the medical role", validatorID)
	}

	stay, err := s.stayStore.GetByID(ctx, stayID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hospital stay: %w", err)
	}
	if stay.Status != models.StayReportSubmitted {
		return nil, apperrors.Newf(apperrors.KindInvalidStayState,
			"stay %s is %s, validation requires report_submitted", stay.ID, stay.Status)
	}

	now := time.Now()
	stay.Status = models.StayValidated
	stay.ValidatorID = &validatorID
	stay.ValidatedAt = &now
	if notes != "" {
		stay.ValidationNotes = &notes
	}

	if err := s.stayStore.Update(ctx, stay); err != nil {
		return nil, err
	}

	slog.Info("Stay validated", "stay_id", stay.ID, "validator_id", validatorID)
	return stay, nil
}

// DischargePatient closes a validated stay.
func (s *SinistreService) DischargePatient(ctx context.Context, stayID uuid.UUID) (*models.HospitalStay, error) {
	stay, err := s.stayStore.GetByID(ctx, stayID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hospital stay: %w", err)
	}
	if stay.Status != models.StayValidated {
		return nil, apperrors.Newf(apperrors.KindInvalidStayState,
			"stay %s is %s, discharge requires validated", stay.ID, stay.Status)
	}

	stay.Status = models.StayDischarged
	if err := s.stayStore.Update(ctx, stay); err != nil {
		return nil, err
	}

	slog.Info("Patient discharged", "stay_id", stay.ID)
	return stay, nil
}

// CreateInvoice opens the validation chain for a discharged stay. The first
// pending stage is medical, so the invoice starts at pending_medical.
func (s *SinistreService) CreateInvoice(ctx context.Context, stayID uuid.UUID, req models.CreateInvoiceRequest) (*models.Invoice, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid invoice request", err)
	}

	stay, err := s.stayStore.GetByID(ctx, stayID)
	if err != nil {
		return nil, fmt.Errorf("failed to load hospital stay: %w", err)
	}
	if stay.Status != models.StayDischarged {
		return nil, apperrors.Newf(apperrors.KindInvalidStayState,
			"stay %s is %s, invoicing requires discharged", stay.ID, stay.Status)
	}

	invoice := &models.Invoice{
		ID:             uuid.New(),
		InvoiceNumber:  "INV" + utils.GenerateRandomStringWithLength(9),
		StayID:         stay.ID,
		Amount:         req.Amount,
		Status:         models.InvoicePendingMedical,
		MedicalStatus:  signoff.Pending,
		SinistreStatus: signoff.Pending,
		ComptaStatus:   signoff.Pending,
	}

	if err := s.invoiceStore.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to persist invoice: %w", err)
	}

	slog.Info("Invoice created",
		"invoice_id", invoice.ID,
		"invoice_number", invoice.InvoiceNumber,
		"stay_id", stay.ID,
		"amount", invoice.Amount)
	return invoice, nil
}

// ValidateInvoiceStage applies one stage decision in strict order:
// medical, then sinistre, then compta. A rejection at any stage is terminal.
func (s *SinistreService) ValidateInvoiceStage(ctx context.Context, invoiceID uuid.UUID, validatorID string, req models.ValidateInvoiceStageRequest) (*models.Invoice, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid stage request", err)
	}

	role, _ := models.StageRole(req.Stage)
	allowed, err := s.roleChecker.HasRole(ctx, validatorID, role)
	if err != nil {
		return nil, fmt.Errorf("role check failed: %w", err)
	}
	if !allowed {
		return nil, apperrors.Newf(apperrors.KindUnauthorized,
			"validator %s lacks role %s for stage %s", validatorID, role, req.Stage)
	}

	invoice, err := s.invoiceStore.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice.IsTerminal() {
		return nil, apperrors.Newf(apperrors.KindInvalidTransition,
			"invoice %s is %s, no further stage decisions possible", invoice.InvoiceNumber, invoice.Status)
	}

	sheet := invoice.Sheet()
	if err := sheet.Record(req.Stage, req.Decision, validatorID, "", time.Now()); err != nil {
		return nil, err
	}

	previousStatus := invoice.Status
	invoice.ApplySheet(sheet)

	if err := s.invoiceStore.Update(ctx, invoice); err != nil {
		return nil, err
	}

	slog.Info("Invoice stage decided",
		"invoice_id", invoice.ID,
		"stage", req.Stage,
		"decision", req.Decision,
		"status", invoice.Status)

	if invoice.Status == models.InvoiceApproved && previousStatus != models.InvoiceApproved && s.notifier != nil {
		err := s.notifier.PublishWorkflowEvent(ctx, event.EventInvoiceApproved, nil,
			"Invoice approved",
			fmt.Sprintf("Invoice %s cleared all validations", invoice.InvoiceNumber),
			map[string]interface{}{"invoice_id": invoice.ID.String()})
		if err != nil {
			slog.Error("Failed to publish invoice event", "invoice_id", invoice.ID, "error", err)
		}
	}

	return invoice, nil
}

// MarkPaid settles an approved invoice. The only path to paid.
func (s *SinistreService) MarkPaid(ctx context.Context, invoiceID uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceStore.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice.Status != models.InvoiceApproved {
		return nil, apperrors.Newf(apperrors.KindInvalidTransition,
			"invoice %s is %s, payment requires approved", invoice.InvoiceNumber, invoice.Status)
	}

	now := time.Now()
	invoice.Status = models.InvoicePaid
	invoice.PaidAt = &now

	if err := s.invoiceStore.Update(ctx, invoice); err != nil {
		return nil, err
	}

	slog.Info("Invoice paid", "invoice_id", invoice.ID)

	if s.notifier != nil {
		err := s.notifier.PublishWorkflowEvent(ctx, event.EventInvoicePaid, nil,
			"Invoice paid",
			fmt.Sprintf("Invoice %s released for payment", invoice.InvoiceNumber),
			map[string]interface{}{"invoice_id": invoice.ID.String()})
		if err != nil {
			slog.Error("Failed to publish invoice event", "invoice_id", invoice.ID, "error", err)
		}
	}

	return invoice, nil
}

// GetSinistre returns one claim by id.
func (s *SinistreService) GetSinistre(ctx context.Context, id uuid.UUID) (*models.Sinistre, error) {
	return s.sinistreStore.GetByID(ctx, id)
}

// GetStay returns one hospital stay by id.
func (s *SinistreService) GetStay(ctx context.Context, id uuid.UUID) (*models.HospitalStay, error) {
	return s.stayStore.GetByID(ctx, id)
}

// GetInvoice returns one invoice by id.
func (s *SinistreService) GetInvoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceStore.GetByID(ctx, id)
}

// CloseClaim closes a sinistre once its stays are discharged.
func (s *SinistreService) CloseClaim(ctx context.Context, sinistreID uuid.UUID) (*models.Sinistre, error) {
	sinistre, err := s.sinistreStore.GetByID(ctx, sinistreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sinistre: %w", err)
	}
	if sinistre.Status == models.SinistreClosed {
		return nil, apperrors.Newf(apperrors.KindInvalidTransition,
			"sinistre %s is already closed", sinistre.SinistreNumber)
	}

	stays, err := s.stayStore.GetBySinistreID(ctx, sinistre.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stays: %w", err)
	}
	for i := range stays {
		if stays[i].Status != models.StayDischarged {
			return nil, apperrors.Newf(apperrors.KindInvalidStayState,
				"stay %s is %s, claim closure requires all stays discharged", stays[i].ID, stays[i].Status)
		}
	}

	sinistre.Status = models.SinistreClosed
	if err := s.sinistreStore.Update(ctx, sinistre); err != nil {
		return nil, err
	}

	slog.Info("Claim closed", "sinistre_id", sinistre.ID)
	return sinistre, nil
}
