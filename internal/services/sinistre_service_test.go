package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"assistance-service/internal/apperrors"
	"assistance-service/internal/event"
	"assistance-service/internal/models"
	"assistance-service/internal/signoff"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

type sinistreFixture struct {
	service   *SinistreService
	sinistres *memSinistreStore
	stays     *memHospitalStayStore
	invoices  *memInvoiceStore
	alerts    *memAlertStore
	hospitals *memHospitalStore
	notifier  *recordingNotifier
}

func newSinistreFixture() sinistreFixture {
	sinistres := newMemSinistreStore()
	stays := newMemHospitalStayStore()
	invoices := newMemInvoiceStore()
	alerts := newMemAlertStore()
	hospitals := newMemHospitalStore()
	notifier := &recordingNotifier{}
	return sinistreFixture{
		service:   NewSinistreService(sinistres, stays, invoices, alerts, hospitals, testRoleChecker(), notifier),
		sinistres: sinistres,
		stays:     stays,
		invoices:  invoices,
		alerts:    alerts,
		hospitals: hospitals,
		notifier:  notifier,
	}
}

func (f sinistreFixture) addAssignedAlert(t *testing.T) (*models.Alert, models.Hospital) {
	t.Helper()
	hospital := newTestHospital("City hospital", 48.86, 2.35)
	f.hospitals.add(hospital)

	alert := models.Alert{
		ID:          uuid.New(),
		AlertNumber: "ALRTEST00001",
		UserID:      "u-1",
		Location:    models.NewPoint(2.35, 48.85),
		Description: "test incident",
		Priority:    models.PriorityHigh,
		Status:      models.AlertAssigned,
		HospitalID:  &hospital.ID,
	}
	assert.NoError(t, f.alerts.Create(context.Background(), &alert))
	return &alert, hospital
}

func completeReport() models.StayReport {
	return models.StayReport{
		Motive:        "appendicitis",
		DurationHours: 36,
		Acts:          []string{"appendectomy"},
		Exams:         []string{"abdominal ultrasound"},
		Summary:       "uneventful recovery",
	}
}

// openStayAt walks a fresh claim's stay to the requested status.
func (f sinistreFixture) openStayAt(t *testing.T, target models.StayStatus) *models.HospitalStay {
	t.Helper()
	alert, hospital := f.addAssignedAlert(t)

	sinistre, err := f.service.OpenClaim(context.Background(), alert.ID, nil, nil)
	assert.NoError(t, err)

	stay, err := f.service.AdmitPatient(context.Background(), sinistre.ID, "agent-1", models.AdmitPatientRequest{
		HospitalID: hospital.ID,
	})
	assert.NoError(t, err)
	if target == models.StayAdmitted {
		return stay
	}

	stay, err = f.service.SubmitReport(context.Background(), stay.ID, completeReport())
	assert.NoError(t, err)
	if target == models.StayReportSubmitted {
		return stay
	}

	stay, err = f.service.ValidateStay(context.Background(), stay.ID, "doc-1", "")
	assert.NoError(t, err)
	if target == models.StayValidated {
		return stay
	}

	stay, err = f.service.DischargePatient(context.Background(), stay.ID)
	assert.NoError(t, err)
	return stay
}

// ============================================================================
// TEST SUITE 1: OPENING CLAIMS
// ============================================================================

func TestOpenClaim_CopiesHospitalFromAlert(t *testing.T) {
	f := newSinistreFixture()
	alert, hospital := f.addAssignedAlert(t)

	sinistre, err := f.service.OpenClaim(context.Background(), alert.ID, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.SinistreOpen, sinistre.Status)
	assert.Equal(t, hospital.ID, *sinistre.HospitalID)
	assert.Equal(t, "SIN", sinistre.SinistreNumber[:3])
}

func TestOpenClaim_RecordsAgentAndReferringDoctor(t *testing.T) {
	f := newSinistreFixture()
	alert, _ := f.addAssignedAlert(t)
	agent := "agent-7"
	doctor := "dr-morel"

	sinistre, err := f.service.OpenClaim(context.Background(), alert.ID, &agent, &doctor)

	assert.NoError(t, err)
	assert.Equal(t, "agent-7", *sinistre.ClaimsAgentID)
	assert.Equal(t, "dr-morel", *sinistre.ReferringDoctorID)

	stored, err := f.service.GetSinistre(context.Background(), sinistre.ID)
	assert.NoError(t, err)
	assert.Equal(t, "dr-morel", *stored.ReferringDoctorID)
}

func TestOpenClaim_RequiresDispatchedAlert(t *testing.T) {
	f := newSinistreFixture()
	alert := models.Alert{
		ID:          uuid.New(),
		AlertNumber: "ALRTEST00002",
		UserID:      "u-1",
		Location:    models.NewPoint(2.35, 48.85),
		Description: "still open",
		Priority:    models.PriorityLow,
		Status:      models.AlertOpen,
	}
	f.alerts.Create(context.Background(), &alert)

	_, err := f.service.OpenClaim(context.Background(), alert.ID, nil, nil)

	assert.True(t, apperrors.Is(err, apperrors.KindAlertNotAssigned))
}

// ============================================================================
// TEST SUITE 2: STAY STATE MACHINE
// ============================================================================

func TestAdmitPatient_MovesClaimUnderReview(t *testing.T) {
	f := newSinistreFixture()
	alert, hospital := f.addAssignedAlert(t)
	sinistre, _ := f.service.OpenClaim(context.Background(), alert.ID, nil, nil)

	stay, err := f.service.AdmitPatient(context.Background(), sinistre.ID, "agent-1", models.AdmitPatientRequest{
		HospitalID: hospital.ID,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StayAdmitted, stay.Status)
	updated, _ := f.sinistres.GetByID(context.Background(), sinistre.ID)
	assert.Equal(t, models.SinistreInReview, updated.Status)
}

func TestSubmitReport_RequiresCompleteReport(t *testing.T) {
	f := newSinistreFixture()
	stay := f.openStayAt(t, models.StayAdmitted)

	incomplete := completeReport()
	incomplete.Acts = nil

	_, err := f.service.SubmitReport(context.Background(), stay.ID, incomplete)

	assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
	unchanged, _ := f.stays.GetByID(context.Background(), stay.ID)
	assert.Equal(t, models.StayAdmitted, unchanged.Status)
}

func TestSubmitReport_StampsSubmission(t *testing.T) {
	f := newSinistreFixture()
	stay := f.openStayAt(t, models.StayAdmitted)

	updated, err := f.service.SubmitReport(context.Background(), stay.ID, completeReport())

	assert.NoError(t, err)
	assert.Equal(t, models.StayReportSubmitted, updated.Status)
	assert.NotNil(t, updated.ReportSubmittedAt)
	assert.Equal(t, "appendicitis", updated.Report.Data.Motive)
}

func TestSubmitReport_ReopenedReportCanBeResubmitted(t *testing.T) {
	f := newSinistreFixture()
	stay := f.openStayAt(t, models.StayReportSubmitted)

	reopened, err := f.service.ReopenReport(context.Background(), stay.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StayReportPending, reopened.Status)

	resubmitted, err := f.service.SubmitReport(context.Background(), stay.ID, completeReport())
	assert.NoError(t, err)
	assert.Equal(t, models.StayReportSubmitted, resubmitted.Status)
}

func TestSubmitReport_RefusedAfterValidation(t *testing.T) {
	f := newSinistreFixture()
	stay := f.openStayAt(t, models.StayValidated)

	_, err := f.service.SubmitReport(context.Background(), stay.ID, completeReport())

	assert.True(t, apperrors.Is(err, apperrors.KindInvalidStayState))
}

func TestValidateStay_RequiresMedicalRole(t *testing.T) {
	f := newSinistreFixture()
	stay := f.openStayAt(t, models.StayReportSubmitted)

	_, err := f.service.ValidateStay(context.Background(), stay.ID, "tech-1", "")

	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
}

func TestValidateStay_RequiresSubmittedReport(t *testing.T) {
	f := newSinistreFixture()
	stay := f.openStayAt(t, models.StayAdmitted)

	_, err := f.service.ValidateStay(context.Background(), stay.ID, "doc-1", "")

	assert.True(t, apperrors.Is(err, apperrors.KindInvalidStayState))
}

func TestDischargePatient_RequiresValidatedStay(t *testing.T) {
	f := newSinistreFixture()
	stay := f.openStayAt(t, models.StayReportSubmitted)

	_, err := f.service.DischargePatient(context.Background(), stay.ID)

	assert.True(t, apperrors.Is(err, apperrors.KindInvalidStayState))
}

func TestCloseClaim_RequiresAllStaysDischarged(t *testing.T) {
	f := newSinistreFixture()
	stay := f.openStayAt(t, models.StayValidated)

	_, err := f.service.CloseClaim(context.Background(), stay.SinistreID)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidStayState))

	_, err = f.service.DischargePatient(context.Background(), stay.ID)
	assert.NoError(t, err)

	closed, err := f.service.CloseClaim(context.Background(), stay.SinistreID)
	assert.NoError(t, err)
	assert.Equal(t, models.SinistreClosed, closed.Status)
}

// ============================================================================
// TEST SUITE 3: INVOICE VALIDATION CHAIN
// ============================================================================

func (f sinistreFixture) createInvoice(t *testing.T) *models.Invoice {
	t.Helper()
	stay := f.openStayAt(t, models.StayDischarged)
	invoice, err := f.service.CreateInvoice(context.Background(), stay.ID, models.CreateInvoiceRequest{Amount: 1250})
	assert.NoError(t, err)
	return invoice
}

func TestCreateInvoice_RequiresDischargedStay(t *testing.T) {
	f := newSinistreFixture()
	stay := f.openStayAt(t, models.StayValidated)

	_, err := f.service.CreateInvoice(context.Background(), stay.ID, models.CreateInvoiceRequest{Amount: 100})

	assert.True(t, apperrors.Is(err, apperrors.KindInvalidStayState))
}

func TestCreateInvoice_StartsAtPendingMedical(t *testing.T) {
	f := newSinistreFixture()

	invoice := f.createInvoice(t)

	assert.Equal(t, models.InvoicePendingMedical, invoice.Status)
	assert.Equal(t, "INV", invoice.InvoiceNumber[:3])
	assert.Equal(t, 1250.0, invoice.Amount)
}

func TestValidateInvoiceStage_StrictOrder(t *testing.T) {
	f := newSinistreFixture()
	invoice := f.createInvoice(t)

	// Neither sinistre nor compta may go first.
	_, err := f.service.ValidateInvoiceStage(context.Background(), invoice.ID, "sin-1", models.ValidateInvoiceStageRequest{
		Stage: models.StageSinistre, Decision: signoff.Approved,
	})
	assert.True(t, apperrors.Is(err, apperrors.KindOutOfOrder))

	_, err = f.service.ValidateInvoiceStage(context.Background(), invoice.ID, "compta-1", models.ValidateInvoiceStageRequest{
		Stage: models.StageCompta, Decision: signoff.Approved,
	})
	assert.True(t, apperrors.Is(err, apperrors.KindOutOfOrder))

	// In order: medical, sinistre, compta.
	updated, err := f.service.ValidateInvoiceStage(context.Background(), invoice.ID, "doc-1", models.ValidateInvoiceStageRequest{
		Stage: models.StageMedical, Decision: signoff.Approved,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.InvoicePendingSinistre, updated.Status)

	updated, err = f.service.ValidateInvoiceStage(context.Background(), invoice.ID, "sin-1", models.ValidateInvoiceStageRequest{
		Stage: models.StageSinistre, Decision: signoff.Approved,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.InvoicePendingCompta, updated.Status)

	updated, err = f.service.ValidateInvoiceStage(context.Background(), invoice.ID, "compta-1", models.ValidateInvoiceStageRequest{
		Stage: models.StageCompta, Decision: signoff.Approved,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceApproved, updated.Status)
	assert.Contains(t, f.notifier.published(), event.EventInvoiceApproved)
}

func TestValidateInvoiceStage_RejectionIsTerminal(t *testing.T) {
	f := newSinistreFixture()
	invoice := f.createInvoice(t)

	updated, err := f.service.ValidateInvoiceStage(context.Background(), invoice.ID, "doc-1", models.ValidateInvoiceStageRequest{
		Stage: models.StageMedical, Decision: signoff.Rejected,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceRejected, updated.Status)

	_, err = f.service.ValidateInvoiceStage(context.Background(), invoice.ID, "sin-1", models.ValidateInvoiceStageRequest{
		Stage: models.StageSinistre, Decision: signoff.Approved,
	})
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidTransition))
}

func TestValidateInvoiceStage_RequiresStageRole(t *testing.T) {
	f := newSinistreFixture()
	invoice := f.createInvoice(t)

	_, err := f.service.ValidateInvoiceStage(context.Background(), invoice.ID, "compta-1", models.ValidateInvoiceStageRequest{
		Stage: models.StageMedical, Decision: signoff.Approved,
	})

	assert.True(t, apperrors.Is(err, apperrors.KindUnauthorized))
}

// ============================================================================
// TEST SUITE 4: PAYMENT
// ============================================================================

func (f sinistreFixture) approveInvoice(t *testing.T, invoice *models.Invoice) {
	t.Helper()
	stages := []struct {
		stage     string
		validator string
	}{
		{models.StageMedical, "doc-1"},
		{models.StageSinistre, "sin-1"},
		{models.StageCompta, "compta-1"},
	}
	for _, s := range stages {
		_, err := f.service.ValidateInvoiceStage(context.Background(), invoice.ID, s.validator, models.ValidateInvoiceStageRequest{
			Stage: s.stage, Decision: signoff.Approved,
		})
		assert.NoError(t, err)
	}
}

func TestMarkPaid_OnlyFromApproved(t *testing.T) {
	f := newSinistreFixture()
	invoice := f.createInvoice(t)

	_, err := f.service.MarkPaid(context.Background(), invoice.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidTransition), "pending invoice cannot be paid")

	f.approveInvoice(t, invoice)

	paid, err := f.service.MarkPaid(context.Background(), invoice.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)
	assert.Contains(t, f.notifier.published(), event.EventInvoicePaid)

	// Paying twice is refused.
	_, err = f.service.MarkPaid(context.Background(), invoice.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidTransition))
}
