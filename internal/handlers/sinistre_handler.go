package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"assistance-service/internal/auth"
	"assistance-service/internal/models"
	"assistance-service/internal/services"
	"assistance-service/internal/utils"
)

type SinistreHandler struct {
	sinistreService *services.SinistreService
	documentService *services.ReportDocumentService
}

func NewSinistreHandler(sinistreService *services.SinistreService, documentService *services.ReportDocumentService) *SinistreHandler {
	return &SinistreHandler{
		sinistreService: sinistreService,
		documentService: documentService,
	}
}

func (sh *SinistreHandler) Register(app *fiber.App) {
	protectedGr := app.Group("assistance/protected/api/v1")

	sinistreGroup := protectedGr.Group("/sinistres")
	sinistreGroup.Post("/", sh.OpenClaim)
	sinistreGroup.Get("/:id", sh.GetSinistre)
	sinistreGroup.Post("/:id/stays", sh.AdmitPatient)
	sinistreGroup.Post("/:id/close", sh.CloseClaim)

	stayGroup := protectedGr.Group("/stays")
	stayGroup.Get("/:id", sh.GetStay)
	stayGroup.Post("/:id/report", sh.SubmitReport)
	stayGroup.Post("/:id/report/reopen", sh.ReopenReport)
	stayGroup.Post("/:id/report/document", sh.AttachReportDocument)
	stayGroup.Get("/:id/report/document", sh.GetReportDocumentURL)
	stayGroup.Post("/:id/validate", sh.ValidateStay)
	stayGroup.Post("/:id/discharge", sh.DischargePatient)
	stayGroup.Post("/:id/invoices", sh.CreateInvoice)

	invoiceGroup := protectedGr.Group("/invoices")
	invoiceGroup.Get("/:id", sh.GetInvoice)
	invoiceGroup.Post("/:id/validations", sh.ValidateInvoiceStage)
	invoiceGroup.Post("/:id/pay", sh.MarkPaid)
}

// ============================================================================
// CLAIMS
// ============================================================================

func (sh *SinistreHandler) OpenClaim(c fiber.Ctx) error {
	var req struct {
		AlertID           uuid.UUID `json:"alert_id"`
		ReferringDoctorID *string   `json:"referring_doctor_id"`
	}
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}
	if req.AlertID == uuid.Nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "alert_id is required"))
	}

	agentID := auth.CallerID(c)
	sinistre, err := sh.sinistreService.OpenClaim(c.Context(), req.AlertID, &agentID, req.ReferringDoctorID)
	if err != nil {
		slog.Error("claim open failed", "alert_id", req.AlertID, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(sinistre))
}

func (sh *SinistreHandler) GetSinistre(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid sinistre id"))
	}

	sinistre, err := sh.sinistreService.GetSinistre(c.Context(), id)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(sinistre))
}

func (sh *SinistreHandler) AdmitPatient(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid sinistre id"))
	}

	var req models.AdmitPatientRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	stay, err := sh.sinistreService.AdmitPatient(c.Context(), id, auth.CallerID(c), req)
	if err != nil {
		slog.Error("patient admission failed", "sinistre_id", id, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(stay))
}

func (sh *SinistreHandler) CloseClaim(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid sinistre id"))
	}

	sinistre, err := sh.sinistreService.CloseClaim(c.Context(), id)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(sinistre))
}

// ============================================================================
// HOSPITAL STAYS
// ============================================================================

func (sh *SinistreHandler) GetStay(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid stay id"))
	}

	stay, err := sh.sinistreService.GetStay(c.Context(), id)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(stay))
}

func (sh *SinistreHandler) SubmitReport(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid stay id"))
	}

	var report models.StayReport
	if err := c.Bind().Body(&report); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	stay, err := sh.sinistreService.SubmitReport(c.Context(), id, report)
	if err != nil {
		slog.Error("report submission failed", "stay_id", id, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(stay))
}

func (sh *SinistreHandler) ReopenReport(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid stay id"))
	}

	stay, err := sh.sinistreService.ReopenReport(c.Context(), id)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(stay))
}

// AttachReportDocument accepts the signed report PDF as the raw request body.
func (sh *SinistreHandler) AttachReportDocument(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid stay id"))
	}

	stay, err := sh.documentService.AttachReportDocument(c.Context(), id, c.Body())
	if err != nil {
		slog.Error("report document upload failed", "stay_id", id, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(stay))
}

func (sh *SinistreHandler) GetReportDocumentURL(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid stay id"))
	}

	url, err := sh.documentService.ReportDocumentURL(c.Context(), id, 15*time.Minute)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{"url": url}))
}

func (sh *SinistreHandler) ValidateStay(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid stay id"))
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	stay, err := sh.sinistreService.ValidateStay(c.Context(), id, auth.CallerID(c), req.Notes)
	if err != nil {
		slog.Error("stay validation failed", "stay_id", id, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(stay))
}

func (sh *SinistreHandler) DischargePatient(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid stay id"))
	}

	stay, err := sh.sinistreService.DischargePatient(c.Context(), id)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(stay))
}

// ============================================================================
// INVOICES
// ============================================================================

func (sh *SinistreHandler) CreateInvoice(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid stay id"))
	}

	var req models.CreateInvoiceRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	invoice, err := sh.sinistreService.CreateInvoice(c.Context(), id, req)
	if err != nil {
		slog.Error("invoice creation failed", "stay_id", id, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(invoice))
}

func (sh *SinistreHandler) GetInvoice(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid invoice id"))
	}

	invoice, err := sh.sinistreService.GetInvoice(c.Context(), id)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(invoice))
}

func (sh *SinistreHandler) ValidateInvoiceStage(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid invoice id"))
	}

	var req models.ValidateInvoiceStageRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	invoice, err := sh.sinistreService.ValidateInvoiceStage(c.Context(), id, auth.CallerID(c), req)
	if err != nil {
		slog.Error("invoice stage validation failed", "invoice_id", id, "stage", req.Stage, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(invoice))
}

func (sh *SinistreHandler) MarkPaid(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid invoice id"))
	}

	invoice, err := sh.sinistreService.MarkPaid(c.Context(), id)
	if err != nil {
		slog.Error("invoice payment failed", "invoice_id", id, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(invoice))
}
