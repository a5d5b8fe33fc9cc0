package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"assistance-service/internal/auth"
	"assistance-service/internal/models"
	"assistance-service/internal/services"
	"assistance-service/internal/utils"
)

type AlertHandler struct {
	dispatchService *services.AlertDispatchService
}

func NewAlertHandler(dispatchService *services.AlertDispatchService) *AlertHandler {
	return &AlertHandler{dispatchService: dispatchService}
}

func (ah *AlertHandler) Register(app *fiber.App) {
	protectedGr := app.Group("assistance/protected/api/v1")

	alertGroup := protectedGr.Group("/alerts")
	alertGroup.Post("/", ah.TriggerAlert)
	alertGroup.Get("/", ah.ListAlerts)
	alertGroup.Get("/:id", ah.GetAlert)
	alertGroup.Post("/:id/assign", ah.AssignHospital)
	alertGroup.Patch("/:id/status", ah.UpdateStatus)
}

// TriggerAlert accepts an SOS from a covered traveler.
func (ah *AlertHandler) TriggerAlert(c fiber.Ctx) error {
	var req models.TriggerAlertRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	alert, err := ah.dispatchService.TriggerAlert(c.Context(), auth.CallerID(c), req)
	if err != nil {
		slog.Error("alert trigger failed", "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(alert))
}

// ListAlerts serves the dispatch board. With ?status= it lists alerts in
// that status; without it, the caller's own alerts.
func (ah *AlertHandler) ListAlerts(c fiber.Ctx) error {
	var filter *models.AlertStatus
	if q := c.Query("status"); q != "" {
		st := models.AlertStatus(q)
		filter = &st
	}

	alerts, err := ah.dispatchService.ListAlerts(c.Context(), filter, auth.CallerID(c))
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(alerts))
}

func (ah *AlertHandler) GetAlert(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid alert id"))
	}

	alert, err := ah.dispatchService.GetAlert(c.Context(), id)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(alert))
}

func (ah *AlertHandler) AssignHospital(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid alert id"))
	}

	alert, err := ah.dispatchService.AssignHospital(c.Context(), id)
	if err != nil {
		slog.Error("hospital assignment failed", "alert_id", id, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(alert))
}

func (ah *AlertHandler) UpdateStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid alert id"))
	}

	var req struct {
		Status models.AlertStatus `json:"status"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	alert, err := ah.dispatchService.UpdateAlertStatus(c.Context(), id, req.Status)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(alert))
}
