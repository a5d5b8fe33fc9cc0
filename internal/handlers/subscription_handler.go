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

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (sh *SubscriptionHandler) Register(app *fiber.App) {
	protectedGr := app.Group("assistance/protected/api/v1")

	subGroup := protectedGr.Group("/subscriptions")
	subGroup.Post("/", sh.CreateSubscription)
	subGroup.Get("/", sh.GetMySubscriptions)
	subGroup.Get("/:id", sh.GetSubscription)
	subGroup.Post("/:id/validations", sh.RecordValidation)
}

func (sh *SubscriptionHandler) CreateSubscription(c fiber.Ctx) error {
	var req models.CreateSubscriptionRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	sub, err := sh.subscriptionService.CreateSubscription(c.Context(), auth.CallerID(c), req)
	if err != nil {
		slog.Error("subscription creation failed", "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(sub))
}

func (sh *SubscriptionHandler) GetMySubscriptions(c fiber.Ctx) error {
	subs, err := sh.subscriptionService.GetUserSubscriptions(c.Context(), auth.CallerID(c))
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(subs))
}

func (sh *SubscriptionHandler) GetSubscription(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid subscription id"))
	}

	sub, err := sh.subscriptionService.GetSubscription(c.Context(), id)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(sub))
}

// RecordValidation applies one gate decision. The caller is the validator;
// role membership is checked in the service.
func (sh *SubscriptionHandler) RecordValidation(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid subscription id"))
	}

	var req models.RecordValidationRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	sub, err := sh.subscriptionService.RecordValidation(c.Context(), id, auth.CallerID(c), req)
	if err != nil {
		slog.Error("subscription validation failed", "subscription_id", id, "gate", req.Gate, "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(sub))
}
