package handlers

import (
	"context"
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

type TravelProjectHandler struct {
	projectService *services.TravelProjectService
}

func NewTravelProjectHandler(projectService *services.TravelProjectService) *TravelProjectHandler {
	return &TravelProjectHandler{projectService: projectService}
}

func (tph *TravelProjectHandler) Register(app *fiber.App) {
	protectedGr := app.Group("assistance/protected/api/v1")

	projectGroup := protectedGr.Group("/travel-projects")
	projectGroup.Post("/", tph.CreateProject)
	projectGroup.Get("/", tph.GetMyProjects)
	projectGroup.Get("/:id", tph.GetProject)
	projectGroup.Put("/:id", tph.UpdateProject)
	projectGroup.Post("/:id/confirm", tph.ConfirmProject)
	projectGroup.Post("/:id/cancel", tph.CancelProject)

	protectedGr.Get("/products", tph.GetAvailableProducts)
}

func (tph *TravelProjectHandler) CreateProject(c fiber.Ctx) error {
	var req models.CreateTravelProjectRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	project, err := tph.projectService.CreateProject(c.Context(), auth.CallerID(c), req)
	if err != nil {
		slog.Error("travel project creation failed", "error", err)
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusCreated).JSON(utils.CreateSuccessResponse(project))
}

func (tph *TravelProjectHandler) GetMyProjects(c fiber.Ctx) error {
	projects, err := tph.projectService.GetUserProjects(c.Context(), auth.CallerID(c))
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(projects))
}

func (tph *TravelProjectHandler) GetProject(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid project id"))
	}

	project, err := tph.projectService.GetProject(c.Context(), id, auth.CallerID(c))
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(project))
}

func (tph *TravelProjectHandler) UpdateProject(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid project id"))
	}

	var req models.CreateTravelProjectRequest
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid request body"))
	}

	project, err := tph.projectService.UpdateProject(c.Context(), id, auth.CallerID(c), req)
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(project))
}

func (tph *TravelProjectHandler) ConfirmProject(c fiber.Ctx) error {
	return tph.transition(c, tph.projectService.ConfirmProject)
}

func (tph *TravelProjectHandler) CancelProject(c fiber.Ctx) error {
	return tph.transition(c, tph.projectService.CancelProject)
}

func (tph *TravelProjectHandler) transition(c fiber.Ctx, fn func(ctx context.Context, id uuid.UUID, userID string) (*models.TravelProject, error)) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("INVALID_REQUEST", "Invalid project id"))
	}

	project, err := fn(c.Context(), id, auth.CallerID(c))
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(project))
}

func (tph *TravelProjectHandler) GetAvailableProducts(c fiber.Ctx) error {
	products, err := tph.projectService.GetAvailableProducts(c.Context(), time.Now().Unix())
	if err != nil {
		status, resp := utils.CreateErrorResponseFromErr(err)
		return c.Status(status).JSON(resp)
	}
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(products))
}
