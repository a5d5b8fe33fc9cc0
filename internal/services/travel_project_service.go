package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"assistance-service/internal/apperrors"
	"assistance-service/internal/models"
	"assistance-service/internal/utils"
)

// TravelProjectService manages trip records and the product catalog reads
// that feed subscription eligibility.
type TravelProjectService struct {
	projectStore TravelProjectStore
	productStore ProductStore
}

func NewTravelProjectService(projectStore TravelProjectStore, productStore ProductStore) *TravelProjectService {
	return &TravelProjectService{
		projectStore: projectStore,
		productStore: productStore,
	}
}

// CreateProject records a new trip in draft state.
func (s *TravelProjectService) CreateProject(ctx context.Context, userID string, req models.CreateTravelProjectRequest) (*models.TravelProject, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid travel project request", err)
	}
	if ok, err := utils.ValidateCountryCode(req.DestinationCode); !ok {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid destination code", err)
	}

	project := &models.TravelProject{
		ID:               uuid.New(),
		UserID:           userID,
		Destination:      req.Destination,
		DestinationCode:  req.DestinationCode,
		DepartureDate:    req.DepartureDate,
		ReturnDate:       req.ReturnDate,
		ParticipantCount: req.ParticipantCount,
		Status:           models.ProjectDraft,
	}

	if err := s.projectStore.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to persist travel project: %w", err)
	}

	slog.Info("Travel project created",
		"project_id", project.ID,
		"user_id", userID,
		"destination_code", project.DestinationCode)
	return project, nil
}

// UpdateProject replaces the mutable trip fields of a draft project. Changes
// never propagate to subscriptions already created from the project.
func (s *TravelProjectService) UpdateProject(ctx context.Context, projectID uuid.UUID, userID string, req models.CreateTravelProjectRequest) (*models.TravelProject, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid travel project request", err)
	}

	project, err := s.projectStore.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load travel project: %w", err)
	}
	if project.UserID != userID {
		return nil, apperrors.New(apperrors.KindUnauthorized, "travel project belongs to another user")
	}
	if project.Status != models.ProjectDraft {
		return nil, apperrors.Newf(apperrors.KindInvalidTransition,
			"project %s is %s, only drafts can be edited", project.ID, project.Status)
	}

	project.Destination = req.Destination
	project.DestinationCode = req.DestinationCode
	project.DepartureDate = req.DepartureDate
	project.ReturnDate = req.ReturnDate
	project.ParticipantCount = req.ParticipantCount

	if err := s.projectStore.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// ConfirmProject locks the trip in.
func (s *TravelProjectService) ConfirmProject(ctx context.Context, projectID uuid.UUID, userID string) (*models.TravelProject, error) {
	return s.setProjectStatus(ctx, projectID, userID, models.ProjectDraft, models.ProjectConfirmed)
}

// CancelProject abandons a trip that has not been cancelled already.
func (s *TravelProjectService) CancelProject(ctx context.Context, projectID uuid.UUID, userID string) (*models.TravelProject, error) {
	project, err := s.projectStore.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load travel project: %w", err)
	}
	if project.UserID != userID {
		return nil, apperrors.New(apperrors.KindUnauthorized, "travel project belongs to another user")
	}
	if project.Status == models.ProjectCancelled {
		return nil, apperrors.Newf(apperrors.KindInvalidTransition,
			"project %s is already cancelled", project.ID)
	}

	project.Status = models.ProjectCancelled
	if err := s.projectStore.Update(ctx, project); err != nil {
		return nil, err
	}

	slog.Info("Travel project cancelled", "project_id", project.ID)
	return project, nil
}

func (s *TravelProjectService) setProjectStatus(ctx context.Context, projectID uuid.UUID, userID string, from, to models.TravelProjectStatus) (*models.TravelProject, error) {
	project, err := s.projectStore.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load travel project: %w", err)
	}
	if project.UserID != userID {
		return nil, apperrors.New(apperrors.KindUnauthorized, "travel project belongs to another user")
	}
	if project.Status != from {
		return nil, apperrors.Newf(apperrors.KindInvalidTransition,
			"project %s is %s, expected %s", project.ID, project.Status, from)
	}

	project.Status = to
	if err := s.projectStore.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetProject returns one project, enforcing ownership.
func (s *TravelProjectService) GetProject(ctx context.Context, projectID uuid.UUID, userID string) (*models.TravelProject, error) {
	project, err := s.projectStore.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, apperrors.New(apperrors.KindUnauthorized, "travel project belongs to another user")
	}
	return project, nil
}

// GetUserProjects lists a user's trips.
func (s *TravelProjectService) GetUserProjects(ctx context.Context, userID string) ([]models.TravelProject, error) {
	return s.projectStore.GetByUserID(ctx, userID)
}

// GetAvailableProducts lists catalog products purchasable right now.
func (s *TravelProjectService) GetAvailableProducts(ctx context.Context, now int64) ([]models.Product, error) {
	return s.productStore.GetActive(ctx, now)
}
