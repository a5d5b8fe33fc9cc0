package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"assistance-service/internal/apperrors"
	"assistance-service/internal/models"
	"assistance-service/internal/utils"
)

type TravelProjectRepository struct {
	db *sqlx.DB
}

func NewTravelProjectRepository(db *sqlx.DB) *TravelProjectRepository {
	return &TravelProjectRepository{db: db}
}

func (r *TravelProjectRepository) Create(ctx context.Context, project *models.TravelProject) error {
	query := `
		INSERT INTO travel_project (id, user_id, destination, destination_code,
		       departure_date, return_date, participant_count, status, version,
		       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`

	err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecInsert,
		project.ID, project.UserID, project.Destination, project.DestinationCode,
		project.DepartureDate, project.ReturnDate, project.ParticipantCount,
		project.Status, project.Version)
	if err != nil {
		return fmt.Errorf("failed to create travel project: %w", err)
	}
	return nil
}

func (r *TravelProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TravelProject, error) {
	var project models.TravelProject
	query := `
		SELECT id, user_id, destination, destination_code, departure_date,
		       return_date, participant_count, status, version, created_at, updated_at
		FROM travel_project
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &project, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "travel project %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get travel project by id: %w", err)
	}
	return &project, nil
}

func (r *TravelProjectRepository) GetByUserID(ctx context.Context, userID string) ([]models.TravelProject, error) {
	var projects []models.TravelProject
	query := `
		SELECT id, user_id, destination, destination_code, departure_date,
		       return_date, participant_count, status, version, created_at, updated_at
		FROM travel_project
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &projects, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get travel projects by user: %w", err)
	}
	return projects, nil
}

// Update persists a project with optimistic locking on the version column.
func (r *TravelProjectRepository) Update(ctx context.Context, project *models.TravelProject) error {
	query := `
		UPDATE travel_project SET
		       destination = $1, destination_code = $2, departure_date = $3,
		       return_date = $4, participant_count = $5, status = $6,
		       version = version + 1, updated_at = NOW()
		WHERE id = $7 AND version = $8
	`

	err := utils.ExecVersioned(ctx, r.db, query,
		project.Destination, project.DestinationCode, project.DepartureDate,
		project.ReturnDate, project.ParticipantCount, project.Status,
		project.ID, project.Version)
	if err != nil {
		return fmt.Errorf("failed to update travel project: %w", err)
	}
	project.Version++
	return nil
}
