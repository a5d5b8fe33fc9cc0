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

const alertColumns = `
	id, alert_number, user_id, subscription_id, ST_AsEWKB(location) AS location,
	address, description, priority, specialty, status, hospital_id, distance_km,
	version, created_at, updated_at`

type AlertRepository struct {
	db *sqlx.DB
}

func NewAlertRepository(db *sqlx.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alert (id, alert_number, user_id, subscription_id, location,
		       address, description, priority, specialty, status, version,
		       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`

	err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecInsert,
		alert.ID, alert.AlertNumber, alert.UserID, alert.SubscriptionID,
		&alert.Location, alert.Address, alert.Description, alert.Priority,
		alert.Specialty, alert.Status, alert.Version)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	var alert models.Alert
	query := `SELECT ` + alertColumns + ` FROM alert WHERE id = $1`

	err := r.db.GetContext(ctx, &alert, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "alert %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert by id: %w", err)
	}
	return &alert, nil
}

func (r *AlertRepository) GetByUserID(ctx context.Context, userID string) ([]models.Alert, error) {
	var alerts []models.Alert
	query := `SELECT ` + alertColumns + ` FROM alert WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &alerts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts by user: %w", err)
	}
	return alerts, nil
}

func (r *AlertRepository) GetByStatus(ctx context.Context, status models.AlertStatus) ([]models.Alert, error) {
	var alerts []models.Alert
	query := `SELECT ` + alertColumns + ` FROM alert WHERE status = $1 ORDER BY created_at`

	err := r.db.SelectContext(ctx, &alerts, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts by status: %w", err)
	}
	return alerts, nil
}

// Update persists status, assignment and distance with optimistic locking.
func (r *AlertRepository) Update(ctx context.Context, alert *models.Alert) error {
	query := `
		UPDATE alert SET
		       status = $1, hospital_id = $2, distance_km = $3,
		       version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5
	`

	err := utils.ExecVersioned(ctx, r.db, query,
		alert.Status, alert.HospitalID, alert.DistanceKm, alert.ID, alert.Version)
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	alert.Version++
	return nil
}
