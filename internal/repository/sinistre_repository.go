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

const sinistreColumns = `
	id, sinistre_number, alert_id, subscription_id, hospital_id, status,
	claims_agent_id, referring_doctor_id, version, created_at, updated_at`

type SinistreRepository struct {
	db *sqlx.DB
}

func NewSinistreRepository(db *sqlx.DB) *SinistreRepository {
	return &SinistreRepository{db: db}
}

func (r *SinistreRepository) Create(ctx context.Context, sinistre *models.Sinistre) error {
	query := `
		INSERT INTO sinistre (id, sinistre_number, alert_id, subscription_id,
		       hospital_id, status, claims_agent_id, referring_doctor_id,
		       version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`

	err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecInsert,
		sinistre.ID, sinistre.SinistreNumber, sinistre.AlertID, sinistre.SubscriptionID,
		sinistre.HospitalID, sinistre.Status, sinistre.ClaimsAgentID,
		sinistre.ReferringDoctorID, sinistre.Version)
	if err != nil {
		return fmt.Errorf("failed to create sinistre: %w", err)
	}
	return nil
}

func (r *SinistreRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sinistre, error) {
	var sinistre models.Sinistre
	query := `SELECT ` + sinistreColumns + ` FROM sinistre WHERE id = $1`

	err := r.db.GetContext(ctx, &sinistre, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "sinistre %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sinistre by id: %w", err)
	}
	return &sinistre, nil
}

func (r *SinistreRepository) GetByAlertID(ctx context.Context, alertID uuid.UUID) (*models.Sinistre, error) {
	var sinistre models.Sinistre
	query := `SELECT ` + sinistreColumns + ` FROM sinistre WHERE alert_id = $1`

	err := r.db.GetContext(ctx, &sinistre, query, alertID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "no sinistre for alert %s", alertID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sinistre by alert id: %w", err)
	}
	return &sinistre, nil
}

func (r *SinistreRepository) Update(ctx context.Context, sinistre *models.Sinistre) error {
	query := `
		UPDATE sinistre SET
		       status = $1, hospital_id = $2, claims_agent_id = $3,
		       referring_doctor_id = $4, version = version + 1, updated_at = NOW()
		WHERE id = $5 AND version = $6
	`

	err := utils.ExecVersioned(ctx, r.db, query,
		sinistre.Status, sinistre.HospitalID, sinistre.ClaimsAgentID,
		sinistre.ReferringDoctorID, sinistre.ID, sinistre.Version)
	if err != nil {
		return fmt.Errorf("failed to update sinistre: %w", err)
	}
	sinistre.Version++
	return nil
}
