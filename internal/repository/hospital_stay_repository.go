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

const stayColumns = `
	id, sinistre_id, hospital_id, patient_id, doctor_id, created_by, status,
	report, report_submitted_at, report_document_url, validator_id,
	validated_at, validation_notes, version, created_at, updated_at`

type HospitalStayRepository struct {
	db *sqlx.DB
}

func NewHospitalStayRepository(db *sqlx.DB) *HospitalStayRepository {
	return &HospitalStayRepository{db: db}
}

func (r *HospitalStayRepository) Create(ctx context.Context, stay *models.HospitalStay) error {
	query := `
		INSERT INTO hospital_stay (id, sinistre_id, hospital_id, patient_id,
		       doctor_id, created_by, status, report, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`

	err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecInsert,
		stay.ID, stay.SinistreID, stay.HospitalID, stay.PatientID, stay.DoctorID,
		stay.CreatedBy, stay.Status, stay.Report, stay.Version)
	if err != nil {
		return fmt.Errorf("failed to create hospital stay: %w", err)
	}
	return nil
}

func (r *HospitalStayRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HospitalStay, error) {
	var stay models.HospitalStay
	query := `SELECT ` + stayColumns + ` FROM hospital_stay WHERE id = $1`

	err := r.db.GetContext(ctx, &stay, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "hospital stay %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital stay by id: %w", err)
	}
	return &stay, nil
}

func (r *HospitalStayRepository) GetBySinistreID(ctx context.Context, sinistreID uuid.UUID) ([]models.HospitalStay, error) {
	var stays []models.HospitalStay
	query := `SELECT ` + stayColumns + ` FROM hospital_stay WHERE sinistre_id = $1 ORDER BY created_at`

	err := r.db.SelectContext(ctx, &stays, query, sinistreID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital stays by sinistre: %w", err)
	}
	return stays, nil
}

func (r *HospitalStayRepository) Update(ctx context.Context, stay *models.HospitalStay) error {
	query := `
		UPDATE hospital_stay SET
		       status = $1, report = $2, report_submitted_at = $3,
		       report_document_url = $4, validator_id = $5, validated_at = $6,
		       validation_notes = $7, version = version + 1, updated_at = NOW()
		WHERE id = $8 AND version = $9
	`

	err := utils.ExecVersioned(ctx, r.db, query,
		stay.Status, stay.Report, stay.ReportSubmittedAt, stay.ReportDocumentURL,
		stay.ValidatorID, stay.ValidatedAt, stay.ValidationNotes,
		stay.ID, stay.Version)
	if err != nil {
		return fmt.Errorf("failed to update hospital stay: %w", err)
	}
	stay.Version++
	return nil
}
