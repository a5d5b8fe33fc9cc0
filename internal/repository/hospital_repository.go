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
)

type HospitalRepository struct {
	db *sqlx.DB
}

func NewHospitalRepository(db *sqlx.DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

func (r *HospitalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Hospital, error) {
	var hospital models.Hospital
	query := `
		SELECT id, name, ST_AsEWKB(location) AS location, active, specialties,
		       bed_capacity, created_at, updated_at
		FROM hospital
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &hospital, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "hospital %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital by id: %w", err)
	}
	return &hospital, nil
}

// GetActive returns a snapshot of all active hospitals. The dispatch engine
// filters and ranks in memory; hospitals are never locked.
func (r *HospitalRepository) GetActive(ctx context.Context) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	query := `
		SELECT id, name, ST_AsEWKB(location) AS location, active, specialties,
		       bed_capacity, created_at, updated_at
		FROM hospital
		WHERE active = true
		ORDER BY id
	`

	err := r.db.SelectContext(ctx, &hospitals, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get active hospitals: %w", err)
	}
	return hospitals, nil
}
