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

const invoiceColumns = `
	id, invoice_number, stay_id, amount, status,
	medical_status, medical_validator_id, medical_validated_at,
	sinistre_status, sinistre_validator_id, sinistre_validated_at,
	compta_status, compta_validator_id, compta_validated_at,
	paid_at, version, created_at, updated_at`

type InvoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoice (id, invoice_number, stay_id, amount, status,
		       medical_status, sinistre_status, compta_status, version,
		       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`

	err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecInsert,
		invoice.ID, invoice.InvoiceNumber, invoice.StayID, invoice.Amount,
		invoice.Status, invoice.MedicalStatus, invoice.SinistreStatus,
		invoice.ComptaStatus, invoice.Version)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	query := `SELECT ` + invoiceColumns + ` FROM invoice WHERE id = $1`

	err := r.db.GetContext(ctx, &invoice, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "invoice %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice by id: %w", err)
	}
	return &invoice, nil
}

func (r *InvoiceRepository) GetByStayID(ctx context.Context, stayID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	query := `SELECT ` + invoiceColumns + ` FROM invoice WHERE stay_id = $1`

	err := r.db.GetContext(ctx, &invoice, query, stayID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "no invoice for stay %s", stayID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice by stay id: %w", err)
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoice SET
		       status = $1,
		       medical_status = $2, medical_validator_id = $3, medical_validated_at = $4,
		       sinistre_status = $5, sinistre_validator_id = $6, sinistre_validated_at = $7,
		       compta_status = $8, compta_validator_id = $9, compta_validated_at = $10,
		       paid_at = $11, version = version + 1, updated_at = NOW()
		WHERE id = $12 AND version = $13
	`

	err := utils.ExecVersioned(ctx, r.db, query,
		invoice.Status,
		invoice.MedicalStatus, invoice.MedicalValidatorID, invoice.MedicalValidatedAt,
		invoice.SinistreStatus, invoice.SinistreValidatorID, invoice.SinistreValidatedAt,
		invoice.ComptaStatus, invoice.ComptaValidatorID, invoice.ComptaValidatedAt,
		invoice.PaidAt, invoice.ID, invoice.Version)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	invoice.Version++
	return nil
}
