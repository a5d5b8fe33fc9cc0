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

const subscriptionColumns = `
	id, subscription_number, user_id, product_id, project_id, applied_price,
	start_date, end_date, status,
	medical_status, medical_validator_id, medical_validated_at, medical_notes,
	technical_status, technical_validator_id, technical_validated_at, technical_notes,
	final_status, final_validator_id, final_validated_at, final_notes,
	version, created_at, updated_at`

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscription (id, subscription_number, user_id, product_id,
		       project_id, applied_price, start_date, end_date, status,
		       medical_status, technical_status, final_status, version,
		       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`

	err := utils.ExecWithCheck(ctx, r.db, query, utils.ExecInsert,
		sub.ID, sub.SubscriptionNumber, sub.UserID, sub.ProductID, sub.ProjectID,
		sub.AppliedPrice, sub.StartDate, sub.EndDate, sub.Status,
		sub.MedicalStatus, sub.TechnicalStatus, sub.FinalStatus, sub.Version)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	query := `SELECT ` + subscriptionColumns + ` FROM subscription WHERE id = $1`

	err := r.db.GetContext(ctx, &sub, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "subscription %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription by id: %w", err)
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	query := `SELECT ` + subscriptionColumns + ` FROM subscription WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &subs, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions by user: %w", err)
	}
	return subs, nil
}

// GetActiveForUser returns the user's subscriptions whose status is active
// and whose coverage window contains the given instant.
func (r *SubscriptionRepository) GetActiveForUser(ctx context.Context, userID string, now int64) ([]models.Subscription, error) {
	var subs []models.Subscription
	query := `SELECT ` + subscriptionColumns + `
		FROM subscription
		WHERE user_id = $1 AND status = $2 AND start_date <= $3 AND end_date >= $3
		ORDER BY end_date DESC`

	err := r.db.SelectContext(ctx, &subs, query, userID, models.SubscriptionActive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active subscriptions: %w", err)
	}
	return subs, nil
}

// GetExpiringBefore returns active subscriptions whose end date has passed.
func (r *SubscriptionRepository) GetExpiringBefore(ctx context.Context, now int64) ([]models.Subscription, error) {
	var subs []models.Subscription
	query := `SELECT ` + subscriptionColumns + `
		FROM subscription
		WHERE status = $1 AND end_date < $2`

	err := r.db.SelectContext(ctx, &subs, query, models.SubscriptionActive, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get expiring subscriptions: %w", err)
	}
	return subs, nil
}

// Update persists all mutable subscription fields with optimistic locking on
// the version column, so two concurrent gate decisions can never both land.
func (r *SubscriptionRepository) Update(ctx context.Context, sub *models.Subscription) error {
	query := `
		UPDATE subscription SET
		       status = $1,
		       medical_status = $2, medical_validator_id = $3, medical_validated_at = $4, medical_notes = $5,
		       technical_status = $6, technical_validator_id = $7, technical_validated_at = $8, technical_notes = $9,
		       final_status = $10, final_validator_id = $11, final_validated_at = $12, final_notes = $13,
		       version = version + 1, updated_at = NOW()
		WHERE id = $14 AND version = $15
	`

	err := utils.ExecVersioned(ctx, r.db, query,
		sub.Status,
		sub.MedicalStatus, sub.MedicalValidatorID, sub.MedicalValidatedAt, sub.MedicalNotes,
		sub.TechnicalStatus, sub.TechnicalValidatorID, sub.TechnicalValidatedAt, sub.TechnicalNotes,
		sub.FinalStatus, sub.FinalValidatorID, sub.FinalValidatedAt, sub.FinalNotes,
		sub.ID, sub.Version)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	sub.Version++
	return nil
}
