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

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	query := `
		SELECT id, code, name, cost, pricing_key, active, valid_from, valid_to,
		       geo, guarantees, created_at, updated_at
		FROM product
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "product %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by id: %w", err)
	}
	return &product, nil
}

// GetActive lists products available at the given instant (epoch seconds).
func (r *ProductRepository) GetActive(ctx context.Context, now int64) ([]models.Product, error) {
	var products []models.Product
	query := `
		SELECT id, code, name, cost, pricing_key, active, valid_from, valid_to,
		       geo, guarantees, created_at, updated_at
		FROM product
		WHERE active = true
		  AND (valid_from IS NULL OR valid_from <= $1)
		  AND (valid_to IS NULL OR valid_to >= $1)
		ORDER BY code
	`

	err := r.db.SelectContext(ctx, &products, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active products: %w", err)
	}
	return products, nil
}
