package utils

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"assistance-service/internal/apperrors"
)

type ExecType int

const (
	ExecInsert ExecType = iota
	ExecUpdate
	ExecDelete
)

// ExecWithCheck runs a statement and, for updates and deletes, fails when no
// row was touched.
func ExecWithCheck(ctx context.Context, db *sqlx.DB, query string, execType ExecType, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	// Insert operations don't need a rows-affected check
	if execType == ExecInsert {
		return nil
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected")
	}

	return nil
}

// ExecVersioned runs a compare-and-set update whose WHERE clause includes
// the entity's current version. Zero rows affected means another writer got
// there first; the caller must reload and retry the whole operation.
func ExecVersioned(ctx context.Context, db *sqlx.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute versioned update: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.New(apperrors.KindConcurrentModification, "row version changed under update")
	}

	return nil
}
