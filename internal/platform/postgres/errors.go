package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the PostgreSQL error code for foreign key violations
	foreignKeyViolationCode = "23503"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"
)

// Constraint names from the migrations. Unique violations are mapped to
// their specific taxonomy error by constraint so callers can distinguish
// a duplicate submission from, say, an invite code collision.
const (
	constraintCompletionUserDay = "uq_user_unit_completions_user_day"
	constraintPlanPosition      = "uq_plan_unit_mappings_plan_position"
	constraintInviteCode        = "uq_users_invite_code"
)

// MapError maps a database error to the store taxonomy. It wraps the
// original error to preserve context for logs while keeping sentinel
// matching with errors.Is intact. Every store method in this package
// routes its errors through here.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return mapUniqueViolation(pgErr, err)
		case foreignKeyViolationCode:
			return fmt.Errorf(
				"%w: foreign key violation (%s): %v",
				store.ErrIntegrityViolation,
				pgErr.ConstraintName,
				err,
			)
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrIntegrityViolation,
				pgErr.ConstraintName,
				err,
			)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrIntegrityViolation,
				pgErr.ColumnName,
				err,
			)
		}
	}

	return err
}

// mapUniqueViolation picks the specific duplicate sentinel for a unique
// violation based on the violated constraint.
func mapUniqueViolation(pgErr *pgconn.PgError, err error) error {
	switch pgErr.ConstraintName {
	case constraintCompletionUserDay:
		return fmt.Errorf("%w: %v", store.ErrDuplicateSubmission, err)
	case constraintPlanPosition:
		return fmt.Errorf("%w: %v", store.ErrDuplicateOrder, err)
	case constraintInviteCode:
		return fmt.Errorf("%w: %v", store.ErrInviteCodeTaken, err)
	default:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation checks if the given error is a PostgreSQL foreign
// key constraint violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// CheckRowsAffected examines the number of rows affected by an operation.
// If no rows were affected, it returns notFoundErr (typically one of the
// entity-specific store sentinels). This is the standard pattern for
// UPDATE and DELETE where zero affected rows means the target is absent.
func CheckRowsAffected(result sql.Result, notFoundErr error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFoundErr
	}

	return nil
}
