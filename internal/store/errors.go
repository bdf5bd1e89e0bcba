package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic form of the entity-specific not found
	// errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrIntegrityViolation is returned when an operation would break
	// parent/child linkage (a missing foreign key target) or when an
	// aggregate is found inconsistent with its source rows. It signals
	// either a migration gap or a caller bypassing the component contracts
	// and is logged for operator attention.
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrSkillNotFound indicates that the requested skill does not exist.
	ErrSkillNotFound = fmt.Errorf("%w: skill", ErrNotFound)

	// ErrSubSkillNotFound indicates that the requested sub-skill does not exist.
	ErrSubSkillNotFound = fmt.Errorf("%w: sub-skill", ErrNotFound)

	// ErrUnitNotFound indicates that the requested training unit does not exist.
	ErrUnitNotFound = fmt.Errorf("%w: training unit", ErrNotFound)

	// ErrTrainingNotFound indicates that the requested training track does not exist.
	ErrTrainingNotFound = fmt.Errorf("%w: specialized training", ErrNotFound)

	// ErrPlanNotFound indicates that the requested training plan does not exist.
	ErrPlanNotFound = fmt.Errorf("%w: training plan", ErrNotFound)

	// ErrSessionNotFound indicates that the requested training session does not exist.
	ErrSessionNotFound = fmt.Errorf("%w: training session", ErrNotFound)

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrProgressNotFound indicates that no progress projection exists yet
	// for the requested (user, skill) or (user, training) pair.
	ErrProgressNotFound = fmt.Errorf("%w: progress", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrDuplicateSubmission indicates that a completion already exists for
	// the (user, day) pair. The first committed write wins; the caller
	// surfaces this as "already recorded for this day" rather than a fatal
	// failure, and must not retry-overwrite.
	ErrDuplicateSubmission = fmt.Errorf("%w: completion for this day", ErrDuplicate)

	// ErrDuplicateOrder indicates that two mappings in the same plan would
	// share a position value.
	ErrDuplicateOrder = fmt.Errorf("%w: plan position", ErrDuplicate)

	// ErrInviteCodeTaken indicates that the generated invite code collided
	// with an existing one. Issuance retries with a fresh token.
	ErrInviteCodeTaken = fmt.Errorf("%w: invite code", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
