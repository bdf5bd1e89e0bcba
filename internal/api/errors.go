package api

import (
	"errors"
	"net/http"

	"github.com/cuelab/skilltrack-api/internal/api/shared"
	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/service"
	"github.com/cuelab/skilltrack-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes. This keeps the mapping in one place so handlers stay uniform
// and internal error types never leak to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrInvalidInviteCode),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrAlreadyReferred),
		store.IsDuplicateError(err):
		return http.StatusConflict

	// Unprocessable state changes
	case errors.Is(err, service.ErrSelfReferral),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, service.ErrEmptyPlanUnits),
		errors.Is(err, domain.ErrInvalidCompletionDay),
		errors.Is(err, domain.ErrInvalidDayNumber),
		errors.Is(err, domain.ErrEmptySkillTitle),
		errors.Is(err, domain.ErrEmptySubSkillName),
		errors.Is(err, domain.ErrEmptyTrainingTitle),
		errors.Is(err, domain.ErrEmptyUnitContent),
		errors.Is(err, domain.ErrNegativePosition):
		return http.StatusBadRequest

	// Integrity violations surface as conflicts with the current content
	// tree rather than server faults.
	case errors.Is(err, store.ErrIntegrityViolation):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// for the given error. Unknown errors get a generic message so internal
// details stay out of responses.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrInvalidInviteCode):
		return "Invite code not found"
	case errors.Is(err, service.ErrSelfReferral):
		return "You cannot use your own invite code"
	case errors.Is(err, service.ErrAlreadyReferred):
		return "An invite was already accepted for this account"

	case errors.Is(err, store.ErrDuplicateSubmission):
		return "A completion is already recorded for this day"
	case errors.Is(err, store.ErrDuplicateOrder):
		return "Plan positions must be unique"

	case errors.Is(err, store.ErrSkillNotFound):
		return "Skill not found"
	case errors.Is(err, store.ErrSubSkillNotFound):
		return "Sub-skill not found"
	case errors.Is(err, store.ErrUnitNotFound):
		return "Training unit not found"
	case errors.Is(err, store.ErrTrainingNotFound):
		return "Training track not found"
	case errors.Is(err, store.ErrPlanNotFound):
		return "Training plan not found"
	case errors.Is(err, store.ErrSessionNotFound):
		return "Training session not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, domain.ErrInvalidTransition):
		return "Session state does not allow this transition"
	case errors.Is(err, store.ErrIntegrityViolation):
		return "Request conflicts with the current content structure"

	// Domain validation errors carry no sensitive detail; surface them.
	case errors.Is(err, service.ErrEmptyPlanUnits),
		errors.Is(err, domain.ErrInvalidCompletionDay),
		errors.Is(err, domain.ErrInvalidDayNumber),
		errors.Is(err, domain.ErrEmptySkillTitle),
		errors.Is(err, domain.ErrEmptySubSkillName),
		errors.Is(err, domain.ErrEmptyTrainingTitle),
		errors.Is(err, domain.ErrEmptyUnitContent),
		errors.Is(err, domain.ErrNegativePosition):
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// RespondWithMappedError is the standard handler tail for service errors:
// it maps the error to a status code and safe message, logs the rest.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
