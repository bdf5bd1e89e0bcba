package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for UnitCompletion
var (
	ErrEmptyCompletionID     = errors.New("completion ID cannot be empty")
	ErrEmptyCompletionUser   = errors.New("completion user ID cannot be empty")
	ErrEmptyCompletionUnit   = errors.New("completion unit ID cannot be empty")
	ErrInvalidCompletionDay  = errors.New("completion day number must be positive")
)

// UnitCompletion is a single persisted completion event: the given user
// finished the given unit on the given training day. Completions are
// append-only; at most one completion exists per (user, day) pair, and a
// second submission for the same pair is rejected, never overwritten.
type UnitCompletion struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	UnitID      uuid.UUID `json:"unit_id"`
	DayNumber   int       `json:"day_number"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewUnitCompletion creates a completion event for the given user, unit
// and training day. Returns an error if validation fails.
func NewUnitCompletion(userID, unitID uuid.UUID, dayNumber int) (*UnitCompletion, error) {
	completion := &UnitCompletion{
		ID:          uuid.New(),
		UserID:      userID,
		UnitID:      unitID,
		DayNumber:   dayNumber,
		CompletedAt: time.Now().UTC(),
	}

	if err := completion.Validate(); err != nil {
		return nil, err
	}

	return completion, nil
}

// Validate checks if the UnitCompletion has valid data.
func (c *UnitCompletion) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCompletionID
	}
	if c.UserID == uuid.Nil {
		return ErrEmptyCompletionUser
	}
	if c.UnitID == uuid.Nil {
		return ErrEmptyCompletionUnit
	}
	if c.DayNumber <= 0 {
		return ErrInvalidCompletionDay
	}
	return nil
}
