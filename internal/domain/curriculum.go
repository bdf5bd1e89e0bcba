package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for curriculum day assignments
var (
	ErrEmptyDayUnitID      = errors.New("curriculum day unit ID cannot be empty")
	ErrInvalidDayNumber    = errors.New("day number must be positive")
	ErrEmptyCurriculumUnit = errors.New("curriculum day unit must reference a training unit")
)

// CurriculumDayUnit assigns a TrainingUnit to a calendar training day.
// Day assignments are independent of plan composition: the same unit may
// appear in plans and on curriculum days at the same time.
type CurriculumDayUnit struct {
	ID        uuid.UUID `json:"id"`
	DayNumber int       `json:"day_number"`
	UnitID    uuid.UUID `json:"unit_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCurriculumDayUnit creates a day assignment for the given unit.
func NewCurriculumDayUnit(dayNumber int, unitID uuid.UUID) (*CurriculumDayUnit, error) {
	dayUnit := &CurriculumDayUnit{
		ID:        uuid.New(),
		DayNumber: dayNumber,
		UnitID:    unitID,
		CreatedAt: time.Now().UTC(),
	}

	if err := dayUnit.Validate(); err != nil {
		return nil, err
	}

	return dayUnit, nil
}

// Validate checks if the CurriculumDayUnit has valid data.
func (d *CurriculumDayUnit) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDayUnitID
	}
	if d.DayNumber <= 0 {
		return ErrInvalidDayNumber
	}
	if d.UnitID == uuid.Nil {
		return ErrEmptyCurriculumUnit
	}
	return nil
}
