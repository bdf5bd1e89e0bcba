package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for the composition layer
var (
	ErrEmptyTrainingID    = errors.New("training ID cannot be empty")
	ErrEmptyTrainingTitle = errors.New("training title cannot be empty")
	ErrEmptyPlanID        = errors.New("plan ID cannot be empty")
	ErrEmptyMappingID     = errors.New("plan unit mapping ID cannot be empty")
	ErrEmptyMappingUnit   = errors.New("plan unit mapping unit ID cannot be empty")
)

// SpecializedTraining is a named training track. Tracks own an ordered set
// of plans; the plans in turn reference training units through mappings.
type SpecializedTraining struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSpecializedTraining creates a new training track with the given title.
func NewSpecializedTraining(title string) (*SpecializedTraining, error) {
	training := &SpecializedTraining{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := training.Validate(); err != nil {
		return nil, err
	}

	return training, nil
}

// Validate checks if the SpecializedTraining has valid data.
func (t *SpecializedTraining) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTrainingID
	}
	if t.Title == "" {
		return ErrEmptyTrainingTitle
	}
	return nil
}

// TrainingPlan is an ordered plan within a SpecializedTraining track.
// Its unit list is held in PlanUnitMapping rows and is always replaced
// atomically as a whole set, never patched row by row.
type TrainingPlan struct {
	ID         uuid.UUID `json:"id"`
	TrainingID uuid.UUID `json:"training_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewTrainingPlan creates a new plan under the given training track.
func NewTrainingPlan(trainingID uuid.UUID) (*TrainingPlan, error) {
	plan := &TrainingPlan{
		ID:         uuid.New(),
		TrainingID: trainingID,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

// Validate checks if the TrainingPlan has valid data.
func (p *TrainingPlan) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPlanID
	}
	if p.TrainingID == uuid.Nil {
		return ErrEmptyTrainingID
	}
	return nil
}

// PlanUnitMapping assigns a TrainingUnit to a plan at a given position.
// Positions within one plan are unique; the store enforces this with a
// constraint rather than by application-side convention.
type PlanUnitMapping struct {
	ID       uuid.UUID `json:"id"`
	PlanID   uuid.UUID `json:"plan_id"`
	UnitID   uuid.UUID `json:"unit_id"`
	Position int       `json:"position"`
}

// NewPlanUnitMapping creates a mapping row for the given plan and unit.
func NewPlanUnitMapping(planID, unitID uuid.UUID, position int) (*PlanUnitMapping, error) {
	mapping := &PlanUnitMapping{
		ID:       uuid.New(),
		PlanID:   planID,
		UnitID:   unitID,
		Position: position,
	}

	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	return mapping, nil
}

// Validate checks if the PlanUnitMapping has valid data.
func (m *PlanUnitMapping) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMappingID
	}
	if m.PlanID == uuid.Nil {
		return ErrEmptyPlanID
	}
	if m.UnitID == uuid.Nil {
		return ErrEmptyMappingUnit
	}
	if m.Position < 0 {
		return ErrNegativePosition
	}
	return nil
}
