package store

import (
	"context"
	"database/sql"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/google/uuid"
)

// CompositionStore defines persistence for training tracks, plans, plan
// unit mappings and curriculum day assignments.
type CompositionStore interface {
	// CreateTraining saves a new specialized training track.
	CreateTraining(ctx context.Context, training *domain.SpecializedTraining) error

	// GetTraining retrieves a training track by ID.
	// Returns ErrTrainingNotFound if the track does not exist.
	GetTraining(ctx context.Context, id uuid.UUID) (*domain.SpecializedTraining, error)

	// CreatePlan saves a new plan under an existing training track.
	// Returns ErrIntegrityViolation if the track does not exist.
	CreatePlan(ctx context.Context, plan *domain.TrainingPlan) error

	// GetPlan retrieves a plan by ID.
	// Returns ErrPlanNotFound if the plan does not exist.
	GetPlan(ctx context.Context, id uuid.UUID) (*domain.TrainingPlan, error)

	// ListPlans retrieves all plans of a training track.
	ListPlans(ctx context.Context, trainingID uuid.UUID) ([]*domain.TrainingPlan, error)

	// CountPlans counts the plans of a training track. Used as the
	// denominator of specialized progress.
	CountPlans(ctx context.Context, trainingID uuid.UUID) (int, error)

	// InsertMappings saves plan unit mapping rows.
	// Returns ErrDuplicateOrder if two mappings in the same plan would
	// share a position, ErrIntegrityViolation if a referenced plan or
	// unit does not exist.
	InsertMappings(ctx context.Context, mappings []*domain.PlanUnitMapping) error

	// DeleteMappings removes all mapping rows of a plan. Used only inside
	// the re-composition transaction so readers never observe a partially
	// replaced plan.
	DeleteMappings(ctx context.Context, planID uuid.UUID) error

	// ListPlanUnits retrieves a plan's mappings ordered by position.
	ListPlanUnits(ctx context.Context, planID uuid.UUID) ([]*domain.PlanUnitMapping, error)

	// UpsertCurriculumDay creates a day assignment, or leaves the existing
	// row untouched when the (day, unit) pair is already assigned.
	// Returns ErrIntegrityViolation if the unit does not exist.
	UpsertCurriculumDay(ctx context.Context, dayUnit *domain.CurriculumDayUnit) error

	// ListCurriculumDay retrieves all unit assignments for a day.
	ListCurriculumDay(ctx context.Context, dayNumber int) ([]*domain.CurriculumDayUnit, error)

	// WithTx returns a CompositionStore bound to the given transaction.
	WithTx(tx *sql.Tx) CompositionStore
}
