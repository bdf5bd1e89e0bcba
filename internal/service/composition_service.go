package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
)

// CompositionService provides operations for assembling training tracks,
// plans and the shared daily curriculum out of existing training units.
type CompositionService interface {
	// CreateTraining creates a new specialized training track.
	CreateTraining(ctx context.Context, title string) (*domain.SpecializedTraining, error)

	// GetTraining retrieves a training track by ID.
	GetTraining(ctx context.Context, id uuid.UUID) (*domain.SpecializedTraining, error)

	// ComposePlan atomically creates a plan under the given training track
	// and maps the given units onto it in order. Every unit must already
	// exist; positions are assigned from the slice order.
	ComposePlan(
		ctx context.Context,
		trainingID uuid.UUID,
		unitIDs []uuid.UUID,
	) (*domain.TrainingPlan, error)

	// RecomposePlan atomically replaces a plan's unit mappings with the
	// given units. Readers never observe a partially replaced plan.
	RecomposePlan(ctx context.Context, planID uuid.UUID, unitIDs []uuid.UUID) error

	// GetPlanUnits retrieves a plan's unit mappings ordered by position.
	GetPlanUnits(ctx context.Context, planID uuid.UUID) ([]*domain.PlanUnitMapping, error)

	// ListPlans lists all plans of a training track.
	ListPlans(ctx context.Context, trainingID uuid.UUID) ([]*domain.TrainingPlan, error)

	// AssignCurriculumDay assigns a unit to a curriculum day. Repeating an
	// existing assignment is a no-op rather than an error.
	AssignCurriculumDay(ctx context.Context, dayNumber int, unitID uuid.UUID) error

	// GetCurriculumDay retrieves all unit assignments for a day.
	GetCurriculumDay(ctx context.Context, dayNumber int) ([]*domain.CurriculumDayUnit, error)
}

// compositionServiceImpl implements the CompositionService interface
type compositionServiceImpl struct {
	compositionStore store.CompositionStore
	contentStore     store.ContentStore
	transactor       store.Transactor
	logger           *slog.Logger
}

var _ CompositionService = (*compositionServiceImpl)(nil)

// NewCompositionService creates a new CompositionService.
// It returns an error if any of the required dependencies are nil.
func NewCompositionService(
	compositionStore store.CompositionStore,
	contentStore store.ContentStore,
	transactor store.Transactor,
	logger *slog.Logger,
) (CompositionService, error) {
	if compositionStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "compositionStore cannot be nil",
		}
	}
	if contentStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "contentStore cannot be nil",
		}
	}
	if transactor == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "transactor cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &compositionServiceImpl{
		compositionStore: compositionStore,
		contentStore:     contentStore,
		transactor:       transactor,
		logger:           logger.With("component", "composition_service"),
	}, nil
}

// CreateTraining creates a new specialized training track.
func (s *compositionServiceImpl) CreateTraining(
	ctx context.Context,
	title string,
) (*domain.SpecializedTraining, error) {
	training, err := domain.NewSpecializedTraining(title)
	if err != nil {
		return nil, err
	}

	if err := s.compositionStore.CreateTraining(ctx, training); err != nil {
		s.logger.Error("failed to create training track",
			"error", err,
			"title", title)
		return nil, &ServiceError{
			Operation: "create_training",
			Message:   "failed to save training track",
			Err:       err,
		}
	}

	s.logger.Info("training track created", "training_id", training.ID)
	return training, nil
}

// GetTraining retrieves a training track by ID.
func (s *compositionServiceImpl) GetTraining(
	ctx context.Context,
	id uuid.UUID,
) (*domain.SpecializedTraining, error) {
	return s.compositionStore.GetTraining(ctx, id)
}

// ComposePlan creates a plan and its unit mappings in one transaction.
// Unit existence is verified inside the transaction so a concurrently
// deleted unit cannot leave a dangling mapping.
func (s *compositionServiceImpl) ComposePlan(
	ctx context.Context,
	trainingID uuid.UUID,
	unitIDs []uuid.UUID,
) (*domain.TrainingPlan, error) {
	if len(unitIDs) == 0 {
		return nil, ErrEmptyPlanUnits
	}

	plan, err := domain.NewTrainingPlan(trainingID)
	if err != nil {
		return nil, err
	}

	mappings, err := buildMappings(plan.ID, unitIDs)
	if err != nil {
		return nil, err
	}

	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.contentStore.WithTx(tx).UnitsExist(ctx, unitIDs); err != nil {
			return err
		}

		txStore := s.compositionStore.WithTx(tx)
		if err := txStore.CreatePlan(ctx, plan); err != nil {
			return err
		}
		return txStore.InsertMappings(ctx, mappings)
	})
	if err != nil {
		s.logger.Error("failed to compose plan",
			"error", err,
			"training_id", trainingID,
			"unit_count", len(unitIDs))
		return nil, err
	}

	s.logger.Info("plan composed",
		"plan_id", plan.ID,
		"training_id", trainingID,
		"unit_count", len(unitIDs))
	return plan, nil
}

// RecomposePlan replaces a plan's mappings in one transaction.
func (s *compositionServiceImpl) RecomposePlan(
	ctx context.Context,
	planID uuid.UUID,
	unitIDs []uuid.UUID,
) error {
	if len(unitIDs) == 0 {
		return ErrEmptyPlanUnits
	}

	mappings, err := buildMappings(planID, unitIDs)
	if err != nil {
		return err
	}

	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.compositionStore.WithTx(tx)

		// Fetching the plan first turns a recompose of a missing plan
		// into ErrPlanNotFound instead of a foreign key violation.
		if _, err := txStore.GetPlan(ctx, planID); err != nil {
			return err
		}
		if err := s.contentStore.WithTx(tx).UnitsExist(ctx, unitIDs); err != nil {
			return err
		}
		if err := txStore.DeleteMappings(ctx, planID); err != nil {
			return err
		}
		return txStore.InsertMappings(ctx, mappings)
	})
	if err != nil {
		s.logger.Error("failed to recompose plan",
			"error", err,
			"plan_id", planID,
			"unit_count", len(unitIDs))
		return err
	}

	s.logger.Info("plan recomposed",
		"plan_id", planID,
		"unit_count", len(unitIDs))
	return nil
}

// GetPlanUnits retrieves a plan's unit mappings ordered by position.
func (s *compositionServiceImpl) GetPlanUnits(
	ctx context.Context,
	planID uuid.UUID,
) ([]*domain.PlanUnitMapping, error) {
	if _, err := s.compositionStore.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	return s.compositionStore.ListPlanUnits(ctx, planID)
}

// ListPlans lists all plans of a training track.
func (s *compositionServiceImpl) ListPlans(
	ctx context.Context,
	trainingID uuid.UUID,
) ([]*domain.TrainingPlan, error) {
	return s.compositionStore.ListPlans(ctx, trainingID)
}

// AssignCurriculumDay assigns a unit to a curriculum day.
func (s *compositionServiceImpl) AssignCurriculumDay(
	ctx context.Context,
	dayNumber int,
	unitID uuid.UUID,
) error {
	dayUnit, err := domain.NewCurriculumDayUnit(dayNumber, unitID)
	if err != nil {
		return err
	}

	if err := s.compositionStore.UpsertCurriculumDay(ctx, dayUnit); err != nil {
		s.logger.Error("failed to assign curriculum day",
			"error", err,
			"day_number", dayNumber,
			"unit_id", unitID)
		return err
	}

	s.logger.Info("curriculum day assigned",
		"day_number", dayNumber,
		"unit_id", unitID)
	return nil
}

// GetCurriculumDay retrieves all unit assignments for a day.
func (s *compositionServiceImpl) GetCurriculumDay(
	ctx context.Context,
	dayNumber int,
) ([]*domain.CurriculumDayUnit, error) {
	if dayNumber <= 0 {
		return nil, domain.ErrInvalidDayNumber
	}
	return s.compositionStore.ListCurriculumDay(ctx, dayNumber)
}

// buildMappings turns an ordered unit ID slice into mapping rows with
// positions assigned from the slice order.
func buildMappings(planID uuid.UUID, unitIDs []uuid.UUID) ([]*domain.PlanUnitMapping, error) {
	mappings := make([]*domain.PlanUnitMapping, 0, len(unitIDs))
	for i, unitID := range unitIDs {
		mapping, err := domain.NewPlanUnitMapping(planID, unitID, i)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, mapping)
	}
	return mappings, nil
}
