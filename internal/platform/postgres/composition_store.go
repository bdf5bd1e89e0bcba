package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/platform/logger"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
)

// CompositionStore implements the store.CompositionStore interface using
// a PostgreSQL database as the storage backend.
type CompositionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCompositionStore creates a new PostgreSQL implementation of the
// CompositionStore interface.
func NewCompositionStore(db store.DBTX, logger *slog.Logger) *CompositionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &CompositionStore{
		db:     db,
		logger: logger.With(slog.String("component", "composition_store")),
	}
}

// Ensure CompositionStore implements store.CompositionStore interface
var _ store.CompositionStore = (*CompositionStore)(nil)

// WithTx implements store.CompositionStore.WithTx
func (s *CompositionStore) WithTx(tx *sql.Tx) store.CompositionStore {
	return &CompositionStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateTraining implements store.CompositionStore.CreateTraining
func (s *CompositionStore) CreateTraining(ctx context.Context, training *domain.SpecializedTraining) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := training.Validate(); err != nil {
		log.Warn("training validation failed during create",
			slog.String("error", err.Error()),
			slog.String("training_id", training.ID.String()))
		return err
	}

	query := `
		INSERT INTO specialized_trainings (id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		training.ID,
		training.Title,
		training.CreatedAt,
		training.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create training",
			slog.String("error", err.Error()),
			slog.String("training_id", training.ID.String()))
		return MapError(err)
	}

	log.Info("training created",
		slog.String("training_id", training.ID.String()),
		slog.String("title", training.Title))
	return nil
}

// GetTraining implements store.CompositionStore.GetTraining
func (s *CompositionStore) GetTraining(ctx context.Context, id uuid.UUID) (*domain.SpecializedTraining, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, created_at, updated_at
		FROM specialized_trainings
		WHERE id = $1
	`

	var training domain.SpecializedTraining
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&training.ID,
		&training.Title,
		&training.CreatedAt,
		&training.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("training not found", slog.String("training_id", id.String()))
			return nil, store.ErrTrainingNotFound
		}
		log.Error("failed to get training",
			slog.String("error", err.Error()),
			slog.String("training_id", id.String()))
		return nil, MapError(err)
	}

	return &training, nil
}

// CreatePlan implements store.CompositionStore.CreatePlan
func (s *CompositionStore) CreatePlan(ctx context.Context, plan *domain.TrainingPlan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := plan.Validate(); err != nil {
		log.Warn("plan validation failed during create",
			slog.String("error", err.Error()),
			slog.String("plan_id", plan.ID.String()))
		return err
	}

	query := `
		INSERT INTO specialized_training_plans (id, training_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		plan.ID,
		plan.TrainingID,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", plan.ID.String()),
			slog.String("training_id", plan.TrainingID.String()))
		return MapError(err)
	}

	log.Info("plan created",
		slog.String("plan_id", plan.ID.String()),
		slog.String("training_id", plan.TrainingID.String()))
	return nil
}

// GetPlan implements store.CompositionStore.GetPlan
func (s *CompositionStore) GetPlan(ctx context.Context, id uuid.UUID) (*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, training_id, created_at, updated_at
		FROM specialized_training_plans
		WHERE id = $1
	`

	var plan domain.TrainingPlan
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&plan.ID,
		&plan.TrainingID,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("plan not found", slog.String("plan_id", id.String()))
			return nil, store.ErrPlanNotFound
		}
		log.Error("failed to get plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", id.String()))
		return nil, MapError(err)
	}

	return &plan, nil
}

// ListPlans implements store.CompositionStore.ListPlans
func (s *CompositionStore) ListPlans(ctx context.Context, trainingID uuid.UUID) ([]*domain.TrainingPlan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, training_id, created_at, updated_at
		FROM specialized_training_plans
		WHERE training_id = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, trainingID)
	if err != nil {
		log.Error("failed to list plans",
			slog.String("error", err.Error()),
			slog.String("training_id", trainingID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	plans := []*domain.TrainingPlan{}
	for rows.Next() {
		var plan domain.TrainingPlan
		if err := rows.Scan(
			&plan.ID,
			&plan.TrainingID,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			log.Error("failed to scan plan row", slog.String("error", err.Error()))
			return nil, err
		}
		plans = append(plans, &plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

// CountPlans implements store.CompositionStore.CountPlans
func (s *CompositionStore) CountPlans(ctx context.Context, trainingID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT COUNT(*) FROM specialized_training_plans WHERE training_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, trainingID).Scan(&count); err != nil {
		log.Error("failed to count plans",
			slog.String("error", err.Error()),
			slog.String("training_id", trainingID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// InsertMappings implements store.CompositionStore.InsertMappings
func (s *CompositionStore) InsertMappings(ctx context.Context, mappings []*domain.PlanUnitMapping) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO plan_unit_mappings (id, plan_id, unit_id, position)
		VALUES ($1, $2, $3, $4)
	`

	for _, mapping := range mappings {
		if err := mapping.Validate(); err != nil {
			log.Warn("mapping validation failed during insert",
				slog.String("error", err.Error()),
				slog.String("mapping_id", mapping.ID.String()))
			return err
		}

		_, err := s.db.ExecContext(
			ctx,
			query,
			mapping.ID,
			mapping.PlanID,
			mapping.UnitID,
			mapping.Position,
		)
		if err != nil {
			log.Error("failed to insert plan unit mapping",
				slog.String("error", err.Error()),
				slog.String("plan_id", mapping.PlanID.String()),
				slog.String("unit_id", mapping.UnitID.String()),
				slog.Int("position", mapping.Position))
			return MapError(err)
		}
	}

	return nil
}

// DeleteMappings implements store.CompositionStore.DeleteMappings
func (s *CompositionStore) DeleteMappings(ctx context.Context, planID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM plan_unit_mappings WHERE plan_id = $1`

	if _, err := s.db.ExecContext(ctx, query, planID); err != nil {
		log.Error("failed to delete plan unit mappings",
			slog.String("error", err.Error()),
			slog.String("plan_id", planID.String()))
		return MapError(err)
	}

	return nil
}

// ListPlanUnits implements store.CompositionStore.ListPlanUnits
func (s *CompositionStore) ListPlanUnits(ctx context.Context, planID uuid.UUID) ([]*domain.PlanUnitMapping, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, plan_id, unit_id, position
		FROM plan_unit_mappings
		WHERE plan_id = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, planID)
	if err != nil {
		log.Error("failed to list plan units",
			slog.String("error", err.Error()),
			slog.String("plan_id", planID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	mappings := []*domain.PlanUnitMapping{}
	for rows.Next() {
		var mapping domain.PlanUnitMapping
		if err := rows.Scan(
			&mapping.ID,
			&mapping.PlanID,
			&mapping.UnitID,
			&mapping.Position,
		); err != nil {
			log.Error("failed to scan mapping row", slog.String("error", err.Error()))
			return nil, err
		}
		mappings = append(mappings, &mapping)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return mappings, nil
}

// UpsertCurriculumDay implements store.CompositionStore.UpsertCurriculumDay
func (s *CompositionStore) UpsertCurriculumDay(ctx context.Context, dayUnit *domain.CurriculumDayUnit) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := dayUnit.Validate(); err != nil {
		log.Warn("curriculum day validation failed",
			slog.String("error", err.Error()),
			slog.Int("day_number", dayUnit.DayNumber))
		return err
	}

	query := `
		INSERT INTO curriculum_day_units (id, day_number, unit_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day_number, unit_id) DO NOTHING
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		dayUnit.ID,
		dayUnit.DayNumber,
		dayUnit.UnitID,
		dayUnit.CreatedAt,
	)
	if err != nil {
		log.Error("failed to upsert curriculum day",
			slog.String("error", err.Error()),
			slog.Int("day_number", dayUnit.DayNumber),
			slog.String("unit_id", dayUnit.UnitID.String()))
		return MapError(err)
	}

	log.Info("curriculum day assignment written",
		slog.Int("day_number", dayUnit.DayNumber),
		slog.String("unit_id", dayUnit.UnitID.String()))
	return nil
}

// ListCurriculumDay implements store.CompositionStore.ListCurriculumDay
func (s *CompositionStore) ListCurriculumDay(ctx context.Context, dayNumber int) ([]*domain.CurriculumDayUnit, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, day_number, unit_id, created_at
		FROM curriculum_day_units
		WHERE day_number = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, dayNumber)
	if err != nil {
		log.Error("failed to list curriculum day",
			slog.String("error", err.Error()),
			slog.Int("day_number", dayNumber))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	dayUnits := []*domain.CurriculumDayUnit{}
	for rows.Next() {
		var dayUnit domain.CurriculumDayUnit
		if err := rows.Scan(
			&dayUnit.ID,
			&dayUnit.DayNumber,
			&dayUnit.UnitID,
			&dayUnit.CreatedAt,
		); err != nil {
			log.Error("failed to scan curriculum day row", slog.String("error", err.Error()))
			return nil, err
		}
		dayUnits = append(dayUnits, &dayUnit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dayUnits, nil
}
