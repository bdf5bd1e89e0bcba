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

// ProgressStore implements the store.ProgressStore interface using a
// PostgreSQL database as the storage backend.
type ProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface.
func NewProgressStore(db store.DBTX, logger *slog.Logger) *ProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure ProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*ProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
func (s *ProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &ProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// InsertCompletion implements store.ProgressStore.InsertCompletion
// The (user_id, day_number) unique constraint serializes concurrent
// submissions: the first committed write wins and later writers get
// ErrDuplicateSubmission.
func (s *ProgressStore) InsertCompletion(ctx context.Context, completion *domain.UnitCompletion) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := completion.Validate(); err != nil {
		log.Warn("completion validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("completion_id", completion.ID.String()))
		return err
	}

	query := `
		INSERT INTO user_unit_completions (id, user_id, unit_id, day_number, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		completion.ID,
		completion.UserID,
		completion.UnitID,
		completion.DayNumber,
		completion.CompletedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate completion submission",
				slog.String("user_id", completion.UserID.String()),
				slog.Int("day_number", completion.DayNumber))
		} else {
			log.Error("failed to insert completion",
				slog.String("error", err.Error()),
				slog.String("user_id", completion.UserID.String()),
				slog.String("unit_id", completion.UnitID.String()))
		}
		return MapError(err)
	}

	log.Info("completion recorded",
		slog.String("user_id", completion.UserID.String()),
		slog.String("unit_id", completion.UnitID.String()),
		slog.Int("day_number", completion.DayNumber))
	return nil
}

// ListCompletions implements store.ProgressStore.ListCompletions
func (s *ProgressStore) ListCompletions(ctx context.Context, userID uuid.UUID) ([]*domain.UnitCompletion, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, unit_id, day_number, completed_at
		FROM user_unit_completions
		WHERE user_id = $1
		ORDER BY day_number DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list completions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	completions := []*domain.UnitCompletion{}
	for rows.Next() {
		var completion domain.UnitCompletion
		if err := rows.Scan(
			&completion.ID,
			&completion.UserID,
			&completion.UnitID,
			&completion.DayNumber,
			&completion.CompletedAt,
		); err != nil {
			log.Error("failed to scan completion row", slog.String("error", err.Error()))
			return nil, err
		}
		completions = append(completions, &completion)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return completions, nil
}

// LockSkillProgress implements store.ProgressStore.LockSkillProgress.
// An advisory transaction lock keyed on the (user, skill) pair serializes
// concurrent recomputes: the second transaction blocks here until the
// first commits, so its counts see the first one's completion rows.
func (s *ProgressStore) LockSkillProgress(ctx context.Context, userID, skillID uuid.UUID) error {
	return s.acquireRecomputeLock(ctx, "skill_progress", userID, skillID)
}

// LockSpecializedProgress implements store.ProgressStore.LockSpecializedProgress
func (s *ProgressStore) LockSpecializedProgress(ctx context.Context, userID, trainingID uuid.UUID) error {
	return s.acquireRecomputeLock(ctx, "specialized_progress", userID, trainingID)
}

// acquireRecomputeLock takes pg_advisory_xact_lock on a key derived from
// the projection scope. The lock is released automatically at commit or
// rollback.
func (s *ProgressStore) acquireRecomputeLock(ctx context.Context, scope string, userID, scopeID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT pg_advisory_xact_lock(hashtextextended($1 || ':' || $2 || ':' || $3, 0))`

	if _, err := s.db.ExecContext(ctx, query, scope, userID.String(), scopeID.String()); err != nil {
		log.Error("failed to acquire recompute lock",
			slog.String("error", err.Error()),
			slog.String("scope", scope),
			slog.String("user_id", userID.String()),
			slog.String("scope_id", scopeID.String()))
		return MapError(err)
	}

	return nil
}

// CountDistinctCompletedUnits implements store.ProgressStore.CountDistinctCompletedUnits
func (s *ProgressStore) CountDistinctCompletedUnits(ctx context.Context, userID, skillID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(DISTINCT uc.unit_id)
		FROM user_unit_completions uc
		JOIN training_units tu ON tu.id = uc.unit_id
		JOIN sub_skills ss ON ss.id = tu.sub_skill_id
		WHERE uc.user_id = $1 AND ss.skill_id = $2
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, skillID).Scan(&count); err != nil {
		log.Error("failed to count completed units",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("skill_id", skillID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// UpsertSkillProgress implements store.ProgressStore.UpsertSkillProgress
func (s *ProgressStore) UpsertSkillProgress(ctx context.Context, progress *domain.SkillProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("skill progress validation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()))
		return err
	}

	query := `
		INSERT INTO user_skill_progress (user_id, skill_id, completed_count, percentage, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, skill_id) DO UPDATE
		SET completed_count = EXCLUDED.completed_count,
		    percentage = EXCLUDED.percentage,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		progress.UserID,
		progress.SkillID,
		progress.CompletedCount,
		progress.Percentage,
		progress.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert skill progress",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.String("skill_id", progress.SkillID.String()))
		return MapError(err)
	}

	log.Debug("skill progress written",
		slog.String("user_id", progress.UserID.String()),
		slog.String("skill_id", progress.SkillID.String()),
		slog.Float64("percentage", progress.Percentage))
	return nil
}

// GetSkillProgress implements store.ProgressStore.GetSkillProgress
func (s *ProgressStore) GetSkillProgress(ctx context.Context, userID, skillID uuid.UUID) (*domain.SkillProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, skill_id, completed_count, percentage, updated_at
		FROM user_skill_progress
		WHERE user_id = $1 AND skill_id = $2
	`

	var progress domain.SkillProgress
	err := s.db.QueryRowContext(ctx, query, userID, skillID).Scan(
		&progress.UserID,
		&progress.SkillID,
		&progress.CompletedCount,
		&progress.Percentage,
		&progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get skill progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("skill_id", skillID.String()))
		return nil, MapError(err)
	}

	return &progress, nil
}

// CountCompletedPlans implements store.ProgressStore.CountCompletedPlans
func (s *ProgressStore) CountCompletedPlans(ctx context.Context, userID, trainingID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(DISTINCT sess.plan_id)
		FROM specialized_training_sessions sess
		JOIN specialized_training_plans plan ON plan.id = sess.plan_id
		WHERE sess.user_id = $1 AND plan.training_id = $2 AND sess.state = $3
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, trainingID, domain.SessionCompleted).Scan(&count)
	if err != nil {
		log.Error("failed to count completed plans",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("training_id", trainingID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// UpsertSpecializedProgress implements store.ProgressStore.UpsertSpecializedProgress
func (s *ProgressStore) UpsertSpecializedProgress(ctx context.Context, progress *domain.SpecializedProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("specialized progress validation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()))
		return err
	}

	query := `
		INSERT INTO user_specialized_progress (user_id, training_id, percentage, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, training_id) DO UPDATE
		SET percentage = EXCLUDED.percentage,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		progress.UserID,
		progress.TrainingID,
		progress.Percentage,
		progress.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert specialized progress",
			slog.String("error", err.Error()),
			slog.String("user_id", progress.UserID.String()),
			slog.String("training_id", progress.TrainingID.String()))
		return MapError(err)
	}

	log.Debug("specialized progress written",
		slog.String("user_id", progress.UserID.String()),
		slog.String("training_id", progress.TrainingID.String()),
		slog.Float64("percentage", progress.Percentage))
	return nil
}

// GetSpecializedProgress implements store.ProgressStore.GetSpecializedProgress
func (s *ProgressStore) GetSpecializedProgress(ctx context.Context, userID, trainingID uuid.UUID) (*domain.SpecializedProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, training_id, percentage, updated_at
		FROM user_specialized_progress
		WHERE user_id = $1 AND training_id = $2
	`

	var progress domain.SpecializedProgress
	err := s.db.QueryRowContext(ctx, query, userID, trainingID).Scan(
		&progress.UserID,
		&progress.TrainingID,
		&progress.Percentage,
		&progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get specialized progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("training_id", trainingID.String()))
		return nil, MapError(err)
	}

	return &progress, nil
}
