package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/platform/logger"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
)

// ContentStore implements the store.ContentStore interface using a
// PostgreSQL database as the storage backend.
type ContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewContentStore creates a new PostgreSQL implementation of the
// ContentStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewContentStore(db store.DBTX, logger *slog.Logger) *ContentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

// Ensure ContentStore implements store.ContentStore interface
var _ store.ContentStore = (*ContentStore)(nil)

// WithTx implements store.ContentStore.WithTx
func (s *ContentStore) WithTx(tx *sql.Tx) store.ContentStore {
	return &ContentStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateSkill implements store.ContentStore.CreateSkill
func (s *ContentStore) CreateSkill(ctx context.Context, skill *domain.Skill) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := skill.Validate(); err != nil {
		log.Warn("skill validation failed during create",
			slog.String("error", err.Error()),
			slog.String("skill_id", skill.ID.String()))
		return err
	}

	query := `
		INSERT INTO skills (id, position, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		skill.ID,
		skill.Position,
		skill.Title,
		skill.CreatedAt,
		skill.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create skill",
			slog.String("error", err.Error()),
			slog.String("skill_id", skill.ID.String()))
		return MapError(err)
	}

	log.Info("skill created",
		slog.String("skill_id", skill.ID.String()),
		slog.String("title", skill.Title))
	return nil
}

// GetSkill implements store.ContentStore.GetSkill
func (s *ContentStore) GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, position, title, created_at, updated_at
		FROM skills
		WHERE id = $1
	`

	var skill domain.Skill
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&skill.ID,
		&skill.Position,
		&skill.Title,
		&skill.CreatedAt,
		&skill.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("skill not found", slog.String("skill_id", id.String()))
			return nil, store.ErrSkillNotFound
		}
		log.Error("failed to get skill",
			slog.String("error", err.Error()),
			slog.String("skill_id", id.String()))
		return nil, MapError(err)
	}

	return &skill, nil
}

// ListSkills implements store.ContentStore.ListSkills
func (s *ContentStore) ListSkills(ctx context.Context) ([]*domain.Skill, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, position, title, created_at, updated_at
		FROM skills
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list skills", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	skills := []*domain.Skill{}
	for rows.Next() {
		var skill domain.Skill
		if err := rows.Scan(
			&skill.ID,
			&skill.Position,
			&skill.Title,
			&skill.CreatedAt,
			&skill.UpdatedAt,
		); err != nil {
			log.Error("failed to scan skill row", slog.String("error", err.Error()))
			return nil, err
		}
		skills = append(skills, &skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return skills, nil
}

// CreateSubSkill implements store.ContentStore.CreateSubSkill
func (s *ContentStore) CreateSubSkill(ctx context.Context, subSkill *domain.SubSkill) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := subSkill.Validate(); err != nil {
		log.Warn("sub-skill validation failed during create",
			slog.String("error", err.Error()),
			slog.String("sub_skill_id", subSkill.ID.String()))
		return err
	}

	query := `
		INSERT INTO sub_skills (id, skill_id, position, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		subSkill.ID,
		subSkill.SkillID,
		subSkill.Position,
		subSkill.Title,
		subSkill.CreatedAt,
		subSkill.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("sub-skill references missing parent skill",
				slog.String("sub_skill_id", subSkill.ID.String()),
				slog.String("skill_id", subSkill.SkillID.String()))
		} else {
			log.Error("failed to create sub-skill",
				slog.String("error", err.Error()),
				slog.String("sub_skill_id", subSkill.ID.String()))
		}
		return MapError(err)
	}

	log.Info("sub-skill created",
		slog.String("sub_skill_id", subSkill.ID.String()),
		slog.String("skill_id", subSkill.SkillID.String()))
	return nil
}

// ListSubSkills implements store.ContentStore.ListSubSkills
func (s *ContentStore) ListSubSkills(ctx context.Context, skillID uuid.UUID) ([]*domain.SubSkill, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, skill_id, position, title, created_at, updated_at
		FROM sub_skills
		WHERE skill_id = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, skillID)
	if err != nil {
		log.Error("failed to list sub-skills",
			slog.String("error", err.Error()),
			slog.String("skill_id", skillID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	subSkills := []*domain.SubSkill{}
	for rows.Next() {
		var sub domain.SubSkill
		if err := rows.Scan(
			&sub.ID,
			&sub.SkillID,
			&sub.Position,
			&sub.Title,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			log.Error("failed to scan sub-skill row", slog.String("error", err.Error()))
			return nil, err
		}
		subSkills = append(subSkills, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subSkills, nil
}

// CreateUnit implements store.ContentStore.CreateUnit
func (s *ContentStore) CreateUnit(ctx context.Context, unit *domain.TrainingUnit) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := unit.Validate(); err != nil {
		log.Warn("unit validation failed during create",
			slog.String("error", err.Error()),
			slog.String("unit_id", unit.ID.String()))
		return err
	}

	query := `
		INSERT INTO training_units (id, sub_skill_id, position, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		unit.ID,
		unit.SubSkillID,
		unit.Position,
		unit.Content,
		unit.CreatedAt,
		unit.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("unit references missing parent sub-skill",
				slog.String("unit_id", unit.ID.String()),
				slog.String("sub_skill_id", unit.SubSkillID.String()))
		} else {
			log.Error("failed to create unit",
				slog.String("error", err.Error()),
				slog.String("unit_id", unit.ID.String()))
		}
		return MapError(err)
	}

	log.Info("training unit created",
		slog.String("unit_id", unit.ID.String()),
		slog.String("sub_skill_id", unit.SubSkillID.String()))
	return nil
}

// GetUnit implements store.ContentStore.GetUnit
func (s *ContentStore) GetUnit(ctx context.Context, id uuid.UUID) (*domain.TrainingUnit, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, sub_skill_id, position, content, created_at, updated_at
		FROM training_units
		WHERE id = $1
	`

	var unit domain.TrainingUnit
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&unit.ID,
		&unit.SubSkillID,
		&unit.Position,
		&unit.Content,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("unit not found", slog.String("unit_id", id.String()))
			return nil, store.ErrUnitNotFound
		}
		log.Error("failed to get unit",
			slog.String("error", err.Error()),
			slog.String("unit_id", id.String()))
		return nil, MapError(err)
	}

	return &unit, nil
}

// ListUnits implements store.ContentStore.ListUnits
func (s *ContentStore) ListUnits(ctx context.Context, subSkillID uuid.UUID) ([]*domain.TrainingUnit, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, sub_skill_id, position, content, created_at, updated_at
		FROM training_units
		WHERE sub_skill_id = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, subSkillID)
	if err != nil {
		log.Error("failed to list units",
			slog.String("error", err.Error()),
			slog.String("sub_skill_id", subSkillID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	units := []*domain.TrainingUnit{}
	for rows.Next() {
		var unit domain.TrainingUnit
		if err := rows.Scan(
			&unit.ID,
			&unit.SubSkillID,
			&unit.Position,
			&unit.Content,
			&unit.CreatedAt,
			&unit.UpdatedAt,
		); err != nil {
			log.Error("failed to scan unit row", slog.String("error", err.Error()))
			return nil, err
		}
		units = append(units, &unit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return units, nil
}

// UpdateUnitContent implements store.ContentStore.UpdateUnitContent
func (s *ContentStore) UpdateUnitContent(ctx context.Context, id uuid.UUID, content string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if content == "" {
		return domain.ErrEmptyUnitContent
	}

	query := `
		UPDATE training_units
		SET content = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, content, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update unit content",
			slog.String("error", err.Error()),
			slog.String("unit_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUnitNotFound); err != nil {
		log.Debug("unit not found for content update",
			slog.String("unit_id", id.String()))
		return err
	}

	log.Info("unit content updated", slog.String("unit_id", id.String()))
	return nil
}

// CountUnitsBySkill implements store.ContentStore.CountUnitsBySkill
func (s *ContentStore) CountUnitsBySkill(ctx context.Context, skillID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM training_units tu
		JOIN sub_skills ss ON ss.id = tu.sub_skill_id
		WHERE ss.skill_id = $1
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, skillID).Scan(&count); err != nil {
		log.Error("failed to count units by skill",
			slog.String("error", err.Error()),
			slog.String("skill_id", skillID.String()))
		return 0, MapError(err)
	}

	return count, nil
}

// SkillIDForUnit implements store.ContentStore.SkillIDForUnit
func (s *ContentStore) SkillIDForUnit(ctx context.Context, unitID uuid.UUID) (uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ss.skill_id
		FROM training_units tu
		JOIN sub_skills ss ON ss.id = tu.sub_skill_id
		WHERE tu.id = $1
	`

	var skillID uuid.UUID
	err := s.db.QueryRowContext(ctx, query, unitID).Scan(&skillID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("unit not found resolving owning skill",
				slog.String("unit_id", unitID.String()))
			return uuid.Nil, store.ErrUnitNotFound
		}
		log.Error("failed to resolve owning skill",
			slog.String("error", err.Error()),
			slog.String("unit_id", unitID.String()))
		return uuid.Nil, MapError(err)
	}

	return skillID, nil
}

// UnitsExist implements store.ContentStore.UnitsExist
func (s *ContentStore) UnitsExist(ctx context.Context, ids []uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (SELECT 1 FROM training_units WHERE id = $1)`

	for _, id := range ids {
		var exists bool
		if err := s.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
			log.Error("failed to check unit existence",
				slog.String("error", err.Error()),
				slog.String("unit_id", id.String()))
			return MapError(err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", store.ErrUnitNotFound, id)
		}
	}

	return nil
}

// closeRows closes a result set, logging close failures instead of
// masking the caller's error.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
