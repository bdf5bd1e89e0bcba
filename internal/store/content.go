package store

import (
	"context"
	"database/sql"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/google/uuid"
)

// ContentStore defines persistence for the three-level content hierarchy.
// All list operations return rows ordered by the admin-assigned position
// column, never by insertion order.
type ContentStore interface {
	// CreateSkill saves a new top-level skill.
	CreateSkill(ctx context.Context, skill *domain.Skill) error

	// GetSkill retrieves a skill by ID.
	// Returns ErrSkillNotFound if the skill does not exist.
	GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error)

	// ListSkills retrieves all skills ordered by position.
	ListSkills(ctx context.Context) ([]*domain.Skill, error)

	// CreateSubSkill saves a new sub-skill under an existing skill.
	// Returns ErrIntegrityViolation if the declared parent does not exist.
	CreateSubSkill(ctx context.Context, subSkill *domain.SubSkill) error

	// ListSubSkills retrieves a skill's sub-skills ordered by position.
	ListSubSkills(ctx context.Context, skillID uuid.UUID) ([]*domain.SubSkill, error)

	// CreateUnit saves a new training unit under an existing sub-skill.
	// Returns ErrIntegrityViolation if the declared parent does not exist.
	CreateUnit(ctx context.Context, unit *domain.TrainingUnit) error

	// GetUnit retrieves a training unit by ID.
	// Returns ErrUnitNotFound if the unit does not exist.
	GetUnit(ctx context.Context, id uuid.UUID) (*domain.TrainingUnit, error)

	// ListUnits retrieves a sub-skill's units ordered by position.
	ListUnits(ctx context.Context, subSkillID uuid.UUID) ([]*domain.TrainingUnit, error)

	// UpdateUnitContent replaces a unit's content field. This is the write
	// path shared by administrative authoring and the content-population
	// tool. Returns ErrUnitNotFound if the unit does not exist.
	UpdateUnitContent(ctx context.Context, id uuid.UUID, content string) error

	// CountUnitsBySkill counts all training units under a skill's
	// sub-skills. Used as the denominator of skill progress.
	CountUnitsBySkill(ctx context.Context, skillID uuid.UUID) (int, error)

	// SkillIDForUnit resolves the owning skill of a unit by walking the
	// unit -> sub-skill -> skill linkage.
	// Returns ErrUnitNotFound if the unit does not exist.
	SkillIDForUnit(ctx context.Context, unitID uuid.UUID) (uuid.UUID, error)

	// UnitsExist verifies that every given unit ID references an existing
	// row. Returns ErrUnitNotFound naming the first missing ID.
	UnitsExist(ctx context.Context, ids []uuid.UUID) error

	// WithTx returns a ContentStore bound to the given transaction.
	WithTx(tx *sql.Tx) ContentStore
}
