package store

import (
	"context"
	"database/sql"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/google/uuid"
)

// ProgressStore defines persistence for completion events and the derived
// progress projections. Completions are append-only; projections are only
// ever written by recomputation inside the same transaction as the
// triggering event.
type ProgressStore interface {
	// InsertCompletion saves a completion event.
	// Returns ErrDuplicateSubmission when a completion already exists for
	// the (user, day) pair; the row is never overwritten.
	// Returns ErrIntegrityViolation if the user or unit does not exist.
	InsertCompletion(ctx context.Context, completion *domain.UnitCompletion) error

	// ListCompletions retrieves a user's completion events, most recent first.
	ListCompletions(ctx context.Context, userID uuid.UUID) ([]*domain.UnitCompletion, error)

	// LockSkillProgress serializes recomputation for one (user, skill)
	// pair until the current transaction ends. Must be acquired before
	// counting so a concurrent recompute cannot commit a stale count.
	// Only meaningful inside a transaction.
	LockSkillProgress(ctx context.Context, userID, skillID uuid.UUID) error

	// CountDistinctCompletedUnits counts the distinct training units under
	// the given skill that the user has completed. Used as the numerator
	// of skill progress.
	CountDistinctCompletedUnits(ctx context.Context, userID, skillID uuid.UUID) (int, error)

	// UpsertSkillProgress writes the recomputed skill projection row.
	UpsertSkillProgress(ctx context.Context, progress *domain.SkillProgress) error

	// GetSkillProgress retrieves the projection for a (user, skill) pair.
	// Returns ErrProgressNotFound if no projection exists yet.
	GetSkillProgress(ctx context.Context, userID, skillID uuid.UUID) (*domain.SkillProgress, error)

	// LockSpecializedProgress serializes recomputation for one
	// (user, training) pair until the current transaction ends. Must be
	// acquired before counting, like LockSkillProgress.
	LockSpecializedProgress(ctx context.Context, userID, trainingID uuid.UUID) error

	// CountCompletedPlans counts the distinct plans under the given
	// training track that the user has a completed session for.
	CountCompletedPlans(ctx context.Context, userID, trainingID uuid.UUID) (int, error)

	// UpsertSpecializedProgress writes the recomputed training projection row.
	UpsertSpecializedProgress(ctx context.Context, progress *domain.SpecializedProgress) error

	// GetSpecializedProgress retrieves the projection for a (user, training)
	// pair. Returns ErrProgressNotFound if no projection exists yet.
	GetSpecializedProgress(ctx context.Context, userID, trainingID uuid.UUID) (*domain.SpecializedProgress, error)

	// WithTx returns a ProgressStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProgressStore
}

// SessionStore defines persistence for a user's plan run-throughs.
type SessionStore interface {
	// Create saves a new session.
	// Returns ErrIntegrityViolation if the user or plan does not exist.
	Create(ctx context.Context, session *domain.TrainingSession) error

	// GetByID retrieves a session by ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error)

	// UpdateState persists a session's state after a domain-validated
	// transition. Returns ErrSessionNotFound if the session does not exist.
	UpdateState(ctx context.Context, session *domain.TrainingSession) error

	// WithTx returns a SessionStore bound to the given transaction.
	WithTx(tx *sql.Tx) SessionStore
}
