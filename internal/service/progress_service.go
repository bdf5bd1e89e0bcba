package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
)

// ProgressService provides operations for recording completion events,
// running plan sessions, and reading the derived progress projections.
// Every write that affects a projection recomputes it in the same
// transaction, so a reader never sees a projection that disagrees with
// its source events.
type ProgressService interface {
	// RecordCompletion records that the user finished the unit on the
	// given training day and recomputes the owning skill's progress.
	// Returns store.ErrDuplicateSubmission when the (user, day) pair
	// already has a completion; the existing row is never overwritten.
	RecordCompletion(
		ctx context.Context,
		userID, unitID uuid.UUID,
		dayNumber int,
	) (*domain.UnitCompletion, error)

	// ListCompletions retrieves a user's completion history, most recent first.
	ListCompletions(ctx context.Context, userID uuid.UUID) ([]*domain.UnitCompletion, error)

	// GetSkillProgress retrieves the cached (user, skill) projection.
	// A user with no completions under the skill gets a zero-valued
	// projection rather than an error.
	GetSkillProgress(ctx context.Context, userID, skillID uuid.UUID) (*domain.SkillProgress, error)

	// RecomputeSkillProgress rebuilds the (user, skill) projection from
	// the completion events. Used by operators after content changes
	// shift the denominator.
	RecomputeSkillProgress(ctx context.Context, userID, skillID uuid.UUID) (*domain.SkillProgress, error)

	// CreateSession creates a session for the user and plan in the
	// NotStarted state.
	CreateSession(ctx context.Context, userID, planID uuid.UUID) (*domain.TrainingSession, error)

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error)

	// StartSession moves a session from NotStarted to InProgress.
	StartSession(ctx context.Context, sessionID uuid.UUID) (*domain.TrainingSession, error)

	// CompleteSession moves a session from InProgress to Completed and
	// recomputes the training track's progress in the same transaction.
	CompleteSession(ctx context.Context, sessionID uuid.UUID) (*domain.TrainingSession, error)

	// AbandonSession moves a session from InProgress to Abandoned.
	// Abandoned sessions never count toward progress.
	AbandonSession(ctx context.Context, sessionID uuid.UUID) (*domain.TrainingSession, error)

	// GetSpecializedProgress retrieves the cached (user, training)
	// projection. A user with no completed sessions under the track gets
	// a zero-valued projection rather than an error.
	GetSpecializedProgress(
		ctx context.Context,
		userID, trainingID uuid.UUID,
	) (*domain.SpecializedProgress, error)

	// RecomputeSpecializedProgress rebuilds the (user, training)
	// projection from session states. Used by operators after plans are
	// added to or removed from a track.
	RecomputeSpecializedProgress(
		ctx context.Context,
		userID, trainingID uuid.UUID,
	) (*domain.SpecializedProgress, error)
}

// progressServiceImpl implements the ProgressService interface
type progressServiceImpl struct {
	progressStore    store.ProgressStore
	sessionStore     store.SessionStore
	contentStore     store.ContentStore
	compositionStore store.CompositionStore
	transactor       store.Transactor
	logger           *slog.Logger
}

var _ ProgressService = (*progressServiceImpl)(nil)

// NewProgressService creates a new ProgressService.
// It returns an error if any of the required dependencies are nil.
func NewProgressService(
	progressStore store.ProgressStore,
	sessionStore store.SessionStore,
	contentStore store.ContentStore,
	compositionStore store.CompositionStore,
	transactor store.Transactor,
	logger *slog.Logger,
) (ProgressService, error) {
	if progressStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "progressStore cannot be nil",
		}
	}
	if sessionStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "sessionStore cannot be nil",
		}
	}
	if contentStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "contentStore cannot be nil",
		}
	}
	if compositionStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "compositionStore cannot be nil",
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

	return &progressServiceImpl{
		progressStore:    progressStore,
		sessionStore:     sessionStore,
		contentStore:     contentStore,
		compositionStore: compositionStore,
		transactor:       transactor,
		logger:           logger.With("component", "progress_service"),
	}, nil
}

// RecordCompletion inserts the completion event and recomputes the owning
// skill's projection inside one transaction. The unique (user, day)
// constraint decides races: the first committed write wins and the loser
// gets store.ErrDuplicateSubmission.
func (s *progressServiceImpl) RecordCompletion(
	ctx context.Context,
	userID, unitID uuid.UUID,
	dayNumber int,
) (*domain.UnitCompletion, error) {
	completion, err := domain.NewUnitCompletion(userID, unitID, dayNumber)
	if err != nil {
		return nil, err
	}

	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txProgress := s.progressStore.WithTx(tx)
		txContent := s.contentStore.WithTx(tx)

		if err := txProgress.InsertCompletion(ctx, completion); err != nil {
			return err
		}

		skillID, err := txContent.SkillIDForUnit(ctx, unitID)
		if err != nil {
			return err
		}

		_, err = recomputeSkillProgress(ctx, txProgress, txContent, userID, skillID)
		return err
	})
	if err != nil {
		s.logger.Error("failed to record completion",
			"error", err,
			"user_id", userID,
			"unit_id", unitID,
			"day_number", dayNumber)
		return nil, err
	}

	s.logger.Info("completion recorded",
		"completion_id", completion.ID,
		"user_id", userID,
		"unit_id", unitID,
		"day_number", dayNumber)
	return completion, nil
}

// ListCompletions retrieves a user's completion history.
func (s *progressServiceImpl) ListCompletions(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UnitCompletion, error) {
	return s.progressStore.ListCompletions(ctx, userID)
}

// GetSkillProgress retrieves the cached projection, substituting a
// zero-valued row when the user has no completions under the skill yet.
func (s *progressServiceImpl) GetSkillProgress(
	ctx context.Context,
	userID, skillID uuid.UUID,
) (*domain.SkillProgress, error) {
	progress, err := s.progressStore.GetSkillProgress(ctx, userID, skillID)
	if err == nil {
		return progress, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, err
	}

	// No projection row yet. Confirm the skill exists so a typo'd skill
	// ID still surfaces as not found.
	if _, err := s.contentStore.GetSkill(ctx, skillID); err != nil {
		return nil, err
	}
	return domain.NewSkillProgress(userID, skillID, 0, 0)
}

// RecomputeSkillProgress rebuilds the projection from the source events.
func (s *progressServiceImpl) RecomputeSkillProgress(
	ctx context.Context,
	userID, skillID uuid.UUID,
) (*domain.SkillProgress, error) {
	var progress *domain.SkillProgress

	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		progress, err = recomputeSkillProgress(
			ctx,
			s.progressStore.WithTx(tx),
			s.contentStore.WithTx(tx),
			userID,
			skillID,
		)
		return err
	})
	if err != nil {
		s.logger.Error("failed to recompute skill progress",
			"error", err,
			"user_id", userID,
			"skill_id", skillID)
		return nil, err
	}

	return progress, nil
}

// CreateSession creates a session in the NotStarted state.
func (s *progressServiceImpl) CreateSession(
	ctx context.Context,
	userID, planID uuid.UUID,
) (*domain.TrainingSession, error) {
	session, err := domain.NewTrainingSession(userID, planID)
	if err != nil {
		return nil, err
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		s.logger.Error("failed to create session",
			"error", err,
			"user_id", userID,
			"plan_id", planID)
		return nil, err
	}

	s.logger.Info("session created",
		"session_id", session.ID,
		"user_id", userID,
		"plan_id", planID)
	return session, nil
}

// GetSession retrieves a session by ID.
func (s *progressServiceImpl) GetSession(
	ctx context.Context,
	id uuid.UUID,
) (*domain.TrainingSession, error) {
	return s.sessionStore.GetByID(ctx, id)
}

// StartSession moves a session to InProgress. No projection depends on
// the InProgress state, so no recompute runs here.
func (s *progressServiceImpl) StartSession(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.TrainingSession, error) {
	return s.transitionSession(ctx, sessionID, domain.SessionInProgress, false)
}

// CompleteSession moves a session to Completed and recomputes the track
// projection in the same transaction.
func (s *progressServiceImpl) CompleteSession(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.TrainingSession, error) {
	return s.transitionSession(ctx, sessionID, domain.SessionCompleted, true)
}

// AbandonSession moves a session to Abandoned.
func (s *progressServiceImpl) AbandonSession(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.TrainingSession, error) {
	return s.transitionSession(ctx, sessionID, domain.SessionAbandoned, false)
}

// GetSpecializedProgress retrieves the cached projection, substituting a
// zero-valued row when the user has no completed sessions under the track.
func (s *progressServiceImpl) GetSpecializedProgress(
	ctx context.Context,
	userID, trainingID uuid.UUID,
) (*domain.SpecializedProgress, error) {
	progress, err := s.progressStore.GetSpecializedProgress(ctx, userID, trainingID)
	if err == nil {
		return progress, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, err
	}

	if _, err := s.compositionStore.GetTraining(ctx, trainingID); err != nil {
		return nil, err
	}
	return domain.NewSpecializedProgress(userID, trainingID, 0, 0)
}

// transitionSession loads the session, applies the domain state machine,
// persists the new state, and optionally recomputes the training track
// projection, all in one transaction.
func (s *progressServiceImpl) transitionSession(
	ctx context.Context,
	sessionID uuid.UUID,
	target domain.SessionState,
	recompute bool,
) (*domain.TrainingSession, error) {
	var session *domain.TrainingSession

	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txSessions := s.sessionStore.WithTx(tx)

		var err error
		session, err = txSessions.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}

		if err := session.Transition(target); err != nil {
			return err
		}
		if err := txSessions.UpdateState(ctx, session); err != nil {
			return err
		}

		if !recompute {
			return nil
		}

		plan, err := s.compositionStore.WithTx(tx).GetPlan(ctx, session.PlanID)
		if err != nil {
			return err
		}
		_, err = s.recomputeSpecializedInTx(ctx, tx, session.UserID, plan.TrainingID)
		return err
	})
	if err != nil {
		s.logger.Error("failed to transition session",
			"error", err,
			"session_id", sessionID,
			"target_state", target)
		return nil, err
	}

	s.logger.Info("session transitioned",
		"session_id", sessionID,
		"state", session.State)
	return session, nil
}

// RecomputeSpecializedProgress rebuilds the projection from session states.
func (s *progressServiceImpl) RecomputeSpecializedProgress(
	ctx context.Context,
	userID, trainingID uuid.UUID,
) (*domain.SpecializedProgress, error) {
	var progress *domain.SpecializedProgress

	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		progress, err = s.recomputeSpecializedInTx(ctx, tx, userID, trainingID)
		return err
	})
	if err != nil {
		s.logger.Error("failed to recompute specialized progress",
			"error", err,
			"user_id", userID,
			"training_id", trainingID)
		return nil, err
	}

	return progress, nil
}

// recomputeSpecializedInTx rebuilds the (user, training) projection
// inside the caller's transaction.
func (s *progressServiceImpl) recomputeSpecializedInTx(
	ctx context.Context,
	tx *sql.Tx,
	userID, trainingID uuid.UUID,
) (*domain.SpecializedProgress, error) {
	txProgress := s.progressStore.WithTx(tx)

	if err := txProgress.LockSpecializedProgress(ctx, userID, trainingID); err != nil {
		return nil, err
	}

	completed, err := txProgress.CountCompletedPlans(ctx, userID, trainingID)
	if err != nil {
		return nil, err
	}
	total, err := s.compositionStore.WithTx(tx).CountPlans(ctx, trainingID)
	if err != nil {
		return nil, err
	}

	progress, err := domain.NewSpecializedProgress(userID, trainingID, completed, total)
	if err != nil {
		return nil, err
	}
	if err := txProgress.UpsertSpecializedProgress(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// recomputeSkillProgress rebuilds the (user, skill) projection from the
// completion events using the given transactional stores. The lock must
// come before the counts: without it two concurrent recomputes can each
// count before the other commits and the second upsert writes a stale
// projection.
func recomputeSkillProgress(
	ctx context.Context,
	progressStore store.ProgressStore,
	contentStore store.ContentStore,
	userID, skillID uuid.UUID,
) (*domain.SkillProgress, error) {
	if err := progressStore.LockSkillProgress(ctx, userID, skillID); err != nil {
		return nil, err
	}

	completed, err := progressStore.CountDistinctCompletedUnits(ctx, userID, skillID)
	if err != nil {
		return nil, err
	}
	total, err := contentStore.CountUnitsBySkill(ctx, skillID)
	if err != nil {
		return nil, err
	}

	progress, err := domain.NewSkillProgress(userID, skillID, completed, total)
	if err != nil {
		return nil, err
	}
	if err := progressStore.UpsertSkillProgress(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}
