package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionState represents a user's position in a plan run-through.
type SessionState string

// Possible session states. Transitions are monotonic: a session never
// regresses from Completed or Abandoned, and Abandoned is reachable only
// from InProgress.
const (
	SessionNotStarted SessionState = "not_started"
	SessionInProgress SessionState = "in_progress"
	SessionCompleted  SessionState = "completed"
	SessionAbandoned  SessionState = "abandoned"
)

// Common validation errors for TrainingSession
var (
	ErrEmptySessionID      = errors.New("session ID cannot be empty")
	ErrEmptySessionUser    = errors.New("session user ID cannot be empty")
	ErrEmptySessionPlan    = errors.New("session plan ID cannot be empty")
	ErrInvalidSessionState = errors.New("invalid session state")

	// ErrInvalidTransition is returned when a requested state change would
	// violate the monotonic session lifecycle.
	ErrInvalidTransition = errors.New("invalid session state transition")
)

// TrainingSession is a user's run through one TrainingPlan.
type TrainingSession struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	PlanID    uuid.UUID    `json:"plan_id"`
	State     SessionState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewTrainingSession creates a session for the given user and plan in the
// NotStarted state.
func NewTrainingSession(userID, planID uuid.UUID) (*TrainingSession, error) {
	session := &TrainingSession{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    planID,
		State:     SessionNotStarted,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the TrainingSession has valid data.
func (s *TrainingSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}
	if s.UserID == uuid.Nil {
		return ErrEmptySessionUser
	}
	if s.PlanID == uuid.Nil {
		return ErrEmptySessionPlan
	}
	if !isValidSessionState(s.State) {
		return ErrInvalidSessionState
	}
	return nil
}

// Transition moves the session to the target state, enforcing the
// monotonic lifecycle. Returns ErrInvalidTransition for any move the
// state machine does not allow. Transitioning to the current state is
// also rejected so callers can distinguish no-ops from real changes.
func (s *TrainingSession) Transition(target SessionState) error {
	if !isValidSessionState(target) {
		return ErrInvalidSessionState
	}

	if !canTransition(s.State, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, target)
	}

	s.State = target
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Start moves the session from NotStarted to InProgress.
func (s *TrainingSession) Start() error {
	return s.Transition(SessionInProgress)
}

// Complete moves the session from InProgress to the terminal Completed state.
func (s *TrainingSession) Complete() error {
	return s.Transition(SessionCompleted)
}

// Abandon moves the session from InProgress to the terminal Abandoned state.
func (s *TrainingSession) Abandon() error {
	return s.Transition(SessionAbandoned)
}

// canTransition reports whether the lifecycle allows from -> to.
func canTransition(from, to SessionState) bool {
	switch from {
	case SessionNotStarted:
		return to == SessionInProgress
	case SessionInProgress:
		return to == SessionCompleted || to == SessionAbandoned
	default:
		// Completed and Abandoned are terminal.
		return false
	}
}

// isValidSessionState checks if the given state is a valid SessionState.
func isValidSessionState(state SessionState) bool {
	switch state {
	case SessionNotStarted, SessionInProgress, SessionCompleted, SessionAbandoned:
		return true
	default:
		return false
	}
}
