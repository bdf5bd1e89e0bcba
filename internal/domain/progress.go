package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for progress projections
var (
	ErrEmptyProgressUser     = errors.New("progress user ID cannot be empty")
	ErrEmptyProgressSkill    = errors.New("progress skill ID cannot be empty")
	ErrEmptyProgressTraining = errors.New("progress training ID cannot be empty")
	ErrNegativeCount         = errors.New("completed count must not be negative")
	ErrInvalidPercentage     = errors.New("percentage must be between 0 and 100")
)

// SkillProgress is the cached aggregation of a user's mastery of one skill.
// It is a projection of UnitCompletion rows: the percentage always equals
// ProgressPercentage(distinct completed units under the skill, total units
// under the skill). It is recomputed inside the transaction that records
// the triggering completion and has no independent mutation path.
type SkillProgress struct {
	UserID         uuid.UUID `json:"user_id"`
	SkillID        uuid.UUID `json:"skill_id"`
	CompletedCount int       `json:"completed_count"`
	Percentage     float64   `json:"percentage"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSkillProgress builds the projection row for the given user and skill
// from the completed and total unit counts.
func NewSkillProgress(userID, skillID uuid.UUID, completed, total int) (*SkillProgress, error) {
	progress := &SkillProgress{
		UserID:         userID,
		SkillID:        skillID,
		CompletedCount: completed,
		Percentage:     ProgressPercentage(completed, total),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the SkillProgress has valid data.
func (p *SkillProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUser
	}
	if p.SkillID == uuid.Nil {
		return ErrEmptyProgressSkill
	}
	if p.CompletedCount < 0 {
		return ErrNegativeCount
	}
	if p.Percentage < 0 || p.Percentage > 100 {
		return ErrInvalidPercentage
	}
	return nil
}

// SpecializedProgress is the cached aggregation of a user's progress
// through one training track, derived from session states across the
// track's plans. Like SkillProgress it is recomputed, never set directly.
type SpecializedProgress struct {
	UserID     uuid.UUID `json:"user_id"`
	TrainingID uuid.UUID `json:"training_id"`
	Percentage float64   `json:"percentage"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSpecializedProgress builds the projection row for the given user and
// training track from the completed and total plan counts.
func NewSpecializedProgress(userID, trainingID uuid.UUID, completed, total int) (*SpecializedProgress, error) {
	progress := &SpecializedProgress{
		UserID:     userID,
		TrainingID: trainingID,
		Percentage: ProgressPercentage(completed, total),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the SpecializedProgress has valid data.
func (p *SpecializedProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUser
	}
	if p.TrainingID == uuid.Nil {
		return ErrEmptyProgressTraining
	}
	if p.Percentage < 0 || p.Percentage > 100 {
		return ErrInvalidPercentage
	}
	return nil
}

// ProgressPercentage computes completed/total as a percentage rounded to
// one decimal place. A zero total yields 0 rather than a division error
// so that skills without authored units report empty progress.
// The function is pure: recomputing over an unchanged completion set
// always yields the same value.
func ProgressPercentage(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}
