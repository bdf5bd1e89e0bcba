package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for TrainingUnit
var (
	ErrEmptyUnitID         = errors.New("training unit ID cannot be empty")
	ErrEmptyParentSubSkill = errors.New("training unit sub-skill ID cannot be empty")
	ErrEmptyUnitContent    = errors.New("training unit content cannot be empty")
)

// TrainingUnit is the atomic practice item of the hierarchy. Every unit
// belongs to exactly one SubSkill and may appear in any number of plans
// and curriculum days through the composition layer.
type TrainingUnit struct {
	ID         uuid.UUID `json:"id"`
	SubSkillID uuid.UUID `json:"sub_skill_id"`
	Position   int       `json:"position"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewTrainingUnit creates a new TrainingUnit under the given sub-skill.
// Returns an error if validation fails.
func NewTrainingUnit(subSkillID uuid.UUID, position int, content string) (*TrainingUnit, error) {
	unit := &TrainingUnit{
		ID:         uuid.New(),
		SubSkillID: subSkillID,
		Position:   position,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := unit.Validate(); err != nil {
		return nil, err
	}

	return unit, nil
}

// Validate checks if the TrainingUnit has valid data.
func (u *TrainingUnit) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUnitID
	}
	if u.SubSkillID == uuid.Nil {
		return ErrEmptyParentSubSkill
	}
	if u.Content == "" {
		return ErrEmptyUnitContent
	}
	if u.Position < 0 {
		return ErrNegativePosition
	}
	return nil
}

// UpdateContent replaces the unit's human-readable content and bumps the
// update timestamp. This is the single validated write path used both by
// administrative authoring and the external content-population tool.
func (u *TrainingUnit) UpdateContent(content string) error {
	if content == "" {
		return ErrEmptyUnitContent
	}

	u.Content = content
	u.UpdatedAt = time.Now().UTC()
	return nil
}
