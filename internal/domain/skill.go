package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for the content hierarchy
var (
	ErrEmptySkillID      = errors.New("skill ID cannot be empty")
	ErrEmptySkillTitle   = errors.New("skill title cannot be empty")
	ErrNegativePosition  = errors.New("position must not be negative")
	ErrEmptySubSkillID   = errors.New("sub-skill ID cannot be empty")
	ErrEmptyParentSkill  = errors.New("sub-skill parent skill ID cannot be empty")
	ErrEmptySubSkillName = errors.New("sub-skill title cannot be empty")
)

// Skill is a top-level competency in the content hierarchy.
// Skills are admin-authored and ordered by an explicit Position field
// assigned at authoring time, not by insertion order.
type Skill struct {
	ID        uuid.UUID `json:"id"`
	Position  int       `json:"position"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSkill creates a new Skill with the given position and title.
// It generates a new UUID for the skill ID and sets the timestamps.
// Returns an error if validation fails.
func NewSkill(position int, title string) (*Skill, error) {
	skill := &Skill{
		ID:        uuid.New(),
		Position:  position,
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := skill.Validate(); err != nil {
		return nil, err
	}

	return skill, nil
}

// Validate checks if the Skill has valid data.
func (s *Skill) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySkillID
	}
	if s.Title == "" {
		return ErrEmptySkillTitle
	}
	if s.Position < 0 {
		return ErrNegativePosition
	}
	return nil
}

// SubSkill is a sub-competency belonging to exactly one parent Skill.
// The SkillID linkage is part of the strict-tree invariant: a SubSkill
// can never exist without an existing parent Skill.
type SubSkill struct {
	ID        uuid.UUID `json:"id"`
	SkillID   uuid.UUID `json:"skill_id"`
	Position  int       `json:"position"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSubSkill creates a new SubSkill under the given parent skill.
// Returns an error if validation fails. Existence of the parent is
// enforced by the store, not here.
func NewSubSkill(skillID uuid.UUID, position int, title string) (*SubSkill, error) {
	sub := &SubSkill{
		ID:        uuid.New(),
		SkillID:   skillID,
		Position:  position,
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	return sub, nil
}

// Validate checks if the SubSkill has valid data.
func (s *SubSkill) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySubSkillID
	}
	if s.SkillID == uuid.Nil {
		return ErrEmptyParentSkill
	}
	if s.Title == "" {
		return ErrEmptySubSkillName
	}
	if s.Position < 0 {
		return ErrNegativePosition
	}
	return nil
}
