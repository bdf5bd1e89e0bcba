package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSkill(t *testing.T) {
	t.Parallel()

	skill, err := NewSkill(1, "Cue Control")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, skill.ID)
	assert.Equal(t, 1, skill.Position)
	assert.Equal(t, "Cue Control", skill.Title)
	assert.False(t, skill.CreatedAt.IsZero())

	_, err = NewSkill(0, "")
	assert.ErrorIs(t, err, ErrEmptySkillTitle)

	_, err = NewSkill(-1, "Positioning")
	assert.ErrorIs(t, err, ErrNegativePosition)
}

func TestNewSubSkill(t *testing.T) {
	t.Parallel()

	skillID := uuid.New()

	sub, err := NewSubSkill(skillID, 2, "Draw Shots")
	require.NoError(t, err)
	assert.Equal(t, skillID, sub.SkillID)
	assert.Equal(t, "Draw Shots", sub.Title)

	_, err = NewSubSkill(uuid.Nil, 0, "Draw Shots")
	assert.ErrorIs(t, err, ErrEmptyParentSkill)

	_, err = NewSubSkill(skillID, 0, "")
	assert.ErrorIs(t, err, ErrEmptySubSkillName)
}

func TestNewTrainingUnit(t *testing.T) {
	t.Parallel()

	subSkillID := uuid.New()

	unit, err := NewTrainingUnit(subSkillID, 0, "Stop shot from one diamond")
	require.NoError(t, err)
	assert.Equal(t, subSkillID, unit.SubSkillID)

	_, err = NewTrainingUnit(uuid.Nil, 0, "content")
	assert.ErrorIs(t, err, ErrEmptyParentSubSkill)

	_, err = NewTrainingUnit(subSkillID, 0, "")
	assert.ErrorIs(t, err, ErrEmptyUnitContent)
}

func TestTrainingUnit_UpdateContent(t *testing.T) {
	t.Parallel()

	unit, err := NewTrainingUnit(uuid.New(), 0, "original")
	require.NoError(t, err)

	before := unit.UpdatedAt
	require.NoError(t, unit.UpdateContent("replacement text"))
	assert.Equal(t, "replacement text", unit.Content)
	assert.False(t, unit.UpdatedAt.Before(before))

	err = unit.UpdateContent("")
	assert.ErrorIs(t, err, ErrEmptyUnitContent)
	assert.Equal(t, "replacement text", unit.Content)
}

func TestNewPlanUnitMapping(t *testing.T) {
	t.Parallel()

	planID := uuid.New()
	unitID := uuid.New()

	mapping, err := NewPlanUnitMapping(planID, unitID, 3)
	require.NoError(t, err)
	assert.Equal(t, planID, mapping.PlanID)
	assert.Equal(t, unitID, mapping.UnitID)
	assert.Equal(t, 3, mapping.Position)

	_, err = NewPlanUnitMapping(planID, uuid.Nil, 0)
	assert.ErrorIs(t, err, ErrEmptyMappingUnit)

	_, err = NewPlanUnitMapping(planID, unitID, -1)
	assert.ErrorIs(t, err, ErrNegativePosition)
}

func TestNewCurriculumDayUnit(t *testing.T) {
	t.Parallel()

	unitID := uuid.New()

	dayUnit, err := NewCurriculumDayUnit(5, unitID)
	require.NoError(t, err)
	assert.Equal(t, 5, dayUnit.DayNumber)
	assert.Equal(t, unitID, dayUnit.UnitID)

	_, err = NewCurriculumDayUnit(0, unitID)
	assert.ErrorIs(t, err, ErrInvalidDayNumber)

	_, err = NewCurriculumDayUnit(5, uuid.Nil)
	assert.ErrorIs(t, err, ErrEmptyCurriculumUnit)
}

func TestNewUnitCompletion(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	unitID := uuid.New()

	completion, err := NewUnitCompletion(userID, unitID, 5)
	require.NoError(t, err)
	assert.Equal(t, userID, completion.UserID)
	assert.Equal(t, unitID, completion.UnitID)
	assert.Equal(t, 5, completion.DayNumber)
	assert.False(t, completion.CompletedAt.IsZero())

	_, err = NewUnitCompletion(userID, unitID, 0)
	assert.ErrorIs(t, err, ErrInvalidCompletionDay)
}
