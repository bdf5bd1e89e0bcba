package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestLogger returns a logger that discards all output.
func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newContentService(t *testing.T) (ContentService, *MockContentStore) {
	t.Helper()
	contentStore := new(MockContentStore)
	svc, err := NewContentService(contentStore, newTestLogger())
	require.NoError(t, err)
	return svc, contentStore
}

func TestNewContentService_NilStore(t *testing.T) {
	svc, err := NewContentService(nil, newTestLogger())
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestContentService_CreateSkill(t *testing.T) {
	svc, contentStore := newContentService(t)

	contentStore.On("CreateSkill", mock.Anything, mock.AnythingOfType("*domain.Skill")).
		Return(nil)

	skill, err := svc.CreateSkill(context.Background(), 0, "Cue Control")

	require.NoError(t, err)
	assert.Equal(t, "Cue Control", skill.Title)
	assert.Equal(t, 0, skill.Position)
	assert.NotEqual(t, uuid.Nil, skill.ID)
	contentStore.AssertExpectations(t)
}

func TestContentService_CreateSkill_EmptyTitle(t *testing.T) {
	svc, contentStore := newContentService(t)

	skill, err := svc.CreateSkill(context.Background(), 0, "")

	assert.ErrorIs(t, err, domain.ErrEmptySkillTitle)
	assert.Nil(t, skill)
	contentStore.AssertNotCalled(t, "CreateSkill")
}

func TestContentService_CreateSkill_StoreError(t *testing.T) {
	svc, contentStore := newContentService(t)

	storeErr := errors.New("connection refused")
	contentStore.On("CreateSkill", mock.Anything, mock.Anything).Return(storeErr)

	skill, err := svc.CreateSkill(context.Background(), 1, "Position Play")

	assert.Nil(t, skill)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "create_skill", svcErr.Operation)
}

func TestContentService_CreateSubSkill_MissingParent(t *testing.T) {
	svc, contentStore := newContentService(t)

	contentStore.On("CreateSubSkill", mock.Anything, mock.Anything).
		Return(store.ErrIntegrityViolation)

	subSkill, err := svc.CreateSubSkill(context.Background(), uuid.New(), 0, "Draw Shots")

	assert.Nil(t, subSkill)
	assert.ErrorIs(t, err, store.ErrIntegrityViolation)
}

func TestContentService_CreateUnit(t *testing.T) {
	svc, contentStore := newContentService(t)

	subSkillID := uuid.New()
	contentStore.On("CreateUnit", mock.Anything, mock.AnythingOfType("*domain.TrainingUnit")).
		Return(nil)

	unit, err := svc.CreateUnit(context.Background(), subSkillID, 2, "Practice stop shots from one diamond.")

	require.NoError(t, err)
	assert.Equal(t, subSkillID, unit.SubSkillID)
	assert.Equal(t, 2, unit.Position)
	contentStore.AssertExpectations(t)
}

func TestContentService_UpdateUnitContent(t *testing.T) {
	svc, contentStore := newContentService(t)

	unitID := uuid.New()
	contentStore.On("UpdateUnitContent", mock.Anything, unitID, "revised drill").Return(nil)

	err := svc.UpdateUnitContent(context.Background(), unitID, "revised drill")

	require.NoError(t, err)
	contentStore.AssertExpectations(t)
}

func TestContentService_UpdateUnitContent_Empty(t *testing.T) {
	svc, contentStore := newContentService(t)

	err := svc.UpdateUnitContent(context.Background(), uuid.New(), "")

	assert.ErrorIs(t, err, domain.ErrEmptyUnitContent)
	contentStore.AssertNotCalled(t, "UpdateUnitContent")
}

func TestContentService_UpdateUnitContent_NotFound(t *testing.T) {
	svc, contentStore := newContentService(t)

	unitID := uuid.New()
	contentStore.On("UpdateUnitContent", mock.Anything, unitID, "x").
		Return(store.ErrUnitNotFound)

	err := svc.UpdateUnitContent(context.Background(), unitID, "x")

	assert.ErrorIs(t, err, store.ErrUnitNotFound)
}

func TestContentService_ListSkills(t *testing.T) {
	svc, contentStore := newContentService(t)

	first, err := domain.NewSkill(0, "Cue Control")
	require.NoError(t, err)
	second, err := domain.NewSkill(1, "Position Play")
	require.NoError(t, err)

	contentStore.On("ListSkills", mock.Anything).
		Return([]*domain.Skill{first, second}, nil)

	skills, err := svc.ListSkills(context.Background())

	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "Cue Control", skills[0].Title)
	assert.Equal(t, "Position Play", skills[1].Title)
}
