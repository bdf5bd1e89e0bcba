package service

import (
	"context"
	"testing"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCompositionService(
	t *testing.T,
) (CompositionService, *MockCompositionStore, *MockContentStore) {
	t.Helper()
	compositionStore := new(MockCompositionStore)
	contentStore := new(MockContentStore)
	svc, err := NewCompositionService(
		compositionStore,
		contentStore,
		&fakeTransactor{},
		newTestLogger(),
	)
	require.NoError(t, err)
	return svc, compositionStore, contentStore
}

func TestCompositionService_ComposePlan(t *testing.T) {
	svc, compositionStore, contentStore := newCompositionService(t)

	trainingID := uuid.New()
	unitIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	contentStore.On("UnitsExist", mock.Anything, unitIDs).Return(nil)
	compositionStore.On("CreatePlan", mock.Anything, mock.AnythingOfType("*domain.TrainingPlan")).
		Return(nil)
	compositionStore.On("InsertMappings", mock.Anything, mock.MatchedBy(
		func(mappings []*domain.PlanUnitMapping) bool {
			if len(mappings) != len(unitIDs) {
				return false
			}
			for i, mapping := range mappings {
				if mapping.UnitID != unitIDs[i] || mapping.Position != i {
					return false
				}
			}
			return true
		})).Return(nil)

	plan, err := svc.ComposePlan(context.Background(), trainingID, unitIDs)

	require.NoError(t, err)
	assert.Equal(t, trainingID, plan.TrainingID)
	compositionStore.AssertExpectations(t)
	contentStore.AssertExpectations(t)
}

func TestCompositionService_ComposePlan_NoUnits(t *testing.T) {
	svc, compositionStore, _ := newCompositionService(t)

	plan, err := svc.ComposePlan(context.Background(), uuid.New(), nil)

	assert.ErrorIs(t, err, ErrEmptyPlanUnits)
	assert.Nil(t, plan)
	compositionStore.AssertNotCalled(t, "CreatePlan")
}

func TestCompositionService_ComposePlan_MissingUnit(t *testing.T) {
	svc, compositionStore, contentStore := newCompositionService(t)

	unitIDs := []uuid.UUID{uuid.New()}
	contentStore.On("UnitsExist", mock.Anything, unitIDs).
		Return(store.ErrUnitNotFound)

	plan, err := svc.ComposePlan(context.Background(), uuid.New(), unitIDs)

	assert.ErrorIs(t, err, store.ErrUnitNotFound)
	assert.Nil(t, plan)
	compositionStore.AssertNotCalled(t, "CreatePlan")
	compositionStore.AssertNotCalled(t, "InsertMappings")
}

func TestCompositionService_ComposePlan_DuplicatePosition(t *testing.T) {
	svc, compositionStore, contentStore := newCompositionService(t)

	unitIDs := []uuid.UUID{uuid.New(), uuid.New()}
	contentStore.On("UnitsExist", mock.Anything, unitIDs).Return(nil)
	compositionStore.On("CreatePlan", mock.Anything, mock.Anything).Return(nil)
	compositionStore.On("InsertMappings", mock.Anything, mock.Anything).
		Return(store.ErrDuplicateOrder)

	plan, err := svc.ComposePlan(context.Background(), uuid.New(), unitIDs)

	assert.ErrorIs(t, err, store.ErrDuplicateOrder)
	assert.Nil(t, plan)
}

func TestCompositionService_RecomposePlan(t *testing.T) {
	svc, compositionStore, contentStore := newCompositionService(t)

	trainingID := uuid.New()
	existingPlan, err := domain.NewTrainingPlan(trainingID)
	require.NoError(t, err)
	unitIDs := []uuid.UUID{uuid.New(), uuid.New()}

	compositionStore.On("GetPlan", mock.Anything, existingPlan.ID).Return(existingPlan, nil)
	contentStore.On("UnitsExist", mock.Anything, unitIDs).Return(nil)
	compositionStore.On("DeleteMappings", mock.Anything, existingPlan.ID).Return(nil)
	compositionStore.On("InsertMappings", mock.Anything, mock.MatchedBy(
		func(mappings []*domain.PlanUnitMapping) bool {
			return len(mappings) == 2 && mappings[0].PlanID == existingPlan.ID
		})).Return(nil)

	err = svc.RecomposePlan(context.Background(), existingPlan.ID, unitIDs)

	require.NoError(t, err)
	compositionStore.AssertExpectations(t)
}

func TestCompositionService_RecomposePlan_PlanNotFound(t *testing.T) {
	svc, compositionStore, _ := newCompositionService(t)

	planID := uuid.New()
	compositionStore.On("GetPlan", mock.Anything, planID).
		Return(nil, store.ErrPlanNotFound)

	err := svc.RecomposePlan(context.Background(), planID, []uuid.UUID{uuid.New()})

	assert.ErrorIs(t, err, store.ErrPlanNotFound)
	compositionStore.AssertNotCalled(t, "DeleteMappings")
}

func TestCompositionService_AssignCurriculumDay(t *testing.T) {
	svc, compositionStore, _ := newCompositionService(t)

	unitID := uuid.New()
	compositionStore.On("UpsertCurriculumDay", mock.Anything, mock.MatchedBy(
		func(dayUnit *domain.CurriculumDayUnit) bool {
			return dayUnit.DayNumber == 3 && dayUnit.UnitID == unitID
		})).Return(nil)

	err := svc.AssignCurriculumDay(context.Background(), 3, unitID)

	require.NoError(t, err)
	compositionStore.AssertExpectations(t)
}

func TestCompositionService_AssignCurriculumDay_InvalidDay(t *testing.T) {
	svc, compositionStore, _ := newCompositionService(t)

	err := svc.AssignCurriculumDay(context.Background(), 0, uuid.New())

	assert.ErrorIs(t, err, domain.ErrInvalidDayNumber)
	compositionStore.AssertNotCalled(t, "UpsertCurriculumDay")
}

func TestCompositionService_GetCurriculumDay_InvalidDay(t *testing.T) {
	svc, _, _ := newCompositionService(t)

	dayUnits, err := svc.GetCurriculumDay(context.Background(), -1)

	assert.ErrorIs(t, err, domain.ErrInvalidDayNumber)
	assert.Nil(t, dayUnits)
}
