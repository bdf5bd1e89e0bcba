package api

import (
	"context"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockContentService mocks service.ContentService
type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) CreateSkill(
	ctx context.Context,
	position int,
	title string,
) (*domain.Skill, error) {
	args := m.Called(ctx, position, title)
	skill, _ := args.Get(0).(*domain.Skill)
	return skill, args.Error(1)
}

func (m *MockContentService) GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error) {
	args := m.Called(ctx, id)
	skill, _ := args.Get(0).(*domain.Skill)
	return skill, args.Error(1)
}

func (m *MockContentService) ListSkills(ctx context.Context) ([]*domain.Skill, error) {
	args := m.Called(ctx)
	skills, _ := args.Get(0).([]*domain.Skill)
	return skills, args.Error(1)
}

func (m *MockContentService) CreateSubSkill(
	ctx context.Context,
	skillID uuid.UUID,
	position int,
	title string,
) (*domain.SubSkill, error) {
	args := m.Called(ctx, skillID, position, title)
	subSkill, _ := args.Get(0).(*domain.SubSkill)
	return subSkill, args.Error(1)
}

func (m *MockContentService) ListSubSkills(
	ctx context.Context,
	skillID uuid.UUID,
) ([]*domain.SubSkill, error) {
	args := m.Called(ctx, skillID)
	subSkills, _ := args.Get(0).([]*domain.SubSkill)
	return subSkills, args.Error(1)
}

func (m *MockContentService) CreateUnit(
	ctx context.Context,
	subSkillID uuid.UUID,
	position int,
	content string,
) (*domain.TrainingUnit, error) {
	args := m.Called(ctx, subSkillID, position, content)
	unit, _ := args.Get(0).(*domain.TrainingUnit)
	return unit, args.Error(1)
}

func (m *MockContentService) GetUnit(
	ctx context.Context,
	id uuid.UUID,
) (*domain.TrainingUnit, error) {
	args := m.Called(ctx, id)
	unit, _ := args.Get(0).(*domain.TrainingUnit)
	return unit, args.Error(1)
}

func (m *MockContentService) ListUnits(
	ctx context.Context,
	subSkillID uuid.UUID,
) ([]*domain.TrainingUnit, error) {
	args := m.Called(ctx, subSkillID)
	units, _ := args.Get(0).([]*domain.TrainingUnit)
	return units, args.Error(1)
}

func (m *MockContentService) UpdateUnitContent(
	ctx context.Context,
	id uuid.UUID,
	content string,
) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

// MockCompositionService mocks service.CompositionService
type MockCompositionService struct {
	mock.Mock
}

func (m *MockCompositionService) CreateTraining(
	ctx context.Context,
	title string,
) (*domain.SpecializedTraining, error) {
	args := m.Called(ctx, title)
	training, _ := args.Get(0).(*domain.SpecializedTraining)
	return training, args.Error(1)
}

func (m *MockCompositionService) GetTraining(
	ctx context.Context,
	id uuid.UUID,
) (*domain.SpecializedTraining, error) {
	args := m.Called(ctx, id)
	training, _ := args.Get(0).(*domain.SpecializedTraining)
	return training, args.Error(1)
}

func (m *MockCompositionService) ComposePlan(
	ctx context.Context,
	trainingID uuid.UUID,
	unitIDs []uuid.UUID,
) (*domain.TrainingPlan, error) {
	args := m.Called(ctx, trainingID, unitIDs)
	plan, _ := args.Get(0).(*domain.TrainingPlan)
	return plan, args.Error(1)
}

func (m *MockCompositionService) RecomposePlan(
	ctx context.Context,
	planID uuid.UUID,
	unitIDs []uuid.UUID,
) error {
	args := m.Called(ctx, planID, unitIDs)
	return args.Error(0)
}

func (m *MockCompositionService) GetPlanUnits(
	ctx context.Context,
	planID uuid.UUID,
) ([]*domain.PlanUnitMapping, error) {
	args := m.Called(ctx, planID)
	mappings, _ := args.Get(0).([]*domain.PlanUnitMapping)
	return mappings, args.Error(1)
}

func (m *MockCompositionService) ListPlans(
	ctx context.Context,
	trainingID uuid.UUID,
) ([]*domain.TrainingPlan, error) {
	args := m.Called(ctx, trainingID)
	plans, _ := args.Get(0).([]*domain.TrainingPlan)
	return plans, args.Error(1)
}

func (m *MockCompositionService) AssignCurriculumDay(
	ctx context.Context,
	dayNumber int,
	unitID uuid.UUID,
) error {
	args := m.Called(ctx, dayNumber, unitID)
	return args.Error(0)
}

func (m *MockCompositionService) GetCurriculumDay(
	ctx context.Context,
	dayNumber int,
) ([]*domain.CurriculumDayUnit, error) {
	args := m.Called(ctx, dayNumber)
	dayUnits, _ := args.Get(0).([]*domain.CurriculumDayUnit)
	return dayUnits, args.Error(1)
}

// MockProgressService mocks service.ProgressService
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) RecordCompletion(
	ctx context.Context,
	userID, unitID uuid.UUID,
	dayNumber int,
) (*domain.UnitCompletion, error) {
	args := m.Called(ctx, userID, unitID, dayNumber)
	completion, _ := args.Get(0).(*domain.UnitCompletion)
	return completion, args.Error(1)
}

func (m *MockProgressService) ListCompletions(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UnitCompletion, error) {
	args := m.Called(ctx, userID)
	completions, _ := args.Get(0).([]*domain.UnitCompletion)
	return completions, args.Error(1)
}

func (m *MockProgressService) GetSkillProgress(
	ctx context.Context,
	userID, skillID uuid.UUID,
) (*domain.SkillProgress, error) {
	args := m.Called(ctx, userID, skillID)
	progress, _ := args.Get(0).(*domain.SkillProgress)
	return progress, args.Error(1)
}

func (m *MockProgressService) RecomputeSkillProgress(
	ctx context.Context,
	userID, skillID uuid.UUID,
) (*domain.SkillProgress, error) {
	args := m.Called(ctx, userID, skillID)
	progress, _ := args.Get(0).(*domain.SkillProgress)
	return progress, args.Error(1)
}

func (m *MockProgressService) CreateSession(
	ctx context.Context,
	userID, planID uuid.UUID,
) (*domain.TrainingSession, error) {
	args := m.Called(ctx, userID, planID)
	session, _ := args.Get(0).(*domain.TrainingSession)
	return session, args.Error(1)
}

func (m *MockProgressService) GetSession(
	ctx context.Context,
	id uuid.UUID,
) (*domain.TrainingSession, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*domain.TrainingSession)
	return session, args.Error(1)
}

func (m *MockProgressService) StartSession(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.TrainingSession, error) {
	args := m.Called(ctx, sessionID)
	session, _ := args.Get(0).(*domain.TrainingSession)
	return session, args.Error(1)
}

func (m *MockProgressService) CompleteSession(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.TrainingSession, error) {
	args := m.Called(ctx, sessionID)
	session, _ := args.Get(0).(*domain.TrainingSession)
	return session, args.Error(1)
}

func (m *MockProgressService) AbandonSession(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.TrainingSession, error) {
	args := m.Called(ctx, sessionID)
	session, _ := args.Get(0).(*domain.TrainingSession)
	return session, args.Error(1)
}

func (m *MockProgressService) GetSpecializedProgress(
	ctx context.Context,
	userID, trainingID uuid.UUID,
) (*domain.SpecializedProgress, error) {
	args := m.Called(ctx, userID, trainingID)
	progress, _ := args.Get(0).(*domain.SpecializedProgress)
	return progress, args.Error(1)
}

func (m *MockProgressService) RecomputeSpecializedProgress(
	ctx context.Context,
	userID, trainingID uuid.UUID,
) (*domain.SpecializedProgress, error) {
	args := m.Called(ctx, userID, trainingID)
	progress, _ := args.Get(0).(*domain.SpecializedProgress)
	return progress, args.Error(1)
}

// MockReferralService mocks service.ReferralService
type MockReferralService struct {
	mock.Mock
}

func (m *MockReferralService) RegisterUser(
	ctx context.Context,
	id uuid.UUID,
) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockReferralService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockReferralService) IssueInviteCode(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockReferralService) AcceptInvite(
	ctx context.Context,
	userID uuid.UUID,
	code string,
) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}
