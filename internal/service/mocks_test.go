package service

import (
	"context"
	"database/sql"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeTransactor runs the function directly with a nil transaction. The
// mocked stores ignore the tx handle, so services exercise their full
// transactional flow without a database.
type fakeTransactor struct {
	// beginErr, when set, is returned without running the function.
	beginErr error
}

func (f *fakeTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(ctx, nil)
}

// MockContentStore mocks the store.ContentStore interface
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) CreateSkill(ctx context.Context, skill *domain.Skill) error {
	args := m.Called(ctx, skill)
	return args.Error(0)
}

func (m *MockContentStore) GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error) {
	args := m.Called(ctx, id)
	skill, _ := args.Get(0).(*domain.Skill)
	return skill, args.Error(1)
}

func (m *MockContentStore) ListSkills(ctx context.Context) ([]*domain.Skill, error) {
	args := m.Called(ctx)
	skills, _ := args.Get(0).([]*domain.Skill)
	return skills, args.Error(1)
}

func (m *MockContentStore) CreateSubSkill(ctx context.Context, subSkill *domain.SubSkill) error {
	args := m.Called(ctx, subSkill)
	return args.Error(0)
}

func (m *MockContentStore) ListSubSkills(
	ctx context.Context,
	skillID uuid.UUID,
) ([]*domain.SubSkill, error) {
	args := m.Called(ctx, skillID)
	subSkills, _ := args.Get(0).([]*domain.SubSkill)
	return subSkills, args.Error(1)
}

func (m *MockContentStore) CreateUnit(ctx context.Context, unit *domain.TrainingUnit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockContentStore) GetUnit(
	ctx context.Context,
	id uuid.UUID,
) (*domain.TrainingUnit, error) {
	args := m.Called(ctx, id)
	unit, _ := args.Get(0).(*domain.TrainingUnit)
	return unit, args.Error(1)
}

func (m *MockContentStore) ListUnits(
	ctx context.Context,
	subSkillID uuid.UUID,
) ([]*domain.TrainingUnit, error) {
	args := m.Called(ctx, subSkillID)
	units, _ := args.Get(0).([]*domain.TrainingUnit)
	return units, args.Error(1)
}

func (m *MockContentStore) UpdateUnitContent(
	ctx context.Context,
	id uuid.UUID,
	content string,
) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockContentStore) CountUnitsBySkill(
	ctx context.Context,
	skillID uuid.UUID,
) (int, error) {
	args := m.Called(ctx, skillID)
	return args.Int(0), args.Error(1)
}

func (m *MockContentStore) SkillIDForUnit(
	ctx context.Context,
	unitID uuid.UUID,
) (uuid.UUID, error) {
	args := m.Called(ctx, unitID)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}

func (m *MockContentStore) UnitsExist(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockContentStore) WithTx(tx *sql.Tx) store.ContentStore {
	return m
}

// MockCompositionStore mocks the store.CompositionStore interface
type MockCompositionStore struct {
	mock.Mock
}

func (m *MockCompositionStore) CreateTraining(
	ctx context.Context,
	training *domain.SpecializedTraining,
) error {
	args := m.Called(ctx, training)
	return args.Error(0)
}

func (m *MockCompositionStore) GetTraining(
	ctx context.Context,
	id uuid.UUID,
) (*domain.SpecializedTraining, error) {
	args := m.Called(ctx, id)
	training, _ := args.Get(0).(*domain.SpecializedTraining)
	return training, args.Error(1)
}

func (m *MockCompositionStore) CreatePlan(ctx context.Context, plan *domain.TrainingPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockCompositionStore) GetPlan(
	ctx context.Context,
	id uuid.UUID,
) (*domain.TrainingPlan, error) {
	args := m.Called(ctx, id)
	plan, _ := args.Get(0).(*domain.TrainingPlan)
	return plan, args.Error(1)
}

func (m *MockCompositionStore) ListPlans(
	ctx context.Context,
	trainingID uuid.UUID,
) ([]*domain.TrainingPlan, error) {
	args := m.Called(ctx, trainingID)
	plans, _ := args.Get(0).([]*domain.TrainingPlan)
	return plans, args.Error(1)
}

func (m *MockCompositionStore) CountPlans(
	ctx context.Context,
	trainingID uuid.UUID,
) (int, error) {
	args := m.Called(ctx, trainingID)
	return args.Int(0), args.Error(1)
}

func (m *MockCompositionStore) InsertMappings(
	ctx context.Context,
	mappings []*domain.PlanUnitMapping,
) error {
	args := m.Called(ctx, mappings)
	return args.Error(0)
}

func (m *MockCompositionStore) DeleteMappings(ctx context.Context, planID uuid.UUID) error {
	args := m.Called(ctx, planID)
	return args.Error(0)
}

func (m *MockCompositionStore) ListPlanUnits(
	ctx context.Context,
	planID uuid.UUID,
) ([]*domain.PlanUnitMapping, error) {
	args := m.Called(ctx, planID)
	mappings, _ := args.Get(0).([]*domain.PlanUnitMapping)
	return mappings, args.Error(1)
}

func (m *MockCompositionStore) UpsertCurriculumDay(
	ctx context.Context,
	dayUnit *domain.CurriculumDayUnit,
) error {
	args := m.Called(ctx, dayUnit)
	return args.Error(0)
}

func (m *MockCompositionStore) ListCurriculumDay(
	ctx context.Context,
	dayNumber int,
) ([]*domain.CurriculumDayUnit, error) {
	args := m.Called(ctx, dayNumber)
	dayUnits, _ := args.Get(0).([]*domain.CurriculumDayUnit)
	return dayUnits, args.Error(1)
}

func (m *MockCompositionStore) WithTx(tx *sql.Tx) store.CompositionStore {
	return m
}

// MockProgressStore mocks the store.ProgressStore interface
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) InsertCompletion(
	ctx context.Context,
	completion *domain.UnitCompletion,
) error {
	args := m.Called(ctx, completion)
	return args.Error(0)
}

func (m *MockProgressStore) ListCompletions(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.UnitCompletion, error) {
	args := m.Called(ctx, userID)
	completions, _ := args.Get(0).([]*domain.UnitCompletion)
	return completions, args.Error(1)
}

func (m *MockProgressStore) LockSkillProgress(
	ctx context.Context,
	userID, skillID uuid.UUID,
) error {
	args := m.Called(ctx, userID, skillID)
	return args.Error(0)
}

func (m *MockProgressStore) LockSpecializedProgress(
	ctx context.Context,
	userID, trainingID uuid.UUID,
) error {
	args := m.Called(ctx, userID, trainingID)
	return args.Error(0)
}

func (m *MockProgressStore) CountDistinctCompletedUnits(
	ctx context.Context,
	userID, skillID uuid.UUID,
) (int, error) {
	args := m.Called(ctx, userID, skillID)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressStore) UpsertSkillProgress(
	ctx context.Context,
	progress *domain.SkillProgress,
) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressStore) GetSkillProgress(
	ctx context.Context,
	userID, skillID uuid.UUID,
) (*domain.SkillProgress, error) {
	args := m.Called(ctx, userID, skillID)
	progress, _ := args.Get(0).(*domain.SkillProgress)
	return progress, args.Error(1)
}

func (m *MockProgressStore) CountCompletedPlans(
	ctx context.Context,
	userID, trainingID uuid.UUID,
) (int, error) {
	args := m.Called(ctx, userID, trainingID)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressStore) UpsertSpecializedProgress(
	ctx context.Context,
	progress *domain.SpecializedProgress,
) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressStore) GetSpecializedProgress(
	ctx context.Context,
	userID, trainingID uuid.UUID,
) (*domain.SpecializedProgress, error) {
	args := m.Called(ctx, userID, trainingID)
	progress, _ := args.Get(0).(*domain.SpecializedProgress)
	return progress, args.Error(1)
}

func (m *MockProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return m
}

// MockSessionStore mocks the store.SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, session *domain.TrainingSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*domain.TrainingSession, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*domain.TrainingSession)
	return session, args.Error(1)
}

func (m *MockSessionStore) UpdateState(
	ctx context.Context,
	session *domain.TrainingSession,
) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return m
}

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserStore) GetByInviteCode(
	ctx context.Context,
	code string,
) (*domain.User, error) {
	args := m.Called(ctx, code)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserStore) SetInviteCode(
	ctx context.Context,
	userID uuid.UUID,
	code string,
) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func (m *MockUserStore) IncrementInvitedCount(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserStore) SetReferrer(ctx context.Context, userID, referrerID uuid.UUID) error {
	args := m.Called(ctx, userID, referrerID)
	return args.Error(0)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
