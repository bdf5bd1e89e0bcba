package service

import (
	"context"
	"log/slog"

	"github.com/cuelab/skilltrack-api/internal/domain"
	"github.com/cuelab/skilltrack-api/internal/store"
	"github.com/google/uuid"
)

// ContentService provides operations over the three-level content
// hierarchy: skills, their sub-skills, and the training units under them.
type ContentService interface {
	// CreateSkill creates a new top-level skill.
	CreateSkill(ctx context.Context, position int, title string) (*domain.Skill, error)

	// GetSkill retrieves a skill by ID.
	GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error)

	// ListSkills lists all skills ordered by position.
	ListSkills(ctx context.Context) ([]*domain.Skill, error)

	// CreateSubSkill creates a sub-skill under an existing skill.
	CreateSubSkill(
		ctx context.Context,
		skillID uuid.UUID,
		position int,
		title string,
	) (*domain.SubSkill, error)

	// ListSubSkills lists a skill's sub-skills ordered by position.
	ListSubSkills(ctx context.Context, skillID uuid.UUID) ([]*domain.SubSkill, error)

	// CreateUnit creates a training unit under an existing sub-skill.
	CreateUnit(
		ctx context.Context,
		subSkillID uuid.UUID,
		position int,
		content string,
	) (*domain.TrainingUnit, error)

	// GetUnit retrieves a training unit by ID.
	GetUnit(ctx context.Context, id uuid.UUID) (*domain.TrainingUnit, error)

	// ListUnits lists a sub-skill's units ordered by position.
	ListUnits(ctx context.Context, subSkillID uuid.UUID) ([]*domain.TrainingUnit, error)

	// UpdateUnitContent replaces a unit's content. Both administrative
	// edits and the batch content loader go through this path.
	UpdateUnitContent(ctx context.Context, id uuid.UUID, content string) error
}

// contentServiceImpl implements the ContentService interface
type contentServiceImpl struct {
	contentStore store.ContentStore
	logger       *slog.Logger
}

var _ ContentService = (*contentServiceImpl)(nil)

// NewContentService creates a new ContentService.
// It returns an error if any of the required dependencies are nil.
func NewContentService(
	contentStore store.ContentStore,
	logger *slog.Logger,
) (ContentService, error) {
	if contentStore == nil {
		return nil, &ServiceError{
			Operation: "create_service",
			Message:   "contentStore cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &contentServiceImpl{
		contentStore: contentStore,
		logger:       logger.With("component", "content_service"),
	}, nil
}

// CreateSkill creates a new top-level skill at the given position.
func (s *contentServiceImpl) CreateSkill(
	ctx context.Context,
	position int,
	title string,
) (*domain.Skill, error) {
	skill, err := domain.NewSkill(position, title)
	if err != nil {
		return nil, err
	}

	if err := s.contentStore.CreateSkill(ctx, skill); err != nil {
		s.logger.Error("failed to create skill",
			"error", err,
			"title", title)
		return nil, &ServiceError{
			Operation: "create_skill",
			Message:   "failed to save skill",
			Err:       err,
		}
	}

	s.logger.Info("skill created",
		"skill_id", skill.ID,
		"position", skill.Position)
	return skill, nil
}

// GetSkill retrieves a skill by ID.
func (s *contentServiceImpl) GetSkill(ctx context.Context, id uuid.UUID) (*domain.Skill, error) {
	return s.contentStore.GetSkill(ctx, id)
}

// ListSkills lists all skills ordered by position.
func (s *contentServiceImpl) ListSkills(ctx context.Context) ([]*domain.Skill, error) {
	return s.contentStore.ListSkills(ctx)
}

// CreateSubSkill creates a sub-skill under an existing skill.
func (s *contentServiceImpl) CreateSubSkill(
	ctx context.Context,
	skillID uuid.UUID,
	position int,
	title string,
) (*domain.SubSkill, error) {
	subSkill, err := domain.NewSubSkill(skillID, position, title)
	if err != nil {
		return nil, err
	}

	if err := s.contentStore.CreateSubSkill(ctx, subSkill); err != nil {
		s.logger.Error("failed to create sub-skill",
			"error", err,
			"skill_id", skillID,
			"title", title)
		return nil, &ServiceError{
			Operation: "create_sub_skill",
			Message:   "failed to save sub-skill",
			Err:       err,
		}
	}

	s.logger.Info("sub-skill created",
		"sub_skill_id", subSkill.ID,
		"skill_id", skillID)
	return subSkill, nil
}

// ListSubSkills lists a skill's sub-skills ordered by position.
func (s *contentServiceImpl) ListSubSkills(
	ctx context.Context,
	skillID uuid.UUID,
) ([]*domain.SubSkill, error) {
	return s.contentStore.ListSubSkills(ctx, skillID)
}

// CreateUnit creates a training unit under an existing sub-skill.
func (s *contentServiceImpl) CreateUnit(
	ctx context.Context,
	subSkillID uuid.UUID,
	position int,
	content string,
) (*domain.TrainingUnit, error) {
	unit, err := domain.NewTrainingUnit(subSkillID, position, content)
	if err != nil {
		return nil, err
	}

	if err := s.contentStore.CreateUnit(ctx, unit); err != nil {
		s.logger.Error("failed to create training unit",
			"error", err,
			"sub_skill_id", subSkillID)
		return nil, &ServiceError{
			Operation: "create_unit",
			Message:   "failed to save training unit",
			Err:       err,
		}
	}

	s.logger.Info("training unit created",
		"unit_id", unit.ID,
		"sub_skill_id", subSkillID)
	return unit, nil
}

// GetUnit retrieves a training unit by ID.
func (s *contentServiceImpl) GetUnit(
	ctx context.Context,
	id uuid.UUID,
) (*domain.TrainingUnit, error) {
	return s.contentStore.GetUnit(ctx, id)
}

// ListUnits lists a sub-skill's units ordered by position.
func (s *contentServiceImpl) ListUnits(
	ctx context.Context,
	subSkillID uuid.UUID,
) ([]*domain.TrainingUnit, error) {
	return s.contentStore.ListUnits(ctx, subSkillID)
}

// UpdateUnitContent replaces a unit's content after domain validation.
func (s *contentServiceImpl) UpdateUnitContent(
	ctx context.Context,
	id uuid.UUID,
	content string,
) error {
	if content == "" {
		return domain.ErrEmptyUnitContent
	}

	if err := s.contentStore.UpdateUnitContent(ctx, id, content); err != nil {
		s.logger.Error("failed to update unit content",
			"error", err,
			"unit_id", id)
		return err
	}

	s.logger.Debug("unit content updated", "unit_id", id)
	return nil
}
