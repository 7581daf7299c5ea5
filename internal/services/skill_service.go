package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hirestack/hirestack/internal/models"
	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
	"github.com/hirestack/hirestack/internal/utils"
)

type SkillService interface {
	Create(ctx context.Context, name string) (*models.Skill, error)
	List(ctx context.Context) ([]models.Skill, error)
}

type skillService struct {
	skills pgrepo.SkillRepository
}

func NewSkillService(skills pgrepo.SkillRepository) SkillService {
	return &skillService{skills: skills}
}

func (s *skillService) Create(ctx context.Context, name string) (*models.Skill, error) {
	const op = "SkillService.Create"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "skill name is required", nil)
	}

	skill := &models.Skill{
		ID:     uuid.NewString(),
		Name:   name,
		Status: models.SkillApproved,
	}
	if err := s.skills.Create(ctx, skill); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create skill", err)
	}
	return skill, nil
}

func (s *skillService) List(ctx context.Context) ([]models.Skill, error) {
	const op = "SkillService.List"

	rows, err := s.skills.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list skills", err)
	}
	return rows, nil
}
