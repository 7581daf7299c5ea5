package postgres

import (
	"context"

	"github.com/hirestack/hirestack/internal/models"
	"gorm.io/gorm"
)

type SkillRepository interface {
	Create(ctx context.Context, skill *models.Skill) error
	List(ctx context.Context) ([]models.Skill, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Skill, error)
	CountByIDs(ctx context.Context, ids []string) (int64, error)
}

type skillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) Create(ctx context.Context, skill *models.Skill) error {
	return dbFrom(ctx, r.db).Create(skill).Error
}

func (r *skillRepo) List(ctx context.Context) ([]models.Skill, error) {
	var rows []models.Skill
	err := dbFrom(ctx, r.db).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *skillRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Skill, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Skill
	err := dbFrom(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *skillRepo) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := dbFrom(ctx, r.db).
		Model(&models.Skill{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}
