package postgres

import (
	"context"
	"errors"

	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id string) error
	ListOpen(ctx context.Context) ([]models.Job, error)
	ListByCompany(ctx context.Context, companyID string) ([]models.Job, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	return dbFrom(ctx, r.db).Create(job).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := dbFrom(ctx, r.db).Where("id = ?", id).Take(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &job, err
}

func (r *jobRepo) Update(ctx context.Context, job *models.Job) error {
	return dbFrom(ctx, r.db).Save(job).Error
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	return dbFrom(ctx, r.db).Where("id = ?", id).Delete(&models.Job{}).Error
}

func (r *jobRepo) ListOpen(ctx context.Context) ([]models.Job, error) {
	var rows []models.Job
	err := dbFrom(ctx, r.db).
		Where("status = ?", models.JobOpen).
		Order("posted_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *jobRepo) ListByCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	var rows []models.Job
	err := dbFrom(ctx, r.db).
		Where("company_id = ?", companyID).
		Order("posted_at DESC").
		Find(&rows).Error
	return rows, err
}
