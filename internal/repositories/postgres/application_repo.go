package postgres

import (
	"context"
	"errors"

	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.JobApplication) error
	GetByID(ctx context.Context, id string) (*models.JobApplication, error)
	Update(ctx context.Context, app *models.JobApplication) error
	ExistsByJobAndCandidate(ctx context.Context, jobID, candidateID string) (bool, error)
	ListByJob(ctx context.Context, jobID string) ([]models.JobApplication, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]models.JobApplication, error)
	ReplaceSkills(ctx context.Context, applicationID string, skills []models.ApplicationSkill) error
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *models.JobApplication) error {
	return dbFrom(ctx, r.db).Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := dbFrom(ctx, r.db).
		Preload("Skills").
		Where("id = ?", id).
		Take(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &app, err
}

func (r *applicationRepo) Update(ctx context.Context, app *models.JobApplication) error {
	return dbFrom(ctx, r.db).
		Omit("Skills").
		Save(app).Error
}

func (r *applicationRepo) ExistsByJobAndCandidate(ctx context.Context, jobID, candidateID string) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).
		Model(&models.JobApplication{}).
		Where("job_id = ? AND candidate_id = ?", jobID, candidateID).
		Count(&count).Error
	return count > 0, err
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.JobApplication, error) {
	var rows []models.JobApplication
	err := dbFrom(ctx, r.db).
		Preload("Skills").
		Where("job_id = ?", jobID).
		Order("applied_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID string) ([]models.JobApplication, error) {
	var rows []models.JobApplication
	err := dbFrom(ctx, r.db).
		Preload("Skills").
		Where("candidate_id = ?", candidateID).
		Order("applied_at DESC").
		Find(&rows).Error
	return rows, err
}

// ReplaceSkills clears the recorded skill list and inserts the new one.
// Clear-then-insert, not merge.
func (r *applicationRepo) ReplaceSkills(ctx context.Context, applicationID string, skills []models.ApplicationSkill) error {
	db := dbFrom(ctx, r.db)
	if err := db.
		Where("application_id = ?", applicationID).
		Delete(&models.ApplicationSkill{}).Error; err != nil {
		return err
	}
	if len(skills) == 0 {
		return nil
	}
	return db.Create(&skills).Error
}
