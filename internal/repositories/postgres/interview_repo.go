package postgres

import (
	"context"
	"errors"

	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
	"gorm.io/gorm"
)

type InterviewRepository interface {
	Create(ctx context.Context, iv *models.Interview) error
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*models.Interview, error)
	Update(ctx context.Context, iv *models.Interview) error
	ListByCompany(ctx context.Context, companyID string) ([]models.Interview, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]models.Interview, error)
	ListByInterviewer(ctx context.Context, userID string) ([]models.Interview, error)
	// ListByApplicationStatus returns a company's interviews whose backing
	// application currently sits in the given status.
	ListByApplicationStatus(ctx context.Context, companyID string, status models.ApplicationStatus) ([]models.Interview, error)
}

type interviewRepo struct {
	db *gorm.DB
}

func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func withRounds(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Rounds", func(db *gorm.DB) *gorm.DB {
			return db.Order("round_number ASC")
		}).
		Preload("Rounds.Feedbacks")
}

func (r *interviewRepo) Create(ctx context.Context, iv *models.Interview) error {
	return dbFrom(ctx, r.db).Create(iv).Error
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	var iv models.Interview
	err := withRounds(dbFrom(ctx, r.db)).
		Where("id = ?", id).
		Take(&iv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &iv, err
}

func (r *interviewRepo) GetByApplicationID(ctx context.Context, applicationID string) (*models.Interview, error) {
	var iv models.Interview
	err := withRounds(dbFrom(ctx, r.db)).
		Where("application_id = ?", applicationID).
		Take(&iv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &iv, err
}

func (r *interviewRepo) Update(ctx context.Context, iv *models.Interview) error {
	return dbFrom(ctx, r.db).
		Omit("Rounds").
		Save(iv).Error
}

func (r *interviewRepo) ListByCompany(ctx context.Context, companyID string) ([]models.Interview, error) {
	var rows []models.Interview
	err := withRounds(dbFrom(ctx, r.db)).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *interviewRepo) ListByCandidate(ctx context.Context, candidateID string) ([]models.Interview, error) {
	var rows []models.Interview
	err := withRounds(dbFrom(ctx, r.db)).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *interviewRepo) ListByInterviewer(ctx context.Context, userID string) ([]models.Interview, error) {
	var rows []models.Interview
	err := withRounds(dbFrom(ctx, r.db)).
		Where("? = ANY(interviewer_ids)", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *interviewRepo) ListByApplicationStatus(ctx context.Context, companyID string, status models.ApplicationStatus) ([]models.Interview, error) {
	var rows []models.Interview
	err := withRounds(dbFrom(ctx, r.db)).
		Joins("JOIN job_applications ON job_applications.id = interviews.application_id").
		Where("interviews.company_id = ? AND job_applications.status = ?", companyID, status).
		Order("interviews.created_at DESC").
		Find(&rows).Error
	return rows, err
}
