package postgres

import (
	"context"
	"errors"

	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.CandidateProfile, error)
	List(ctx context.Context) ([]models.CandidateProfile, error)
	Upsert(ctx context.Context, p *models.CandidateProfile) error
}

type candidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) GetByUserID(ctx context.Context, userID string) (*models.CandidateProfile, error) {
	var p models.CandidateProfile
	err := dbFrom(ctx, r.db).Where("user_id = ?", userID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *candidateRepo) List(ctx context.Context) ([]models.CandidateProfile, error) {
	var rows []models.CandidateProfile
	err := dbFrom(ctx, r.db).Find(&rows).Error
	return rows, err
}

func (r *candidateRepo) Upsert(ctx context.Context, p *models.CandidateProfile) error {
	return dbFrom(ctx, r.db).Save(p).Error
}
