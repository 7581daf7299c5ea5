package postgres

import (
	"context"
	"errors"

	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(ctx context.Context, fb *models.InterviewFeedback) error
	Update(ctx context.Context, fb *models.InterviewFeedback) error
	FindByRoundSkillInterviewer(ctx context.Context, roundID, skillID, interviewerID string) (*models.InterviewFeedback, error)
}

type feedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, fb *models.InterviewFeedback) error {
	return dbFrom(ctx, r.db).Create(fb).Error
}

func (r *feedbackRepo) Update(ctx context.Context, fb *models.InterviewFeedback) error {
	return dbFrom(ctx, r.db).Save(fb).Error
}

func (r *feedbackRepo) FindByRoundSkillInterviewer(ctx context.Context, roundID, skillID, interviewerID string) (*models.InterviewFeedback, error) {
	var fb models.InterviewFeedback
	err := dbFrom(ctx, r.db).
		Where("round_id = ? AND skill_id = ? AND interviewer_id = ?", roundID, skillID, interviewerID).
		Take(&fb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &fb, err
}
