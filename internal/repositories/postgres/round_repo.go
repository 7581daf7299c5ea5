package postgres

import (
	"context"
	"errors"

	"github.com/hirestack/hirestack/internal/models"
	"github.com/hirestack/hirestack/internal/utils"
	"gorm.io/gorm"
)

type RoundRepository interface {
	GetByID(ctx context.Context, id string) (*models.InterviewRound, error)
	CreateBatch(ctx context.Context, rounds []models.InterviewRound) error
	Update(ctx context.Context, round *models.InterviewRound) error
	// DeleteAbove removes rounds numbered strictly above keep, cascading
	// deletion of their feedback.
	DeleteAbove(ctx context.Context, interviewID string, keep int) error
	SetStatusAll(ctx context.Context, interviewID, status string) error
	SetType(ctx context.Context, interviewID string, roundNumber int, roundType string) error
	// CompleteAll forces every round not already COMPLETED to COMPLETED.
	CompleteAll(ctx context.Context, interviewID string) error
}

type roundRepo struct {
	db *gorm.DB
}

func NewRoundRepo(db *gorm.DB) RoundRepository {
	return &roundRepo{db: db}
}

func (r *roundRepo) GetByID(ctx context.Context, id string) (*models.InterviewRound, error) {
	var round models.InterviewRound
	err := dbFrom(ctx, r.db).
		Preload("Feedbacks").
		Where("id = ?", id).
		Take(&round).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &round, err
}

func (r *roundRepo) CreateBatch(ctx context.Context, rounds []models.InterviewRound) error {
	if len(rounds) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&rounds).Error
}

func (r *roundRepo) Update(ctx context.Context, round *models.InterviewRound) error {
	return dbFrom(ctx, r.db).
		Omit("Feedbacks").
		Save(round).Error
}

func (r *roundRepo) DeleteAbove(ctx context.Context, interviewID string, keep int) error {
	db := dbFrom(ctx, r.db)

	var ids []string
	if err := db.
		Model(&models.InterviewRound{}).
		Where("interview_id = ? AND round_number > ?", interviewID, keep).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	if err := db.
		Where("round_id IN ?", ids).
		Delete(&models.InterviewFeedback{}).Error; err != nil {
		return err
	}
	return db.
		Where("id IN ?", ids).
		Delete(&models.InterviewRound{}).Error
}

func (r *roundRepo) SetStatusAll(ctx context.Context, interviewID, status string) error {
	return dbFrom(ctx, r.db).
		Model(&models.InterviewRound{}).
		Where("interview_id = ?", interviewID).
		Update("status", status).Error
}

func (r *roundRepo) SetType(ctx context.Context, interviewID string, roundNumber int, roundType string) error {
	return dbFrom(ctx, r.db).
		Model(&models.InterviewRound{}).
		Where("interview_id = ? AND round_number = ?", interviewID, roundNumber).
		Update("round_type", roundType).Error
}

func (r *roundRepo) CompleteAll(ctx context.Context, interviewID string) error {
	return dbFrom(ctx, r.db).
		Model(&models.InterviewRound{}).
		Where("interview_id = ? AND status <> ?", interviewID, models.RoundStatusCompleted).
		Update("status", models.RoundStatusCompleted).Error
}
