package postgres

import (
	"context"
	"time"

	"github.com/hirestack/hirestack/internal/models"
	"gorm.io/gorm"
)

type OutboxRepository interface {
	Create(ctx context.Context, row *models.EmailOutbox) error
	FetchUnpublished(ctx context.Context, limit int) ([]models.EmailOutbox, error)
	MarkPublished(ctx context.Context, ids []string) error
}

type outboxRepo struct {
	db *gorm.DB
}

func NewOutboxRepo(db *gorm.DB) OutboxRepository {
	return &outboxRepo{db: db}
}

func (r *outboxRepo) Create(ctx context.Context, row *models.EmailOutbox) error {
	return dbFrom(ctx, r.db).Create(row).Error
}

func (r *outboxRepo) FetchUnpublished(ctx context.Context, limit int) ([]models.EmailOutbox, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.EmailOutbox
	err := dbFrom(ctx, r.db).
		Where("published_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *outboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return dbFrom(ctx, r.db).
		Model(&models.EmailOutbox{}).
		Where("id IN ?", ids).
		Update("published_at", now).Error
}
