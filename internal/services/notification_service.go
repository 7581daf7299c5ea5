package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hirestack/hirestack/internal/models"
	mongorepo "github.com/hirestack/hirestack/internal/repositories/mongo"
	"github.com/hirestack/hirestack/internal/utils"
)

// NotifyChannel returns the redis pub/sub channel carrying a user's live
// notification feed.
func NotifyChannel(userID string) string {
	return "notify:user:" + userID
}

type NotificationService interface {
	// Notify stores an in-app notification and publishes it to the
	// recipient's live channel. Failures are logged, never returned; losing
	// a bell icon update must not fail the write that caused it.
	Notify(ctx context.Context, recipientID, message, relatedJobID string)
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
}

type notificationService struct {
	repo mongorepo.NotificationRepository
	rdb  *redis.Client
	log  *logrus.Logger
}

func NewNotificationService(repo mongorepo.NotificationRepository, rdb *redis.Client, log *logrus.Logger) NotificationService {
	return &notificationService{repo: repo, rdb: rdb, log: log}
}

func (s *notificationService) Notify(ctx context.Context, recipientID, message, relatedJobID string) {
	n := &models.Notification{
		ID:           uuid.NewString(),
		RecipientID:  recipientID,
		Message:      message,
		RelatedJobID: relatedJobID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.WithError(err).WithField("recipient_id", recipientID).Error("failed to store notification")
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		s.log.WithError(err).Error("failed to marshal notification")
		return
	}
	if err := s.rdb.Publish(ctx, NotifyChannel(recipientID), payload).Err(); err != nil {
		s.log.WithError(err).WithField("recipient_id", recipientID).Warn("failed to publish notification")
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	const op = "NotificationService.ListForUser"

	rows, err := s.repo.ListByRecipient(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list notifications", err)
	}
	return rows, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID string) error {
	const op = "NotificationService.MarkRead"

	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to mark notification read", err)
	}
	return nil
}
