package workers

import (
	"encoding/json"
	"errors"
	"time"

	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
)

// OutboxRelay polls the email outbox and moves committed rows onto the mail
// stream. Publishing and marking are separate steps, so a crash in between
// can replay a row; the stream consumer must tolerate duplicates.
type OutboxRelay struct {
	Redis  *redis.Client
	Outbox pgrepo.OutboxRepository
	Logger *logrus.Logger

	Stream    string
	Interval  time.Duration
	BatchSize int
}

func (r *OutboxRelay) Start(ctx context.Context) error {
	if r.Redis == nil || r.Outbox == nil {
		return errors.New("OutboxRelay missing dependency: Redis/Outbox must be set")
	}
	if r.Stream == "" {
		r.Stream = "mail:stream"
	}
	if r.Interval <= 0 {
		r.Interval = 2 * time.Second
	}
	if r.BatchSize <= 0 {
		r.BatchSize = 100
	}
	if r.Logger == nil {
		r.Logger = logrus.New()
	}

	go r.run(ctx)
	return nil
}

func (r *OutboxRelay) run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.flush(ctx)
		}
	}
}

func (r *OutboxRelay) flush(ctx context.Context) {
	rows, err := r.Outbox.FetchUnpublished(ctx, r.BatchSize)
	if err != nil {
		r.Logger.WithError(err).Error("outbox fetch failed")
		return
	}
	if len(rows) == 0 {
		return
	}

	published := make([]string, 0, len(rows))
	for _, row := range rows {
		fields, err := json.Marshal(row.Fields)
		if err != nil {
			r.Logger.WithError(err).WithField("outbox_id", row.ID).Error("outbox fields marshal failed")
			continue
		}

		err = r.Redis.XAdd(ctx, &redis.XAddArgs{
			Stream: r.Stream,
			Values: map[string]any{
				"outbox_id": row.ID,
				"to":        row.Recipient,
				"type":      row.EmailType,
				"fields":    string(fields),
			},
		}).Err()
		if err != nil {
			r.Logger.WithError(err).WithField("outbox_id", row.ID).Warn("mail stream enqueue failed")
			continue
		}
		published = append(published, row.ID)
	}

	if err := r.Outbox.MarkPublished(ctx, published); err != nil {
		r.Logger.WithError(err).Error("outbox mark published failed")
	}
}
