package mailer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hirestack/hirestack/internal/models"
	pgrepo "github.com/hirestack/hirestack/internal/repositories/postgres"
	"gorm.io/datatypes"
)

// OutboxProducer enqueues by writing an email_outbox row. Because the outbox
// repository joins any transaction carried in ctx, the message commits or
// rolls back together with the primary state change. The outbox relay worker
// moves committed rows to the mail stream.
type OutboxProducer struct {
	outbox pgrepo.OutboxRepository
}

func NewOutboxProducer(outbox pgrepo.OutboxRepository) *OutboxProducer {
	return &OutboxProducer{outbox: outbox}
}

func (p *OutboxProducer) Enqueue(ctx context.Context, msg Message) error {
	fields := datatypes.JSONMap{}
	for k, v := range msg.Fields {
		fields[k] = v
	}
	return p.outbox.Create(ctx, &models.EmailOutbox{
		ID:        uuid.NewString(),
		Recipient: msg.To,
		EmailType: string(msg.Type),
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	})
}
