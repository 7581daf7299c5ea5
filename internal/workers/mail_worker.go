package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hirestack/hirestack/internal/mailer"
)

// MailWorkerPool consumes the mail stream and sends rendered emails. Delivery
// is at-least-once: a message is acked only after the send attempt, and a
// resent message produces the same mail again. Send failures are logged and
// acked rather than retried forever; they never propagate to the producers.
type MailWorkerPool struct {
	Redis      *redis.Client
	Sender     mailer.Sender
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *MailWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Sender == nil {
		return errors.New("MailWorkerPool missing dependency: Redis/Sender must be set")
	}
	if p.Stream == "" {
		p.Stream = "mail:stream"
	}
	if p.Group == "" {
		p.Group = "mail-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "m"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *MailWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *MailWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	to := getStr("to")
	typ := mailer.Type(getStr("type"))
	if to == "" || typ == "" {
		return
	}

	fields := map[string]string{}
	if raw := getStr("fields"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			p.Logger.WithError(err).WithField("redis_id", msg.ID).Warn("mail fields decode failed")
			return
		}
	}

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id": msg.ID,
		"to":       to,
		"type":     string(typ),
	})

	subject := mailer.Subject(typ, fields)
	body := mailer.Body(typ, fields)

	if err := p.Sender.Send(ctx, to, subject, body); err != nil {
		log.WithError(err).Error("mail send failed")
		return
	}
	log.Info("mail sent")
}
