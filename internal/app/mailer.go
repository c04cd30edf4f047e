package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/infrastructure/notify"
	"github.com/sould/property-match/internal/infrastructure/queue"
	"github.com/sould/property-match/internal/pkg/config"
)

// mailWorkers is the number of concurrent SMTP senders.
const mailWorkers = 4

// RunMailer drains the notification queue into SMTP until ctx is cancelled.
// It needs neither MongoDB nor Redis.
func RunMailer(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.Mail.AMQPURL == "" {
		return errors.New("mailer: AMQP_URL is required")
	}
	nc := notifyConfig(cfg)
	smtp := notify.NewSMTPNotifier(nc.SMTP, nc.From)

	dispatcher := queue.NewDispatcher(mailWorkers, smtp, log.With().Str("component", "dispatcher").Logger())
	dispatcher.Start(ctx)

	queueName := cfg.Mail.AMQPQueue
	if queueName == "" {
		queueName = notify.DefaultQueue
	}
	log.Info().Str("queue", queueName).Str("smtp_host", nc.SMTP.Host).Msg("mailer started")

	err := queue.NewConsumer(cfg.Mail.AMQPURL, queueName, dispatcher, log.With().Str("component", "consumer").Logger()).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
