package mail

import (
	"context"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/logging"
	"recoverme/internal/core/domain/notification"
	"recoverme/internal/rabbitmq/schema"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp091.Publishing,
	) error
}

// RabbitMQ is a notification.Notifier that queues mail for the mailer
// process instead of delivering it directly.
type RabbitMQ struct {
	log     logging.Logger
	channel publisher
	queue   string
	timeout time.Duration
}

func NewRabbitMQ(log logging.Logger, channel publisher, queue string, timeout time.Duration) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	return &RabbitMQ{log: log, channel: channel, queue: queue, timeout: timeout}
}

func (s *RabbitMQ) Send(ctx context.Context, m notification.Message) error {
	mail := schema.NewMail(m)
	body, err := mail.Marshal()
	if err != nil {
		return err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	err = s.channel.PublishWithContext(ctx, "", s.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("queue", s.queue))
		return err
	}
	s.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("queue", s.queue),
		logging.Entry("subject", m.Subject),
	)
	return nil
}
