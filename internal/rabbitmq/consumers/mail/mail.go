package mail

import (
	"context"
	e "recoverme/internal/core/domain/errors"
	"recoverme/internal/core/domain/logging"
	"recoverme/internal/core/domain/notification"
	"recoverme/internal/rabbitmq"
	"recoverme/internal/rabbitmq/schema"

	"github.com/rabbitmq/amqp091-go"
)

// Consumer drains the mail queue into a Notifier. A mail that fails to send
// is requeued once and dropped on the second failure.
type Consumer struct {
	log      logging.Logger
	channel  *rabbitmq.Channel
	queue    string
	notifier notification.Notifier
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	notifier notification.Notifier,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if notifier == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	return &Consumer{log: log, channel: channel, queue: queue, notifier: notifier}
}

// Consume returns once consuming has started. The returned channel is closed
// when the delivery stream ends.
func (c *Consumer) Consume(ctx context.Context) (<-chan struct{}, error) {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(ctx, "Could not start consuming.", logging.Entry("err", err))
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for delivery := range deliveries {
			c.Handle(ctx, delivery)
		}
	}()
	return done, nil
}

func (c *Consumer) Handle(ctx context.Context, delivery amqp091.Delivery) {
	mail := &schema.Mail{}
	if err := mail.Unmarshal(delivery.Body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal mail.",
			logging.Entry("err", err),
			logging.Entry("bodySize", len(delivery.Body)),
		)
		c.ack(ctx, delivery)
		return
	}

	if err := c.notifier.Send(ctx, mail.Message()); err != nil {
		requeue := !delivery.Redelivered
		c.log.Error(
			ctx,
			"Could not deliver mail.",
			logging.Entry("to", mail.To),
			logging.Entry("requeue", requeue),
			logging.Entry("err", err),
		)
		if err := delivery.Nack(false, requeue); err != nil {
			c.log.Error(ctx, "Could not NACK AMQP message.", logging.Entry("err", err))
		}
		return
	}

	c.log.Info(ctx, "Mail has been delivered.", logging.Entry("to", mail.To), logging.Entry("subject", mail.Subject))
	c.ack(ctx, delivery)
}

func (c *Consumer) ack(ctx context.Context, delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(ctx, "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
