package consumers

import (
	"context"
	"recoverme/internal/app/deps"
	dl "recoverme/internal/core/domain/logging"
	mailconsumer "recoverme/internal/rabbitmq/consumers/mail"
)

// InitConsumers starts the mail consumer. The returned channel is closed
// when its delivery stream ends.
func InitConsumers(deps *deps.Deps) (<-chan struct{}, func()) {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitMQMailQueue
	if err := rabbitmqChannel.DeclareDurableQueue(queue); err != nil {
		deps.Logger.Error(context.Background(), "Could not declare RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}

	consumer := mailconsumer.New(deps.Logger, rabbitmqChannel, queue, deps.MailDeliverer)
	done, err := consumer.Consume(context.Background())
	if err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return done, func() { rabbitmqChannel.Close() }
}
