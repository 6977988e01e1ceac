package rabbitmq

import (
	"context"
	"fmt"
	"recoverme/internal/core/domain/logging"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reconnectDelay = 3 * time.Second

// amqpChannel is the part of *amqp.Channel the wrappers below rely on.
type amqpChannel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Consume(
		queue, consumer string,
		autoAck, exclusive, noLocal, noWait bool,
		args amqp.Table,
	) (<-chan amqp.Delivery, error)
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	Close() error
}

// Connection keeps a broker connection alive across drops. The underlying
// connection is replaced by a background goroutine, so it is only ever read
// through current.
type Connection struct {
	mu   sync.RWMutex
	conn *amqp.Connection
	log  logging.Logger
}

func Dial(url string, log logging.Logger) (*Connection, error) {
	if log == nil {
		return nil, fmt.Errorf("log argument must not be nil")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	c := &Connection{conn: conn, log: log}
	go c.watch(url)
	return c, nil
}

func (c *Connection) current() *amqp.Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

func (c *Connection) watch(url string) {
	ctx := context.Background()
	for {
		reason, ok := <-c.current().NotifyClose(make(chan *amqp.Error, 1))
		if !ok {
			c.log.Info(ctx, "RabbitMQ connection closed.")
			return
		}
		c.log.Warning(ctx, "RabbitMQ connection lost.", logging.Entry("reason", reason.Error()))

		conn := c.redial(ctx, url)
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.log.Info(ctx, "RabbitMQ reconnect success.")
	}
}

func (c *Connection) redial(ctx context.Context, url string) *amqp.Connection {
	for {
		time.Sleep(reconnectDelay)
		conn, err := amqp.Dial(url)
		if err == nil {
			return conn
		}
		c.log.Error(ctx, "RabbitMQ reconnect failed.", logging.Entry("err", err))
	}
}

func (c *Connection) Close() error {
	return c.current().Close()
}

func (c *Connection) openChannel() (amqpChannel, error) {
	ch, err := c.current().Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Channel opens a channel that is recreated after unexpected closes.
func (c *Connection) Channel() (*Channel, error) {
	return newChannel(c.openChannel, c.log, reconnectDelay)
}

// Channel is safe for concurrent use while it is being recreated in the
// background. Publishing, declaring and consuming always go to the channel
// that is open at the time of the call.
type Channel struct {
	mu         sync.RWMutex
	ch         amqpChannel
	open       func() (amqpChannel, error)
	closed     int32
	retryDelay time.Duration
	log        logging.Logger
}

func newChannel(open func() (amqpChannel, error), log logging.Logger, retryDelay time.Duration) (*Channel, error) {
	ch, err := open()
	if err != nil {
		return nil, err
	}
	channel := &Channel{ch: ch, open: open, retryDelay: retryDelay, log: log}
	go channel.watch()
	return channel, nil
}

func (ch *Channel) current() amqpChannel {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	return ch.ch
}

func (ch *Channel) watch() {
	ctx := context.Background()
	for {
		reason, ok := <-ch.current().NotifyClose(make(chan *amqp.Error, 1))
		if !ok || ch.IsClosed() {
			// the connection may have gone away first, so mark the channel
			// closed for Consume
			atomic.StoreInt32(&ch.closed, 1)
			return
		}
		ch.log.Warning(ctx, "RabbitMQ channel closed.", logging.Entry("reason", reason.Error()))

		reopened, ok := ch.reopen(ctx)
		if !ok {
			return
		}
		ch.mu.Lock()
		ch.ch = reopened
		ch.mu.Unlock()
		if ch.IsClosed() {
			reopened.Close()
			return
		}
		ch.log.Info(ctx, "Channel recreate success.")
	}
}

func (ch *Channel) reopen(ctx context.Context) (amqpChannel, bool) {
	for {
		time.Sleep(ch.retryDelay)
		if ch.IsClosed() {
			return nil, false
		}
		reopened, err := ch.open()
		if err == nil {
			return reopened, true
		}
		ch.log.Error(ctx, "Channel recreate failed.", logging.Entry("err", err))
	}
}

// IsClosed reports whether Close has been called.
func (ch *Channel) IsClosed() bool {
	return atomic.LoadInt32(&ch.closed) == 1
}

func (ch *Channel) Close() error {
	if !atomic.CompareAndSwapInt32(&ch.closed, 0, 1) {
		return amqp.ErrClosed
	}
	return ch.current().Close()
}

func (ch *Channel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	return ch.current().PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

// DeclareDurableQueue makes sure the queue exists and survives broker
// restarts. Publishers use the default exchange with the queue name as
// routing key.
func (ch *Channel) DeclareDurableQueue(name string) error {
	_, err := ch.current().QueueDeclare(name, true, false, false, false, nil)
	return err
}

// Consume keeps delivering until the channel is closed with Close, resuming
// after channel recreation.
func (ch *Channel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	deliveries := make(chan amqp.Delivery)

	go func() {
		defer close(deliveries)
		ctx := context.Background()
		for {
			d, err := ch.current().Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
			if err != nil {
				ch.log.Error(ctx, "Consume failed.", logging.Entry("queue", queue), logging.Entry("err", err))
				time.Sleep(ch.retryDelay)
				if ch.IsClosed() {
					return
				}
				continue
			}

			for msg := range d {
				deliveries <- msg
			}

			// closed flag may be set only after the delivery channel ends
			time.Sleep(ch.retryDelay)
			if ch.IsClosed() {
				ch.log.Info(ctx, "Channel is closed, stop consuming.", logging.Entry("queue", queue))
				return
			}
		}
	}()

	return deliveries, nil
}
