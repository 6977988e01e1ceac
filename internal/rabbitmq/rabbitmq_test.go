package rabbitmq

import (
	"context"
	"recoverme/internal/core/domain/logging"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu         sync.Mutex
	notify     []chan *amqp.Error
	deliveries chan amqp.Delivery
	published  int
	declared   []string
	closed     bool
}

func (f *fakeChannel) PublishWithContext(
	ctx context.Context,
	exchange, key string,
	mandatory, immediate bool,
	msg amqp.Publishing,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published++
	return nil
}

func (f *fakeChannel) QueueDeclare(
	name string,
	durable, autoDelete, exclusive, noWait bool,
	args amqp.Table,
) (amqp.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if durable {
		f.declared = append(f.declared, name)
	}
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) Consume(
	queue, consumer string,
	autoAck, exclusive, noLocal, noWait bool,
	args amqp.Table,
) (<-chan amqp.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deliveries == nil {
		f.deliveries = make(chan amqp.Delivery)
	}
	return f.deliveries, nil
}

func (f *fakeChannel) NotifyClose(receiver chan *amqp.Error) chan *amqp.Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notify = append(f.notify, receiver)
	return receiver
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return amqp.ErrClosed
	}
	f.closed = true
	for _, receiver := range f.notify {
		close(receiver)
	}
	f.notify = nil
	if f.deliveries != nil {
		close(f.deliveries)
	}
	return nil
}

// drop closes the channel the way the broker does, with a reason.
func (f *fakeChannel) drop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, receiver := range f.notify {
		receiver <- &amqp.Error{Code: amqp.ChannelError, Reason: "channel dropped"}
		close(receiver)
	}
	f.notify = nil
}

func (f *fakeChannel) watched() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notify) > 0
}

func (f *fakeChannel) publishedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.published
}

func (f *fakeChannel) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type opener struct {
	mu       sync.Mutex
	channels []*fakeChannel
	opened   int
}

func (o *opener) open() (amqpChannel, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	next := o.channels[o.opened]
	o.opened++
	return next, nil
}

func (o *opener) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened
}

func TestPublishWhileChannelIsRecreated(t *testing.T) {
	first, second := &fakeChannel{}, &fakeChannel{}
	o := &opener{channels: []*fakeChannel{first, second}}
	ch, err := newChannel(o.open, logging.NewFakeLogger(), time.Millisecond)
	require.NoError(t, err)
	require.Eventually(t, first.watched, time.Second, time.Millisecond)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				assert.NoError(t, ch.PublishWithContext(context.Background(), "", "mail", false, false, amqp.Publishing{}))
			}
		}()
	}

	first.drop()
	require.Eventually(t, func() bool { return second.publishedCount() > 0 }, time.Second, time.Millisecond)
	close(stop)
	wg.Wait()

	assert.Equal(t, 2, o.count())
	require.NoError(t, ch.Close())
	assert.True(t, second.isClosed())
	assert.False(t, first.isClosed())
}

func TestClosedChannelIsNotRecreated(t *testing.T) {
	first := &fakeChannel{}
	o := &opener{channels: []*fakeChannel{first}}
	ch, err := newChannel(o.open, logging.NewFakeLogger(), time.Millisecond)
	require.NoError(t, err)
	require.Eventually(t, first.watched, time.Second, time.Millisecond)

	require.NoError(t, ch.Close())

	assert.True(t, ch.IsClosed())
	assert.ErrorIs(t, ch.Close(), amqp.ErrClosed)
	assert.Never(t, func() bool { return o.count() > 1 }, 50*time.Millisecond, time.Millisecond)
}

func TestConsumeStopsAfterClose(t *testing.T) {
	first := &fakeChannel{}
	o := &opener{channels: []*fakeChannel{first}}
	ch, err := newChannel(o.open, logging.NewFakeLogger(), time.Millisecond)
	require.NoError(t, err)

	deliveries, err := ch.Consume("mail", "", false, false, false, false, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		first.mu.Lock()
		defer first.mu.Unlock()
		return first.deliveries != nil
	}, time.Second, time.Millisecond)

	require.NoError(t, ch.Close())

	select {
	case _, ok := <-deliveries:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("deliveries channel was not closed")
	}
}

func TestDeclareDurableQueue(t *testing.T) {
	first := &fakeChannel{}
	o := &opener{channels: []*fakeChannel{first}}
	ch, err := newChannel(o.open, logging.NewFakeLogger(), time.Millisecond)
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, ch.DeclareDurableQueue("mail"))

	first.mu.Lock()
	defer first.mu.Unlock()
	assert.Equal(t, []string{"mail"}, first.declared)
}
