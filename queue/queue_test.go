package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func receiveWithTimeout(t *testing.T, sub *Subscription, timeout time.Duration) (*Delivery, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return sub.Receive(ctx)
}

func TestPublishReceiveOrder(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()
	sub := broker.Subscribe(NotificationQueue)

	bodies := []string{"first", "second", "third"}
	for _, b := range bodies {
		assert.NoError(t, broker.Publish(NotificationQueue, []byte(b)))
	}

	for _, want := range bodies {
		d, err := receiveWithTimeout(t, sub, time.Second)
		assert.NoError(t, err)
		assert.Equal(t, want, string(d.Body))
		d.Ack()
	}
}

func TestRejectRedelivers(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()
	sub := broker.Subscribe(NotificationQueue)

	assert.NoError(t, broker.Publish(NotificationQueue, []byte("retry me")))

	d, err := receiveWithTimeout(t, sub, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 1, d.Attempts)
	d.Reject()

	d, err = receiveWithTimeout(t, sub, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, "retry me", string(d.Body))
	assert.Equal(t, 2, d.Attempts)
	d.Ack()
}

func TestRejectDropsAfterMaxAttempts(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()
	sub := broker.Subscribe(NotificationQueue)

	assert.NoError(t, broker.Publish(NotificationQueue, []byte("doomed")))

	for i := 1; i <= broker.MaxAttempts; i++ {
		d, err := receiveWithTimeout(t, sub, time.Second)
		assert.NoError(t, err)
		assert.Equal(t, i, d.Attempts)
		d.Reject()
	}

	// The last reject exhausted the attempt cap, nothing comes back.
	_, err := receiveWithTimeout(t, sub, 100*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAckWinsOverLaterReject(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()
	sub := broker.Subscribe(NotificationQueue)

	assert.NoError(t, broker.Publish(NotificationQueue, []byte("done")))

	d, err := receiveWithTimeout(t, sub, time.Second)
	assert.NoError(t, err)
	d.Ack()
	d.Reject() // no-op, the message was already acknowledged

	_, err = receiveWithTimeout(t, sub, 100*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReceiveHonorsCancellation(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()
	sub := broker.Subscribe(NotificationQueue)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := sub.Receive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublishTimesOutWhenQueueFull(t *testing.T) {
	broker := NewBroker()
	defer broker.Close()
	broker.Capacity = 1
	broker.PublishTimeout = 50 * time.Millisecond

	assert.NoError(t, broker.Publish(NotificationQueue, []byte("fits")))

	err := broker.Publish(NotificationQueue, []byte("overflow"))
	assert.ErrorIs(t, err, ErrPublishTimeout)
}

func TestCloseUnblocksPendingPublish(t *testing.T) {
	broker := NewBroker()
	broker.Capacity = 1
	broker.PublishTimeout = 5 * time.Second

	assert.NoError(t, broker.Publish(NotificationQueue, []byte("fits")))

	// Second publish blocks on the full queue until Close wakes it up.
	result := make(chan error, 1)
	go func() {
		result <- broker.Publish(NotificationQueue, []byte("blocked"))
	}()

	time.Sleep(20 * time.Millisecond)
	broker.Close()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("publish still blocked after broker close")
	}
}

func TestRejectAfterCloseDoesNotPanic(t *testing.T) {
	broker := NewBroker()
	broker.Capacity = 1
	sub := broker.Subscribe(NotificationQueue)

	assert.NoError(t, broker.Publish(NotificationQueue, []byte("in flight")))

	d, err := receiveWithTimeout(t, sub, time.Second)
	assert.NoError(t, err)

	// Refill the queue so the redelivery send would block, then shut down.
	assert.NoError(t, broker.Publish(NotificationQueue, []byte("filler")))
	broker.Close()

	assert.NotPanics(t, func() { d.Reject() })
}

func TestClosedBroker(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(NotificationQueue)
	broker.Close()

	err := broker.Publish(NotificationQueue, []byte("too late"))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = receiveWithTimeout(t, sub, time.Second)
	assert.ErrorIs(t, err, ErrClosed)
}
