package queue

import (
	"context"
	"errors"
	"sync"
)

// NotificationQueue is the single logical queue the notification pipeline uses.
const NotificationQueue = "notifications"

var (
	ErrClosed         = errors.New("queue: broker closed")
	ErrPublishTimeout = errors.New("queue: publish timed out")
)

// Publisher is the producer-side contract: serialize-and-send one message.
type Publisher interface {
	Publish(queue string, body []byte) error
}

// Receiver is the consumer-side contract: a blocking receive yielding one
// message at a time together with its acknowledgment handle.
type Receiver interface {
	Receive(ctx context.Context) (*Delivery, error)
}

// Delivery is one received message. Exactly one of Ack or Reject should be
// called; whichever comes first wins, later calls are no-ops.
type Delivery struct {
	Body     []byte
	Attempts int

	once     sync.Once
	onAck    func()
	onReject func()
}

// Ack confirms the message was fully processed and must not be redelivered.
func (d *Delivery) Ack() {
	d.once.Do(func() {
		if d.onAck != nil {
			d.onAck()
		}
	})
}

// Reject returns the message to the broker for redelivery, subject to the
// broker's attempt cap.
func (d *Delivery) Reject() {
	d.once.Do(func() {
		if d.onReject != nil {
			d.onReject()
		}
	})
}
