package queue

import (
	"context"
	"log"
	"sync"
	"time"
)

// Broker is an in-process message broker: FIFO per queue, at-least-once
// delivery, redelivery on reject up to MaxAttempts. It stands in for external
// broker infrastructure behind the Publisher/Receiver interfaces.
type Broker struct {
	mu     sync.Mutex
	queues map[string]chan envelope
	done   chan struct{}
	closed bool

	// Capacity is the per-queue buffer size.
	Capacity int
	// MaxAttempts caps redeliveries of a rejected message; once reached the
	// message is dropped with an error log instead of looping forever.
	MaxAttempts int
	// PublishTimeout bounds how long a publish may block on a full queue
	// before it is treated as a send failure.
	PublishTimeout time.Duration
}

type envelope struct {
	body     []byte
	attempts int
}

func NewBroker() *Broker {
	return &Broker{
		queues:         make(map[string]chan envelope),
		done:           make(chan struct{}),
		Capacity:       256,
		MaxAttempts:    3,
		PublishTimeout: 5 * time.Second,
	}
}

func (b *Broker) queue(name string) (chan envelope, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false
	}
	ch, ok := b.queues[name]
	if !ok {
		ch = make(chan envelope, b.Capacity)
		b.queues[name] = ch
	}
	return ch, true
}

// Publish appends one message to the named queue. Messages from a single
// caller are delivered in send order.
func (b *Broker) Publish(queue string, body []byte) error {
	ch, ok := b.queue(queue)
	if !ok {
		return ErrClosed
	}

	timer := time.NewTimer(b.PublishTimeout)
	defer timer.Stop()

	select {
	case ch <- envelope{body: body, attempts: 1}:
		return nil
	case <-b.done:
		return ErrClosed
	case <-timer.C:
		return ErrPublishTimeout
	}
}

// Subscribe binds a receiver to the named queue.
func (b *Broker) Subscribe(queue string) *Subscription {
	return &Subscription{broker: b, name: queue}
}

// Close rejects further publishes and wakes up blocked publishers and
// receivers. The queue channels are never closed: publishers and the reject
// path may still be holding a send on them, so shutdown is signalled through
// the done channel instead.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}

// Subscription is a single logical consumer of one queue.
type Subscription struct {
	broker *Broker
	name   string
}

// Receive blocks until a message arrives, the context is cancelled or the
// broker is closed.
func (s *Subscription) Receive(ctx context.Context) (*Delivery, error) {
	ch, ok := s.broker.queue(s.name)
	if !ok {
		return nil, ErrClosed
	}

	select {
	case env := <-ch:
		d := &Delivery{
			Body:     env.body,
			Attempts: env.attempts,
		}
		d.onReject = func() { s.redeliver(env) }
		return d, nil
	case <-s.broker.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Subscription) redeliver(env envelope) {
	if env.attempts >= s.broker.MaxAttempts {
		log.Printf("queue %s: dropping message after %d attempts", s.name, env.attempts)
		return
	}
	env.attempts++

	ch, ok := s.broker.queue(s.name)
	if !ok {
		return
	}
	select {
	case ch <- env:
	case <-s.broker.done:
	default:
		log.Printf("queue %s: dropping rejected message, queue full", s.name)
	}
}
