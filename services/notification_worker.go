package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/plateforme-rh/absences-app/queue"
	"github.com/plateforme-rh/absences-app/utils"
)

// NotificationWorker is the long-lived consumer of the notification queue.
// It blocks on the queue, turns each event into a store insert and only
// acknowledges after the insert succeeded, so a transient storage failure
// leads to redelivery instead of silent loss.
type NotificationWorker struct {
	receiver queue.Receiver
	store    *NotificationStore
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewNotificationWorker(receiver queue.Receiver, store *NotificationStore) *NotificationWorker {
	return &NotificationWorker{
		receiver: receiver,
		store:    store,
		done:     make(chan struct{}),
	}
}

// Start launches the receive loop on its own goroutine.
func (w *NotificationWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go func() {
		defer close(w.done)
		utils.InfoLogger.Println("Notification worker started")
		for {
			delivery, err := w.receiver.Receive(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, queue.ErrClosed) {
					utils.InfoLogger.Println("Notification worker stopped")
					return
				}
				// A receive error only fails this iteration.
				utils.ErrorLogger.Printf("Notification worker: receive failed: %v", err)
				continue
			}
			w.handle(delivery)
		}
	}()
}

// Stop cancels the loop and waits for the in-flight message to finish.
// Stopping a worker that was never started is a no-op.
func (w *NotificationWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

// handle processes one delivery in isolation: whatever happens here must not
// affect the next message.
func (w *NotificationWorker) handle(delivery *queue.Delivery) {
	var event NotificationEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		// Malformed input never becomes valid, retrying would loop forever.
		utils.ErrorLogger.Printf("Notification worker: dropping malformed event: %v", err)
		delivery.Ack()
		return
	}

	n, err := w.store.Insert(draftFromEvent(event))
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			utils.ErrorLogger.Printf("Notification worker: dropping invalid event (type=%s): %v", event.Type, err)
			delivery.Ack()
			return
		}
		utils.ErrorLogger.Printf("Notification worker: insert failed, leaving for redelivery (attempt %d): %v",
			delivery.Attempts, err)
		delivery.Reject()
		return
	}

	delivery.Ack()
	utils.InfoLogger.Printf("Notification %d created for user %d (type=%s)", n.ID, n.RecipientID, n.Type)
}
