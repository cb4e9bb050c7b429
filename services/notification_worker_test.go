package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plateforme-rh/absences-app/models"
	"github.com/plateforme-rh/absences-app/queue"
)

func setupPipeline(t *testing.T) (*queue.Broker, *NotificationStore, *NotificationWorker) {
	t.Helper()
	store := NewNotificationStore(setupStoreDB(t))
	broker := queue.NewBroker()
	worker := NewNotificationWorker(broker.Subscribe(queue.NotificationQueue), store)
	worker.Start()
	t.Cleanup(func() {
		worker.Stop()
		broker.Close()
	})
	return broker, store, worker
}

func TestPipelineDeliversNotification(t *testing.T) {
	broker, store, _ := setupPipeline(t)
	producer := NewNotificationProducer(broker)

	refID := uint(42)
	refType := "ABSENCE"
	producer.Publish(NotificationEvent{
		RecipientID:   5,
		Type:          "ABSENCE",
		Subject:       "Absence enregistrée",
		Body:          "Votre absence (MALADIE) du 10/02/2025 a été enregistrée.",
		ReferenceID:   &refID,
		ReferenceType: &refType,
	})

	assert.Eventually(t, func() bool {
		notifs, err := store.FindByRecipient(5)
		return err == nil && len(notifs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	notifs, _ := store.FindByRecipient(5)
	created, err := store.FindByID(notifs[0].ID)
	assert.NoError(t, err)
	assert.False(t, created.ReadFlag)
	assert.False(t, created.SentAt.IsZero())
	assert.NotNil(t, created.ReferenceID)
	assert.EqualValues(t, 42, *created.ReferenceID)
	assert.Equal(t, "ABSENCE", *created.ReferenceType)
}

func TestMalformedMessageDoesNotBlockNextOne(t *testing.T) {
	broker, store, _ := setupPipeline(t)
	producer := NewNotificationProducer(broker)

	assert.NoError(t, broker.Publish(queue.NotificationQueue, []byte("{this is not json")))
	producer.Publish(AbsenceRecordedEvent(11, nil, 1, "MALADIE", "10/02/2025"))

	assert.Eventually(t, func() bool {
		count, err := store.CountUnread(11)
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The malformed message was dropped, not turned into a row.
	notifs, err := store.FindByRecipient(11)
	assert.NoError(t, err)
	assert.Len(t, notifs, 1)
}

func TestInvalidEventDropped(t *testing.T) {
	broker, store, _ := setupPipeline(t)
	producer := NewNotificationProducer(broker)

	// Valid JSON, but no recipient: fails validation and is never retried.
	producer.Publish(NotificationEvent{Type: "ABSENCE", Subject: "s", Body: "b"})
	producer.Publish(AbsenceRecordedEvent(12, nil, 2, "RTT", "11/02/2025"))

	assert.Eventually(t, func() bool {
		count, err := store.CountUnread(12)
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStoreFailureCausesRedelivery(t *testing.T) {
	store := NewNotificationStore(setupStoreDB(t))
	broker := queue.NewBroker()
	// A transient outage may be retried many times before it clears.
	broker.MaxAttempts = 100000
	worker := NewNotificationWorker(broker.Subscribe(queue.NotificationQueue), store)
	worker.Start()
	t.Cleanup(func() {
		worker.Stop()
		broker.Close()
	})

	producer := NewNotificationProducer(broker)

	// Simulate a storage outage: drop the table so inserts fail.
	assert.NoError(t, store.DB.Migrator().DropTable(&models.Notification{}))

	producer.Publish(AbsenceRecordedEvent(13, nil, 3, "MALADIE", "12/02/2025"))
	time.Sleep(50 * time.Millisecond)

	// Outage over: the unacknowledged message is still in flight and lands.
	assert.NoError(t, store.DB.AutoMigrate(&models.Notification{}))

	assert.Eventually(t, func() bool {
		count, err := store.CountUnread(13)
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerGracefulStop(t *testing.T) {
	store := NewNotificationStore(setupStoreDB(t))
	broker := queue.NewBroker()
	defer broker.Close()
	worker := NewNotificationWorker(broker.Subscribe(queue.NotificationQueue), store)
	worker.Start()

	producer := NewNotificationProducer(broker)
	producer.Publish(AbsenceRecordedEvent(14, nil, 4, "MALADIE", "13/02/2025"))

	assert.Eventually(t, func() bool {
		count, err := store.CountUnread(14)
		return err == nil && count == 1
	}, 2*time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		worker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop in time")
	}

	// Stopped worker no longer consumes.
	producer.Publish(AbsenceRecordedEvent(14, nil, 5, "MALADIE", "14/02/2025"))
	time.Sleep(50 * time.Millisecond)
	count, _ := store.CountUnread(14)
	assert.EqualValues(t, 1, count)
}

func TestStopWithoutStartReturns(t *testing.T) {
	store := NewNotificationStore(setupStoreDB(t))
	broker := queue.NewBroker()
	defer broker.Close()
	worker := NewNotificationWorker(broker.Subscribe(queue.NotificationQueue), store)

	done := make(chan struct{})
	go func() {
		worker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop on a never-started worker blocked")
	}
}
