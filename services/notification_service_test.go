package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plateforme-rh/absences-app/models"
)

func setupService(t *testing.T) *NotificationService {
	t.Helper()
	return &NotificationService{store: NewNotificationStore(setupStoreDB(t))}
}

func TestCreateLeaveNotificationVariants(t *testing.T) {
	svc := setupService(t)
	decider := uint(3)

	approved, err := svc.CreateLeaveNotification(5, &decider, 7, models.LeaveStatusApproved, "10/02/2025 au 14/02/2025", "")
	assert.NoError(t, err)
	assert.Equal(t, "CONGE_APPROUVE", approved.Type)

	rejected, err := svc.CreateLeaveNotification(5, &decider, 7, models.LeaveStatusRejected, "10/02/2025 au 14/02/2025", "Effectif insuffisant")
	assert.NoError(t, err)
	assert.Equal(t, "CONGE_REJETE", rejected.Type)
	assert.Contains(t, rejected.Body, "Effectif insuffisant")

	pending, err := svc.CreateLeaveNotification(5, &decider, 7, models.LeaveStatusPending, "10/02/2025 au 14/02/2025", "")
	assert.NoError(t, err)
	assert.Equal(t, "DEMANDE_CONGE", pending.Type)
	assert.Contains(t, pending.Body, "en attente de validation")

	stats, err := svc.Stats(5)
	assert.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.Equal(t, stats.Total, stats.Unread+stats.Read)
}

func TestCreateGenericValidation(t *testing.T) {
	svc := setupService(t)

	_, err := svc.CreateGeneric(0, nil, "INFO", "Sujet", "Corps")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	n, err := svc.CreateGeneric(5, nil, "INFO", "Sujet", "Corps")
	assert.NoError(t, err)
	assert.Nil(t, n.SenderID) // system-originated
}

func TestRetentionSweepRuns(t *testing.T) {
	svc := setupService(t)
	sweeper := NewRetentionSweeper(svc, 30)

	n, _ := svc.CreateGeneric(5, nil, "INFO", "Sujet", "Corps")
	svc.MarkRead(n.ID)

	// Nothing old enough yet: the sweep is a no-op.
	sweeper.Sweep()
	stats, _ := svc.Stats(5)
	assert.EqualValues(t, 1, stats.Total)
}
