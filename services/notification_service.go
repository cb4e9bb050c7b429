package services

import (
	"github.com/plateforme-rh/absences-app/models"
	"github.com/plateforme-rh/absences-app/utils"
	"gorm.io/gorm"
)

// NotificationService is the request-facing surface over the store: the read
// operations plus direct creators for synchronous/system notifications that
// bypass the queue.
type NotificationService struct {
	store *NotificationStore
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{store: NewNotificationStore(db)}
}

// Store exposes the underlying store, mainly for the worker and tests.
func (s *NotificationService) Store() *NotificationStore {
	return s.store
}

func (s *NotificationService) FindByRecipient(recipientID uint) ([]models.Notification, error) {
	return s.store.FindByRecipient(recipientID)
}

func (s *NotificationService) FindUnread(recipientID uint) ([]models.Notification, error) {
	return s.store.FindUnread(recipientID)
}

func (s *NotificationService) FindRecent(recipientID uint) ([]models.Notification, error) {
	return s.store.FindRecent(recipientID)
}

func (s *NotificationService) CountUnread(recipientID uint) (int64, error) {
	return s.store.CountUnread(recipientID)
}

func (s *NotificationService) FindByID(id uint) (*models.Notification, error) {
	return s.store.FindByID(id)
}

func (s *NotificationService) MarkRead(id uint) (*models.Notification, error) {
	return s.store.MarkRead(id)
}

func (s *NotificationService) MarkAllRead(recipientID uint) (int64, error) {
	return s.store.MarkAllRead(recipientID)
}

func (s *NotificationService) Delete(id uint) (bool, error) {
	return s.store.Delete(id)
}

func (s *NotificationService) DeleteByRecipient(recipientID uint) (int64, error) {
	return s.store.DeleteByRecipient(recipientID)
}

func (s *NotificationService) Stats(recipientID uint) (*NotificationStats, error) {
	return s.store.Stats(recipientID)
}

// PurgeOldRead removes read notifications older than retentionDays.
func (s *NotificationService) PurgeOldRead(retentionDays int) (int64, error) {
	return s.store.PurgeReadOlderThan(retentionDays)
}

// CreateAbsenceNotification writes the "absence enregistrée" notification
// directly, without going through the queue.
func (s *NotificationService) CreateAbsenceNotification(employeeID uint, recordedBy *uint, absenceID uint, typeName, date string) (*models.Notification, error) {
	return s.store.Insert(draftFromEvent(AbsenceRecordedEvent(employeeID, recordedBy, absenceID, typeName, date)))
}

// CreateLeaveNotification writes a leave-decision notification directly.
// Unknown statuses fall back to the "pending validation" text.
func (s *NotificationService) CreateLeaveNotification(employeeID uint, decidedBy *uint, requestID uint, status, period, comment string) (*models.Notification, error) {
	var event NotificationEvent
	switch status {
	case models.LeaveStatusApproved:
		event = LeaveApprovedEvent(employeeID, decidedBy, requestID, period)
	case models.LeaveStatusRejected:
		event = LeaveRejectedEvent(employeeID, decidedBy, requestID, period, comment)
	default:
		refType := "DEMANDE_CONGE"
		event = NotificationEvent{
			RecipientID:   employeeID,
			SenderID:      decidedBy,
			Type:          "DEMANDE_CONGE",
			Subject:       "Nouvelle demande de congé",
			Body:          "Une demande de congé du " + period + " est en attente de validation.",
			ReferenceID:   &requestID,
			ReferenceType: &refType,
		}
	}
	return s.store.Insert(draftFromEvent(event))
}

// CreateGeneric writes an arbitrary notification directly to the store.
func (s *NotificationService) CreateGeneric(recipientID uint, senderID *uint, notifType, subject, body string) (*models.Notification, error) {
	n, err := s.store.Insert(NotificationDraft{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notifType,
		Subject:     subject,
		Body:        body,
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Notification created: type=%s recipient=%d", notifType, recipientID)
	return n, nil
}
