package services

import (
	"errors"
	"time"

	"github.com/plateforme-rh/absences-app/models"
	"gorm.io/gorm"
)

// NotificationDraft carries the fields of a notification before the store
// assigns id and sent-at.
type NotificationDraft struct {
	RecipientID   uint
	SenderID      *uint
	Type          string
	Subject       string
	Body          string
	ReferenceID   *uint
	ReferenceType *string
}

func (d *NotificationDraft) validate() error {
	switch {
	case d.RecipientID == 0:
		return &ValidationError{Field: "recipient_id"}
	case d.Type == "":
		return &ValidationError{Field: "type"}
	case d.Subject == "":
		return &ValidationError{Field: "subject"}
	case d.Body == "":
		return &ValidationError{Field: "body"}
	}
	return nil
}

// NotificationStats is the per-recipient aggregate; Total == Unread + Read.
type NotificationStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
	Read   int64 `json:"read"`
}

// NotificationStore is the durable keeper of notifications and the only place
// allowed to move them through the unread -> read transition.
type NotificationStore struct {
	DB *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{DB: db}
}

// Insert persists a draft, assigning id and sent-at from the server clock.
func (s *NotificationStore) Insert(draft NotificationDraft) (*models.Notification, error) {
	if err := draft.validate(); err != nil {
		return nil, err
	}

	n := models.Notification{
		RecipientID:   draft.RecipientID,
		SenderID:      draft.SenderID,
		Type:          draft.Type,
		Subject:       draft.Subject,
		Body:          draft.Body,
		ReferenceID:   draft.ReferenceID,
		ReferenceType: draft.ReferenceType,
		ReadFlag:      false,
		SentAt:        time.Now(),
	}
	if err := s.DB.Create(&n).Error; err != nil {
		return nil, &StorageError{Op: "insert", Err: err}
	}
	return &n, nil
}

func (s *NotificationStore) FindByID(id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.DB.First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Op: "find", Err: err}
	}
	return &n, nil
}

// FindByRecipient returns the recipient's notifications, newest first.
func (s *NotificationStore) FindByRecipient(recipientID uint) ([]models.Notification, error) {
	var notifs []models.Notification
	err := s.DB.Where("recipient_id = ?", recipientID).
		Order("sent_at DESC, id DESC").
		Find(&notifs).Error
	if err != nil {
		return nil, &StorageError{Op: "find by recipient", Err: err}
	}
	return notifs, nil
}

func (s *NotificationStore) FindUnread(recipientID uint) ([]models.Notification, error) {
	var notifs []models.Notification
	err := s.DB.Where("recipient_id = ? AND read_flag = ?", recipientID, false).
		Order("sent_at DESC, id DESC").
		Find(&notifs).Error
	if err != nil {
		return nil, &StorageError{Op: "find unread", Err: err}
	}
	return notifs, nil
}

// FindRecent returns the recipient's notifications of the last 24 hours,
// capped at 10.
func (s *NotificationStore) FindRecent(recipientID uint) ([]models.Notification, error) {
	var notifs []models.Notification
	err := s.DB.Where("recipient_id = ? AND sent_at >= ?", recipientID, time.Now().Add(-24*time.Hour)).
		Order("sent_at DESC, id DESC").
		Limit(10).
		Find(&notifs).Error
	if err != nil {
		return nil, &StorageError{Op: "find recent", Err: err}
	}
	return notifs, nil
}

func (s *NotificationStore) CountUnread(recipientID uint) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_flag = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, &StorageError{Op: "count unread", Err: err}
	}
	return count, nil
}

// MarkRead performs the unread -> read transition. Already-read notifications
// are returned unchanged; the conditional update also makes concurrent calls
// on the same id race safely, the loser matches zero rows.
func (s *NotificationStore) MarkRead(id uint) (*models.Notification, error) {
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND read_flag = ?", id, false).
		Updates(map[string]interface{}{
			"read_flag": true,
			"read_at":   time.Now(),
		})
	if res.Error != nil {
		return nil, &StorageError{Op: "mark read", Err: res.Error}
	}
	return s.FindByID(id)
}

// MarkAllRead transitions every unread notification of the recipient in a
// single statement and returns how many rows moved.
func (s *NotificationStore) MarkAllRead(recipientID uint) (int64, error) {
	res := s.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_flag = ?", recipientID, false).
		Updates(map[string]interface{}{
			"read_flag": true,
			"read_at":   time.Now(),
		})
	if res.Error != nil {
		return 0, &StorageError{Op: "mark all read", Err: res.Error}
	}
	return res.RowsAffected, nil
}

// Delete removes a notification and reports whether a row existed.
func (s *NotificationStore) Delete(id uint) (bool, error) {
	res := s.DB.Delete(&models.Notification{}, id)
	if res.Error != nil {
		return false, &StorageError{Op: "delete", Err: res.Error}
	}
	return res.RowsAffected > 0, nil
}

// DeleteByRecipient removes every notification of one recipient.
func (s *NotificationStore) DeleteByRecipient(recipientID uint) (int64, error) {
	res := s.DB.Where("recipient_id = ?", recipientID).Delete(&models.Notification{})
	if res.Error != nil {
		return 0, &StorageError{Op: "delete by recipient", Err: res.Error}
	}
	return res.RowsAffected, nil
}

// PurgeReadOlderThan deletes read notifications whose read-at is older than
// the cutoff. Unread rows survive regardless of age.
func (s *NotificationStore) PurgeReadOlderThan(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res := s.DB.Where("read_flag = ? AND read_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if res.Error != nil {
		return 0, &StorageError{Op: "purge", Err: res.Error}
	}
	return res.RowsAffected, nil
}

// Stats returns the recipient's totals. Read is derived from the other two so
// the identity total == unread + read always holds.
func (s *NotificationStore) Stats(recipientID uint) (*NotificationStats, error) {
	var total int64
	err := s.DB.Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID).
		Count(&total).Error
	if err != nil {
		return nil, &StorageError{Op: "stats", Err: err}
	}

	unread, err := s.CountUnread(recipientID)
	if err != nil {
		return nil, err
	}

	return &NotificationStats{
		Total:  total,
		Unread: unread,
		Read:   total - unread,
	}, nil
}
