package models

import "time"

// Notification is the persisted record behind the user-facing notification feed.
// ReadFlag/ReadAt move together: the only allowed mutation is the one-way
// unread -> read transition, performed by the notification store.
type Notification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RecipientID   uint       `gorm:"not null;index" json:"recipient_id"`
	SenderID      *uint      `json:"sender_id,omitempty"` // nil = system-originated
	Type          string     `gorm:"type:varchar(50);not null" json:"type"`
	Subject       string     `gorm:"type:varchar(255);not null" json:"subject"`
	Body          string     `gorm:"type:text;not null" json:"body"`
	ReferenceID   *uint      `json:"reference_id,omitempty"`
	ReferenceType *string    `gorm:"type:varchar(50)" json:"reference_type,omitempty"`
	ReadFlag      bool       `gorm:"not null;default:false" json:"read"`
	SentAt        time.Time  `gorm:"not null;index" json:"sent_at"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
}

// IsRecent reports whether the notification was sent within the last 24 hours.
// Recency is derived, never stored.
func (n *Notification) IsRecent() bool {
	return n.SentAt.After(time.Now().Add(-24 * time.Hour))
}
