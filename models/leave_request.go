package models

import (
	"fmt"
	"time"
)

// LeaveRequest statuses
const (
	LeaveStatusPending  = "EN_ATTENTE"
	LeaveStatusApproved = "APPROUVE"
	LeaveStatusRejected = "REJETE"
)

type LeaveRequest struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EmployeeID uint       `gorm:"not null;index" json:"employee_id"`
	StartDate  time.Time  `gorm:"not null" json:"start_date"`
	EndDate    time.Time  `gorm:"not null" json:"end_date"`
	Reason     string     `gorm:"type:text" json:"reason"`
	Status     string     `gorm:"type:varchar(20);not null;default:'EN_ATTENTE'" json:"status"`
	Comment    *string    `gorm:"type:text" json:"comment,omitempty"`
	DecidedBy  *uint      `json:"decided_by,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

// Period formats the leave interval the way notification texts expect it,
// e.g. "10/02/2025 au 14/02/2025".
func (lr *LeaveRequest) Period() string {
	return fmt.Sprintf("%s au %s",
		lr.StartDate.Format("02/01/2006"),
		lr.EndDate.Format("02/01/2006"))
}
