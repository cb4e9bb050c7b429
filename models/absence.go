package models

import "time"

// Absence statuses
const (
	AbsenceStatusPending   = "EN_ATTENTE"
	AbsenceStatusValidated = "VALIDEE"
	AbsenceStatusDisputed  = "CONTESTEE"
)

type Absence struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	EmployeeID       uint        `gorm:"not null;index" json:"employee_id"`
	AbsenceTypeID    uint        `gorm:"not null" json:"absence_type_id"`
	AbsenceType      AbsenceType `gorm:"foreignKey:AbsenceTypeID" json:"absence_type"`
	Date             time.Time   `gorm:"not null" json:"date"`
	StartTime        *string     `gorm:"type:varchar(5)" json:"start_time,omitempty"` // HH:MM
	EndTime          *string     `gorm:"type:varchar(5)" json:"end_time,omitempty"`
	DurationHours    *float64    `gorm:"type:decimal(4,2)" json:"duration_hours,omitempty"`
	Reason           string      `gorm:"type:text" json:"reason"`
	Status           string      `gorm:"type:varchar(20);not null;default:'EN_ATTENTE'" json:"status"`
	Justified        bool        `gorm:"not null;default:false" json:"justified"`
	JustificationDoc *string     `gorm:"type:varchar(255)" json:"justification_doc,omitempty"`
	RecordedBy       *uint       `json:"recorded_by,omitempty"`
	CreatedAt        time.Time   `gorm:"not null" json:"created_at"`
}
