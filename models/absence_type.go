package models

import "time"

// AbsenceType is the catalog of absence categories (maladie, congé payé, ...).
type AbsenceType struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	Name                  string    `gorm:"type:varchar(50);unique;not null" json:"name"`
	Description           string    `gorm:"type:varchar(255)" json:"description"`
	RequiresJustification bool      `gorm:"not null;default:true" json:"requires_justification"`
	CreatedAt             time.Time `json:"created_at"`
}
