package database

import (
	"errors"

	"github.com/plateforme-rh/absences-app/models"
	"github.com/plateforme-rh/absences-app/utils"
	"gorm.io/gorm"
)

// SeedAbsenceTypes inserts the default absence-type catalog. Existing rows are
// left untouched so the seed can run on every startup.
func SeedAbsenceTypes(db *gorm.DB) error {
	defaults := []models.AbsenceType{
		{Name: "MALADIE", Description: "Absence pour maladie", RequiresJustification: true},
		{Name: "CONGE_PAYE", Description: "Congé payé", RequiresJustification: false},
		{Name: "RTT", Description: "Réduction du temps de travail", RequiresJustification: false},
		{Name: "FORMATION", Description: "Absence pour formation", RequiresJustification: false},
		{Name: "EVENEMENT_FAMILIAL", Description: "Événement familial", RequiresJustification: true},
		{Name: "ABSENCE_INJUSTIFIEE", Description: "Absence non justifiée", RequiresJustification: true},
	}

	for _, t := range defaults {
		var existing models.AbsenceType
		err := db.Where("name = ?", t.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&t).Error; err != nil {
			return err
		}
		utils.InfoLogger.Printf("Seeded absence type %s", t.Name)
	}
	return nil
}
