package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plateforme-rh/absences-app/models"
	"github.com/plateforme-rh/absences-app/services"
	"github.com/plateforme-rh/absences-app/utils"
	"gorm.io/gorm"
)

var (
	errInvalidPeriod      = errors.New("invalid period, expected ?from=YYYY-MM-DD&to=YYYY-MM-DD")
	errUnknownAbsenceType = errors.New("unknown absence type")
)

type AbsenceController struct {
	DB       *gorm.DB
	Producer *services.NotificationProducer
}

func NewAbsenceController(db *gorm.DB, producer *services.NotificationProducer) *AbsenceController {
	return &AbsenceController{DB: db, Producer: producer}
}

func (ac *AbsenceController) GetAllAbsences(c *gin.Context) {
	var absences []models.Absence
	if err := ac.DB.Preload("AbsenceType").Order("date DESC").Find(&absences).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All absences", absences)
}

func (ac *AbsenceController) GetAbsenceByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("absence_id"))

	var absence models.Absence
	if err := ac.DB.Preload("AbsenceType").First(&absence, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Absence detail", absence)
}

func (ac *AbsenceController) GetAbsencesByEmployee(c *gin.Context) {
	employeeID, _ := strconv.Atoi(c.Param("employee_id"))

	var absences []models.Absence
	err := ac.DB.Preload("AbsenceType").
		Where("employee_id = ?", employeeID).
		Order("date DESC").
		Find(&absences).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Absences for employee", absences)
}

// GetAbsencesByPeriod -> ?from=2025-01-01&to=2025-01-31
func (ac *AbsenceController) GetAbsencesByPeriod(c *gin.Context) {
	from, err1 := time.Parse("2006-01-02", c.Query("from"))
	to, err2 := time.Parse("2006-01-02", c.Query("to"))
	if err1 != nil || err2 != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidPeriod)
		return
	}

	var absences []models.Absence
	err := ac.DB.Preload("AbsenceType").
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&absences).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Absences for period", absences)
}

// GetUnjustifiedAbsences -> unjustified absences whose type requires a document
func (ac *AbsenceController) GetUnjustifiedAbsences(c *gin.Context) {
	var absences []models.Absence
	err := ac.DB.Preload("AbsenceType").
		Joins("JOIN absence_types ON absence_types.id = absences.absence_type_id").
		Where("absences.justified = ? AND absence_types.requires_justification = ?", false, true).
		Order("date DESC").
		Find(&absences).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unjustified absences", absences)
}

// CreateAbsence persists the absence, then hands the notification off to the
// producer. The publish is fire-and-forget: the absence stays committed no
// matter what happens on the queue.
func (ac *AbsenceController) CreateAbsence(c *gin.Context) {
	type reqBody struct {
		EmployeeID    uint     `json:"employee_id" binding:"required"`
		AbsenceTypeID uint     `json:"absence_type_id" binding:"required"`
		Date          string   `json:"date" binding:"required"` // YYYY-MM-DD
		StartTime     *string  `json:"start_time"`
		EndTime       *string  `json:"end_time"`
		DurationHours *float64 `json:"duration_hours"`
		Reason        string   `json:"reason"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var absenceType models.AbsenceType
	if err := ac.DB.First(&absenceType, body.AbsenceTypeID).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errUnknownAbsenceType)
		return
	}

	absence := models.Absence{
		EmployeeID:    body.EmployeeID,
		AbsenceTypeID: body.AbsenceTypeID,
		Date:          date,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		DurationHours: body.DurationHours,
		Reason:        body.Reason,
		Status:        models.AbsenceStatusPending,
	}
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			absence.RecordedBy = &id
		}
	}

	if err := ac.DB.Create(&absence).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ac.Producer.PublishAbsenceRecorded(
		absence.EmployeeID,
		absence.RecordedBy,
		absence.ID,
		absenceType.Name,
		absence.Date.Format("02/01/2006"),
	)

	absence.AbsenceType = absenceType
	utils.RespondJSON(c, http.StatusCreated, "Absence created", absence)
}

func (ac *AbsenceController) UpdateAbsence(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("absence_id"))

	var absence models.Absence
	if err := ac.DB.First(&absence, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		Date          *string  `json:"date"`
		StartTime     *string  `json:"start_time"`
		EndTime       *string  `json:"end_time"`
		DurationHours *float64 `json:"duration_hours"`
		Reason        *string  `json:"reason"`
		Status        *string  `json:"status"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Date != nil {
		date, err := time.Parse("2006-01-02", *body.Date)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		absence.Date = date
	}
	if body.StartTime != nil {
		absence.StartTime = body.StartTime
	}
	if body.EndTime != nil {
		absence.EndTime = body.EndTime
	}
	if body.DurationHours != nil {
		absence.DurationHours = body.DurationHours
	}
	if body.Reason != nil {
		absence.Reason = *body.Reason
	}
	if body.Status != nil {
		absence.Status = *body.Status
	}

	if err := ac.DB.Save(&absence).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Absence updated", absence)
}

// JustifyAbsence attaches a justification document to the absence.
func (ac *AbsenceController) JustifyAbsence(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("absence_id"))

	type reqBody struct {
		DocumentPath string `json:"document_path" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var absence models.Absence
	if err := ac.DB.First(&absence, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	absence.Justified = true
	absence.JustificationDoc = &body.DocumentPath
	if err := ac.DB.Save(&absence).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Absence %d justified", absence.ID)
	utils.RespondJSON(c, http.StatusOK, "Absence justified", absence)
}

func (ac *AbsenceController) DeleteAbsence(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("absence_id"))

	if err := ac.DB.Delete(&models.Absence{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Absence deleted", gin.H{"absence_id": id})
}
