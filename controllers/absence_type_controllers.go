package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/plateforme-rh/absences-app/models"
	"github.com/plateforme-rh/absences-app/utils"
	"gorm.io/gorm"
)

type AbsenceTypeController struct {
	DB *gorm.DB
}

func NewAbsenceTypeController(db *gorm.DB) *AbsenceTypeController {
	return &AbsenceTypeController{DB: db}
}

func (tc *AbsenceTypeController) GetAllTypes(c *gin.Context) {
	var types []models.AbsenceType
	if err := tc.DB.Order("name ASC").Find(&types).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All absence types", types)
}

func (tc *AbsenceTypeController) GetTypeByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("type_id"))

	var t models.AbsenceType
	if err := tc.DB.First(&t, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Absence type detail", t)
}

func (tc *AbsenceTypeController) CreateType(c *gin.Context) {
	type reqBody struct {
		Name                  string `json:"name" binding:"required"`
		Description           string `json:"description"`
		RequiresJustification *bool  `json:"requires_justification"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	t := models.AbsenceType{
		Name:                  body.Name,
		Description:           body.Description,
		RequiresJustification: true,
	}
	if body.RequiresJustification != nil {
		t.RequiresJustification = *body.RequiresJustification
	}

	if err := tc.DB.Create(&t).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Absence type created: %s", t.Name)
	utils.RespondJSON(c, http.StatusCreated, "Absence type created", t)
}

func (tc *AbsenceTypeController) UpdateType(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("type_id"))

	var t models.AbsenceType
	if err := tc.DB.First(&t, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type reqBody struct {
		Name                  *string `json:"name"`
		Description           *string `json:"description"`
		RequiresJustification *bool   `json:"requires_justification"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		t.Name = *body.Name
	}
	if body.Description != nil {
		t.Description = *body.Description
	}
	if body.RequiresJustification != nil {
		t.RequiresJustification = *body.RequiresJustification
	}

	if err := tc.DB.Save(&t).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Absence type updated", t)
}

func (tc *AbsenceTypeController) DeleteType(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("type_id"))

	if err := tc.DB.Delete(&models.AbsenceType{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Absence type deleted", gin.H{"type_id": id})
}
