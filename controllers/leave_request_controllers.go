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

var errAlreadyDecided = errors.New("leave request has already been decided")

type LeaveRequestController struct {
	DB       *gorm.DB
	Producer *services.NotificationProducer
}

func NewLeaveRequestController(db *gorm.DB, producer *services.NotificationProducer) *LeaveRequestController {
	return &LeaveRequestController{DB: db, Producer: producer}
}

func (lc *LeaveRequestController) GetAllLeaveRequests(c *gin.Context) {
	var requests []models.LeaveRequest
	if err := lc.DB.Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All leave requests", requests)
}

func (lc *LeaveRequestController) GetLeaveRequestByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("request_id"))

	var request models.LeaveRequest
	if err := lc.DB.First(&request, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Leave request detail", request)
}

func (lc *LeaveRequestController) CreateLeaveRequest(c *gin.Context) {
	type reqBody struct {
		EmployeeID uint   `json:"employee_id" binding:"required"`
		StartDate  string `json:"start_date" binding:"required"` // YYYY-MM-DD
		EndDate    string `json:"end_date" binding:"required"`
		Reason     string `json:"reason"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	start, err1 := time.Parse("2006-01-02", body.StartDate)
	end, err2 := time.Parse("2006-01-02", body.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid leave period"))
		return
	}

	request := models.LeaveRequest{
		EmployeeID: body.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     body.Reason,
		Status:     models.LeaveStatusPending,
	}
	if err := lc.DB.Create(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Leave request %d created for employee %d", request.ID, request.EmployeeID)
	utils.RespondJSON(c, http.StatusCreated, "Leave request created", request)
}

// ApproveLeaveRequest decides the request and queues the approval notification.
func (lc *LeaveRequestController) ApproveLeaveRequest(c *gin.Context) {
	lc.decide(c, models.LeaveStatusApproved)
}

// RejectLeaveRequest decides the request and queues the rejection notification.
func (lc *LeaveRequestController) RejectLeaveRequest(c *gin.Context) {
	lc.decide(c, models.LeaveStatusRejected)
}

func (lc *LeaveRequestController) decide(c *gin.Context, status string) {
	id, _ := strconv.Atoi(c.Param("request_id"))

	type reqBody struct {
		Comment string `json:"comment"`
	}
	var body reqBody
	// Body is optional on approval.
	_ = c.ShouldBindJSON(&body)

	var request models.LeaveRequest
	if err := lc.DB.First(&request, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if request.Status != models.LeaveStatusPending {
		utils.RespondError(c, http.StatusConflict, errAlreadyDecided)
		return
	}

	now := time.Now()
	request.Status = status
	request.DecidedAt = &now
	if body.Comment != "" {
		request.Comment = &body.Comment
	}
	if userID, exists := c.Get("user_id"); exists {
		if decider, ok := userID.(uint); ok {
			request.DecidedBy = &decider
		}
	}

	if err := lc.DB.Save(&request).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Decision is committed, the notification is best effort from here.
	if status == models.LeaveStatusApproved {
		lc.Producer.PublishLeaveApproved(request.EmployeeID, request.DecidedBy, request.ID, request.Period())
	} else {
		lc.Producer.PublishLeaveRejected(request.EmployeeID, request.DecidedBy, request.ID, request.Period(), body.Comment)
	}

	utils.InfoLogger.Printf("Leave request %d %s", request.ID, status)
	utils.RespondJSON(c, http.StatusOK, "Leave request decided", request)
}
