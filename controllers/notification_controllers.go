package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/plateforme-rh/absences-app/services"
	"github.com/plateforme-rh/absences-app/utils"
)

var errMissingUserID = errors.New("missing or invalid user_id parameter")

type NotificationController struct {
	Service *services.NotificationService
}

func NewNotificationController(service *services.NotificationService) *NotificationController {
	return &NotificationController{Service: service}
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.As(err, &vErr):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func recipientFromQuery(c *gin.Context) (uint, bool) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		utils.RespondError(c, http.StatusBadRequest, errMissingUserID)
		return 0, false
	}
	return uint(userID), true
}

// GetNotifications -> ?user_id=N, newest first
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	recipientID, ok := recipientFromQuery(c)
	if !ok {
		return
	}

	notifs, err := nc.Service.FindByRecipient(recipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifs)
}

// GetUnreadNotifications -> ?user_id=N
func (nc *NotificationController) GetUnreadNotifications(c *gin.Context) {
	recipientID, ok := recipientFromQuery(c)
	if !ok {
		return
	}

	notifs, err := nc.Service.FindUnread(recipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread notifications", notifs)
}

// GetRecentNotifications -> last 24h, capped at 10
func (nc *NotificationController) GetRecentNotifications(c *gin.Context) {
	recipientID, ok := recipientFromQuery(c)
	if !ok {
		return
	}

	notifs, err := nc.Service.FindRecent(recipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recent notifications", notifs)
}

// CountUnread -> ?user_id=N
func (nc *NotificationController) CountUnread(c *gin.Context) {
	recipientID, ok := recipientFromQuery(c)
	if !ok {
		return
	}

	count, err := nc.Service.CountUnread(recipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"count": count})
}

// GetStats -> {total, unread, read}
func (nc *NotificationController) GetStats(c *gin.Context) {
	recipientID, ok := recipientFromQuery(c)
	if !ok {
		return
	}

	stats, err := nc.Service.Stats(recipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification stats", stats)
}

func (nc *NotificationController) GetNotificationByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("notif_id"))

	notif, err := nc.Service.FindByID(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification detail", notif)
}

// CreateNotification -> synchronous, bypasses the queue
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	type reqBody struct {
		RecipientID uint   `json:"recipient_id" binding:"required"`
		SenderID    *uint  `json:"sender_id"`
		Type        string `json:"type" binding:"required"`
		Subject     string `json:"subject" binding:"required"`
		Body        string `json:"body" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notif, err := nc.Service.CreateGeneric(body.RecipientID, body.SenderID, body.Type, body.Subject, body.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}

// MarkRead -> idempotent, repeated calls return the same terminal state
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("notif_id"))

	notif, err := nc.Service.MarkRead(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notif)
}

// MarkAllRead -> ?user_id=N
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	recipientID, ok := recipientFromQuery(c)
	if !ok {
		return
	}

	count, err := nc.Service.MarkAllRead(recipientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", gin.H{"marked": count})
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("notif_id"))

	existed, err := nc.Service.Delete(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !existed {
		utils.RespondError(c, http.StatusNotFound, services.ErrNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
