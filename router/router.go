package router

import (
	"github.com/gin-gonic/gin"
	"github.com/plateforme-rh/absences-app/controllers"
	"github.com/plateforme-rh/absences-app/middlewares"
	"github.com/plateforme-rh/absences-app/services"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, producer *services.NotificationProducer) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	typeCtrl := controllers.NewAbsenceTypeController(db)
	absenceCtrl := controllers.NewAbsenceController(db, producer)
	leaveCtrl := controllers.NewLeaveRequestController(db, producer)
	notificationCtrl := controllers.NewNotificationController(services.NewNotificationService(db))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", userCtrl.GetProfile)
	api.GET("/users", userCtrl.GetAllUsers)
	api.POST("/logout", userCtrl.Logout)

	// ABSENCE TYPES (catalog; writes restricted to RH/admin)
	api.GET("/absence-types", typeCtrl.GetAllTypes)
	api.GET("/absence-types/:type_id", typeCtrl.GetTypeByID)
	rhOnly := api.Group("/")
	rhOnly.Use(middlewares.RequireRole("rh"))
	{
		rhOnly.POST("/absence-types", typeCtrl.CreateType)
		rhOnly.PATCH("/absence-types/:type_id", typeCtrl.UpdateType)
		rhOnly.DELETE("/absence-types/:type_id", typeCtrl.DeleteType)
	}

	// ABSENCES
	api.GET("/absences", absenceCtrl.GetAllAbsences)
	api.GET("/absences/period", absenceCtrl.GetAbsencesByPeriod)
	api.GET("/absences/unjustified", absenceCtrl.GetUnjustifiedAbsences)
	api.GET("/absences/employee/:employee_id", absenceCtrl.GetAbsencesByEmployee)
	api.GET("/absences/:absence_id", absenceCtrl.GetAbsenceByID)
	api.POST("/absences", absenceCtrl.CreateAbsence)
	api.PATCH("/absences/:absence_id", absenceCtrl.UpdateAbsence)
	api.PATCH("/absences/:absence_id/justify", absenceCtrl.JustifyAbsence)
	api.DELETE("/absences/:absence_id", absenceCtrl.DeleteAbsence)

	// LEAVE REQUESTS (decisions restricted to managers/RH)
	api.GET("/leave-requests", leaveCtrl.GetAllLeaveRequests)
	api.GET("/leave-requests/:request_id", leaveCtrl.GetLeaveRequestByID)
	api.POST("/leave-requests", leaveCtrl.CreateLeaveRequest)
	decide := api.Group("/")
	decide.Use(middlewares.RequireRole("manager", "rh"))
	{
		decide.POST("/leave-requests/:request_id/approve", leaveCtrl.ApproveLeaveRequest)
		decide.POST("/leave-requests/:request_id/reject", leaveCtrl.RejectLeaveRequest)
	}

	// NOTIFICATIONS
	api.GET("/notifications", notificationCtrl.GetNotifications)
	api.GET("/notifications/unread", notificationCtrl.GetUnreadNotifications)
	api.GET("/notifications/recent", notificationCtrl.GetRecentNotifications)
	api.GET("/notifications/count-unread", notificationCtrl.CountUnread)
	api.GET("/notifications/stats", notificationCtrl.GetStats)
	api.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	api.POST("/notifications", notificationCtrl.CreateNotification)
	api.PUT("/notifications/read-all", notificationCtrl.MarkAllRead)
	api.PUT("/notifications/:notif_id/read", notificationCtrl.MarkRead)
	api.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	return r
}
