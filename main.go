package main

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/plateforme-rh/absences-app/config"
	"github.com/plateforme-rh/absences-app/database"
	"github.com/plateforme-rh/absences-app/middlewares"
	"github.com/plateforme-rh/absences-app/models"
	"github.com/plateforme-rh/absences-app/queue"
	"github.com/plateforme-rh/absences-app/router"
	"github.com/plateforme-rh/absences-app/services"
	"github.com/plateforme-rh/absences-app/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Notification pipeline: producer -> queue -> worker -> store.
	broker := queue.NewBroker()
	defer broker.Close()

	producer := services.NewNotificationProducer(broker)
	notificationService := services.NewNotificationService(db)

	worker := services.NewNotificationWorker(broker.Subscribe(queue.NotificationQueue), notificationService.Store())
	worker.Start()
	defer worker.Stop()

	sweeper := services.NewRetentionSweeper(notificationService, retentionDays())
	sweeper.Start()
	defer sweeper.Stop()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, producer)
	r.Use(rateLimiter.RateLimit())
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func retentionDays() int {
	days, err := strconv.Atoi(os.Getenv("RETENTION_DAYS"))
	if err != nil {
		return 0 // sweeper falls back to its default
	}
	return days
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.AbsenceType{},
		&models.Absence{},
		&models.LeaveRequest{},
		&models.Notification{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.SeedAbsenceTypes(db); err != nil {
		utils.ErrorLogger.Printf("Error seeding absence types: %v", err)
	}
}
