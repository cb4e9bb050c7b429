package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/plateforme-rh/absences-app/controllers"
	"github.com/plateforme-rh/absences-app/models"
	"github.com/plateforme-rh/absences-app/utils"
)

func setupUserRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal("failed to connect database")
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatal(err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router, db
}

func TestRegisterAndLogin(t *testing.T) {
	utils.InitLogger()
	router, db := setupUserRouter(t)

	w := performJSON(t, router, "POST", "/register", map[string]interface{}{
		"name":     "Marie Dupont",
		"email":    "marie.dupont@plateforme-rh.fr",
		"password": "secret123",
		"role":     "rh",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Password stored hashed
	var user models.User
	assert.NoError(t, db.Where("email = ?", "marie.dupont@plateforme-rh.fr").First(&user).Error)
	assert.NotEqual(t, "secret123", user.Password)

	w = performJSON(t, router, "POST", "/login", map[string]interface{}{
		"email":    "marie.dupont@plateforme-rh.fr",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "rh", data["user_role"])
}

func TestLoginWrongPassword(t *testing.T) {
	utils.InitLogger()
	router, _ := setupUserRouter(t)

	w := performJSON(t, router, "POST", "/register", map[string]interface{}{
		"name":     "Marie Dupont",
		"email":    "marie.dupont@plateforme-rh.fr",
		"password": "secret123",
		"role":     "rh",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(t, router, "POST", "/login", map[string]interface{}{
		"email":    "marie.dupont@plateforme-rh.fr",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
