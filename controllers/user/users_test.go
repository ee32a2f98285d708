package userControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lojak57/baseform-api/models"
)

func newUserTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	r := gin.New()
	// stands in for the session middleware
	r.Use(func(c *gin.Context) { c.Set("user_id", "u1") })
	r.GET("/user", GetUser(db))
	r.PUT("/user", UpdateUser(db))
	return r, db
}

func TestGetUserReturnsProfileWithAddress(t *testing.T) {
	r, db := newUserTestRouter(t)
	require.NoError(t, db.Create(&models.User{
		ID:       "u1",
		Email:    "ada@example.com",
		Name:     "Ada",
		Provider: "google",
		Address:  models.Address{Line1: "1 Main St", City: "Denver", Country: "US", PostalCode: "80202"},
	}).Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		ID      string         `json:"id"`
		Email   string         `json:"email"`
		Address models.Address `json:"address"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "Denver", got.Address.City)
}

func TestUpdateUserReplacesAddress(t *testing.T) {
	r, db := newUserTestRouter(t)
	require.NoError(t, db.Create(&models.User{
		ID:      "u1",
		Email:   "ada@example.com",
		Name:    "Ada",
		Address: models.Address{Line1: "1 Main St", Line2: "Apt 2", City: "Denver"},
	}).Error)

	body, _ := json.Marshal(gin.H{
		"phone":   "555-0100",
		"address": gin.H{"line1": "9 Oak Ave", "city": "Boulder", "country": "US", "postal_code": "80301"},
	})
	req := httptest.NewRequest(http.MethodPut, "/user", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", "u1").Error)
	assert.Equal(t, "555-0100", stored.Phone)
	assert.Equal(t, "9 Oak Ave", stored.Address.Line1)
	assert.Equal(t, "", stored.Address.Line2, "posted address replaces the saved one wholesale")
	assert.Equal(t, "Ada", stored.Name, "omitted fields keep their value")
}
